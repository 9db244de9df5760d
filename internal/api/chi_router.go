// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/middleware"
)

// Router assembles the HTTP surface.
type Router struct {
	handler *Handler
	mw      *ChiMiddleware
	cfg     config.ServerConfig
}

// NewRouter wires handlers and middleware.
func NewRouter(handler *Handler, cfg config.ServerConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewChiMiddleware(cfg),
		cfg:     cfg,
	}
}

// Setup builds the route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	// Health endpoints get the permissive limiter so monitoring
	// probes never hit the data-endpoint limit.
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(router.mw.RateLimit())

		// The websocket upgrade hijacks the connection, so it stays
		// outside the metrics wrapper.
		r.Get("/ws", router.handler.WebSocket(newUpgrader(router.cfg.CORSOrigins)))

		r.Group(func(r chi.Router) {
			r.Use(middleware.PrometheusMetrics)

			r.Route("/satellites", func(r chi.Router) {
				r.Get("/list", router.handler.ListSatellites)
				r.Get("/{id}/position", router.handler.SatellitePosition)
				r.Post("/passes", router.handler.SatellitePasses)
			})

			r.Route("/earth-observation", func(r chi.Router) {
				r.Post("/ndvi", router.handler.NDVI)
				r.Get("/imagery", router.handler.Imagery)
			})

			// The industrial route is an alias kept for older
			// dashboard builds.
			r.Get("/monitoring/alerts", router.handler.Alerts)
			r.Get("/industrial/alerts", router.handler.Alerts)

			r.Get("/analytics/dashboard", router.handler.Dashboard)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
