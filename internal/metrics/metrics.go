// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package metrics defines the Prometheus instrumentation for ORBITA:
// reconciliation passes, position lookups, catalog refreshes, the
// websocket hub, and the HTTP API surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// View sync reconciliation

	ReconcilePassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_reconcile_passes_total",
			Help: "Total reconciliation passes by outcome",
		},
		[]string{"outcome"}, // "completed", "superseded", "skipped"
	)

	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbita_reconcile_duration_seconds",
			Help:    "Duration of one full reconciliation pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	RenderedEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbita_rendered_entities",
			Help: "Entities currently present on the globe",
		},
	)

	StaleResultsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbita_stale_results_discarded_total",
			Help: "Late position fixes dropped because a newer pass took over",
		},
	)

	// Position lookups

	PositionFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_position_fetches_total",
			Help: "Position lookups by source and outcome",
		},
		[]string{"source", "outcome"}, // source: "local", "upstream"
	)

	PositionFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbita_position_fetch_duration_seconds",
			Help:    "Duration of one position lookup",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"source"},
	)

	// Catalog

	CatalogSatellites = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbita_catalog_satellites",
			Help: "Satellites in the current catalog snapshot",
		},
	)

	CatalogRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_catalog_refreshes_total",
			Help: "Catalog refresh attempts by outcome",
		},
		[]string{"outcome"}, // "fetched", "cache", "failed"
	)

	CatalogRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbita_catalog_refresh_duration_seconds",
			Help:    "Duration of one catalog refresh",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Alerts

	AlertsServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_alerts_served_total",
			Help: "Alerts served to the feed by origin",
		},
		[]string{"origin"}, // "live", "mock"
	)

	// Circuit breaker protecting remote collaborators

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orbita_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// WebSocket hub

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbita_websocket_clients",
			Help: "Connected websocket clients",
		},
	)

	WebSocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_websocket_messages_total",
			Help: "WebSocket messages by direction",
		},
		[]string{"direction"}, // "sent", "received", "dropped"
	)

	// HTTP API

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbita_api_requests_total",
			Help: "API requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbita_api_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordReconcilePass records one completed (or superseded) pass.
func RecordReconcilePass(outcome string, duration time.Duration) {
	ReconcilePassesTotal.WithLabelValues(outcome).Inc()
	if outcome == "completed" {
		ReconcileDuration.Observe(duration.Seconds())
	}
}

// RecordPositionFetch records one position lookup.
func RecordPositionFetch(source string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	PositionFetchesTotal.WithLabelValues(source, outcome).Inc()
	PositionFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCatalogRefresh records one catalog refresh attempt.
func RecordCatalogRefresh(outcome string, duration time.Duration, size int) {
	CatalogRefreshesTotal.WithLabelValues(outcome).Inc()
	if outcome != "failed" {
		CatalogRefreshDuration.Observe(duration.Seconds())
		CatalogSatellites.Set(float64(size))
	}
}

// RecordAPIRequest records one handled HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetBreakerState maps a gobreaker state onto the gauge.
func SetBreakerState(name string, state int) {
	BreakerState.WithLabelValues(name).Set(float64(state))
}
