// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package main is the entry point for the ORBITA server.
//
// ORBITA tracks a satellite catalog, propagates positions, predicts
// ground-station passes, and pushes a live globe view plus industrial
// monitoring alerts to connected dashboards.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config file (Koanf v2)
//  2. Catalog: TLE store (BadgerDB cache) and periodic CelesTrak refresh
//  3. Event bus: in-process Watermill pub/sub for alerts and catalog updates
//  4. WebSocket hub: real-time globe and alert push to clients
//  5. View sync: reconciles tracked satellites into globe entities
//  6. HTTP server: REST API under /api with Prometheus metrics
//
// All long-running components run under a suture supervisor tree and
// restart independently on failure.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables (ORBITA_ prefix), config file
// (config.yaml), built-in defaults.
//
// # Position Sources
//
// Positions are computed locally with SGP4 by default. Setting
// ORBITA_UPSTREAM_BASE_URL delegates position lookups to an upstream
// tracker behind a circuit breaker.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the
// supervisor tree winds down its services, in-flight requests get the
// shutdown timeout to complete, and the catalog cache is closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/alerts"
	"github.com/catchmeifyoucaan/projectORBITA/internal/analytics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/api"
	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/events"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/orbit"
	"github.com/catchmeifyoucaan/projectORBITA/internal/supervisor"
	"github.com/catchmeifyoucaan/projectORBITA/internal/supervisor/services"
	"github.com/catchmeifyoucaan/projectORBITA/internal/upstream"
	"github.com/catchmeifyoucaan/projectORBITA/internal/viewsync"
	ws "github.com/catchmeifyoucaan/projectORBITA/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting ORBITA with supervisor tree")
	logging.Info().
		Str("catalog_url", cfg.Catalog.SourceURL).
		Str("cache_path", cfg.Catalog.CachePath).
		Str("environment", cfg.Server.Environment).
		Msg("Configuration loaded")

	// Catalog cache: optional, the server runs without it
	var store *orbit.Store
	if cfg.Catalog.CachePath != "" {
		store, err = orbit.OpenStore(cfg.Catalog.CachePath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Catalog.CachePath).Msg("Failed to open catalog cache")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing catalog cache")
			}
		}()
		logging.Info().Str("path", cfg.Catalog.CachePath).Msg("Catalog cache opened")
	} else {
		logging.Info().Msg("Catalog cache disabled (no cache path configured)")
	}

	catalog := orbit.NewCatalog()
	fetcher := orbit.NewFetcher(cfg.Catalog)
	refresher := orbit.NewRefreshService(catalog, fetcher, store, cfg.Catalog)

	// Event bus carries alert and catalog events to the websocket layer
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	refresher.SetOnRefreshed(func(satellites int) {
		if err := bus.PublishCatalogUpdated(satellites); err != nil {
			logging.Warn().Err(err).Msg("Failed to publish catalog update")
		}
	})

	// WebSocket hub for real-time updates (before the view syncer,
	// which renders through it)
	wsHub := ws.NewHub()

	// Position source: local SGP4 unless an upstream tracker is configured
	var source viewsync.PositionSource
	if cfg.Upstream.BaseURL != "" {
		source = upstreamSource(cfg)
	} else {
		source = orbit.NewLocalSource(catalog)
		logging.Info().Msg("Using local SGP4 position source")
	}

	syncer := viewsync.NewSyncer(ws.Factory(wsHub), source, viewsync.Config{
		MaxTracked:       cfg.Tracking.MaxTracked,
		FetchConcurrency: cfg.Tracking.FetchConcurrency,
	})

	// Alert monitoring: ring-buffered history plus live/mock polling
	alertStore := alerts.NewStore(cfg.Alerts.BufferSize)
	monitor := alerts.NewMonitor(cfg.Alerts, alertStore, bus)
	if cfg.Alerts.LiveURL != "" {
		logging.Info().
			Str("url", cfg.Alerts.LiveURL).
			Bool("fallback_to_mock", cfg.Alerts.FallbackToMock).
			Msg("Live alert feed configured")
	} else {
		logging.Info().Msg("Alert feed running on mock data")
	}

	dashboard := analytics.NewDashboard(catalog, alertStore)
	earthObs := analytics.NewEarthObs(cfg.EarthObs)
	if cfg.EarthObs.SentinelAPIKey == "" {
		logging.Warn().Msg("Sentinel Hub API key not configured, imagery endpoint disabled")
	}

	handler := api.NewHandler(
		catalog,
		source,
		cfg.Passes,
		cfg.EarthObs,
		cfg.Catalog.MaxSatellites,
		monitor,
		dashboard,
		earthObs,
		wsHub,
	)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Supervisor tree: zerolog bridged to slog for sutureslog
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())

	// Data layer: catalog refresh and alert polling
	tree.AddDataService(refresher)
	tree.AddDataService(monitor)

	// Messaging layer: hub, event forwarding, and the globe tracker
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(events.NewForwarder(bus, wsHub, wsHub))
	tree.AddMessagingService(services.NewTrackerService(syncer, catalog, cfg.Tracking))

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, supervisor.DefaultTreeConfig().ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// upstreamSource builds the circuit-breaker-wrapped upstream position
// client used when a remote tracker is configured.
func upstreamSource(cfg *config.Config) viewsync.PositionSource {
	logging.Info().
		Str("base_url", cfg.Upstream.BaseURL).
		Dur("timeout", cfg.Upstream.Timeout).
		Msg("Using upstream position source")
	return upstream.NewPositionClient(cfg.Upstream)
}
