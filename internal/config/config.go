// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package config loads ORBITA configuration from layered sources
// (struct defaults, optional YAML file, environment variables) using
// koanf v2. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration tree.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Tracking TrackingConfig `koanf:"tracking"`
	Passes   PassesConfig   `koanf:"passes"`
	Alerts   AlertsConfig   `koanf:"alerts"`
	Upstream UpstreamConfig `koanf:"upstream"`
	EarthObs EarthObsConfig `koanf:"earth_observation"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	Environment       string        `koanf:"environment"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CatalogConfig controls the TLE catalog source and its local cache.
type CatalogConfig struct {
	// SourceURL is the Celestrak element-set URL fetched on startup and
	// on every refresh tick.
	SourceURL       string        `koanf:"source_url"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`

	// CachePath is the badger directory holding the last good element
	// set so the server can start while Celestrak is unreachable.
	// Empty disables the cache.
	CachePath string `koanf:"cache_path"`

	// MaxSatellites bounds the roster returned by the list endpoint.
	MaxSatellites int `koanf:"max_satellites"`
}

// TrackingConfig controls the view-sync reconciliation loops.
type TrackingConfig struct {
	// RefreshInterval drives the full reconciliation pass.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// SelectedRefreshInterval drives the short-cycle position update
	// for the currently selected satellite.
	SelectedRefreshInterval time.Duration `koanf:"selected_refresh_interval"`

	// MaxTracked caps how many satellites one pass renders.
	MaxTracked int `koanf:"max_tracked"`

	// FetchConcurrency bounds in-flight position lookups per pass.
	FetchConcurrency int `koanf:"fetch_concurrency"`
}

// PassesConfig controls visibility-window prediction.
type PassesConfig struct {
	// ElevationCutoff is the minimum elevation, in degrees, for a
	// sample to count as visible.
	ElevationCutoff float64 `koanf:"elevation_cutoff"`

	// SampleStep is the interval between sampled instants.
	SampleStep time.Duration `koanf:"sample_step"`

	// MaxDays caps the prediction horizon a request may ask for.
	MaxDays int `koanf:"max_days"`
}

// AlertsConfig controls the monitoring alert feed.
type AlertsConfig struct {
	// LiveURL, when set, is polled for real alerts.
	LiveURL         string        `koanf:"live_url"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout"`

	// FallbackToMock serves generated sample alerts when no live feed
	// is configured or the live fetch fails. Enabled by default so the
	// dashboard stays populated out of the box.
	FallbackToMock bool `koanf:"fallback_to_mock"`

	// BufferSize bounds the retained alert history.
	BufferSize int `koanf:"buffer_size"`
}

// UpstreamConfig selects an optional remote position service. When
// BaseURL is empty, positions are propagated locally from the catalog.
type UpstreamConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// EarthObsConfig holds credentials for external imagery providers.
// Presence of a key only toggles the matching health flag and the
// imagery endpoint; no credential is ever logged.
type EarthObsConfig struct {
	SentinelAPIKey    string `koanf:"sentinel_api_key"`
	GeminiAPIKey      string `koanf:"gemini_api_key"`
	EarthEngineKey    string `koanf:"earth_engine_key"`
	NASAEarthdataUser string `koanf:"nasa_earthdata_user"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8001,
			Timeout:         30 * time.Second,
			Environment:     "development",
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Catalog: CatalogConfig{
			SourceURL:       "https://celestrak.org/NORAD/elements/stations.txt",
			RefreshInterval: 6 * time.Hour,
			FetchTimeout:    30 * time.Second,
			CachePath:       "/data/orbita/catalog",
			MaxSatellites:   50,
		},
		Tracking: TrackingConfig{
			RefreshInterval:         10 * time.Second,
			SelectedRefreshInterval: 3 * time.Second,
			MaxTracked:              50,
			FetchConcurrency:        8,
		},
		Passes: PassesConfig{
			ElevationCutoff: 10.0,
			SampleStep:      2 * time.Hour,
			MaxDays:         14,
		},
		Alerts: AlertsConfig{
			LiveURL:         "",
			RefreshInterval: 5 * time.Minute,
			FetchTimeout:    15 * time.Second,
			FallbackToMock:  true,
			BufferSize:      256,
		},
		Upstream: UpstreamConfig{
			BaseURL: "",
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Catalog.SourceURL == "" {
		return fmt.Errorf("catalog.source_url must not be empty")
	}
	if c.Catalog.MaxSatellites < 1 {
		return fmt.Errorf("catalog.max_satellites must be positive, got %d", c.Catalog.MaxSatellites)
	}
	if c.Tracking.RefreshInterval < time.Second {
		return fmt.Errorf("tracking.refresh_interval must be at least 1s, got %s", c.Tracking.RefreshInterval)
	}
	if c.Tracking.FetchConcurrency < 1 {
		return fmt.Errorf("tracking.fetch_concurrency must be positive, got %d", c.Tracking.FetchConcurrency)
	}
	if c.Tracking.MaxTracked < 1 {
		return fmt.Errorf("tracking.max_tracked must be positive, got %d", c.Tracking.MaxTracked)
	}
	if c.Passes.ElevationCutoff < 0 || c.Passes.ElevationCutoff >= 90 {
		return fmt.Errorf("passes.elevation_cutoff must be in [0,90), got %g", c.Passes.ElevationCutoff)
	}
	if c.Passes.MaxDays < 1 {
		return fmt.Errorf("passes.max_days must be positive, got %d", c.Passes.MaxDays)
	}
	if c.Alerts.BufferSize < 1 {
		return fmt.Errorf("alerts.buffer_size must be positive, got %d", c.Alerts.BufferSize)
	}
	if !c.Alerts.FallbackToMock && c.Alerts.LiveURL == "" {
		return fmt.Errorf("alerts.live_url is required when alerts.fallback_to_mock is disabled")
	}
	return nil
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
