// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package models

import "time"

// DashboardSummary carries the top-level counters shown on the
// dashboard landing view. Satellite and alert counts are live; the
// zone counters are operator-configured until zone management lands.
type DashboardSummary struct {
	TotalSatellitesTracked     int `json:"total_satellites_tracked"`
	ActiveMonitoringZones      int `json:"active_monitoring_zones"`
	RecentAlerts               int `json:"recent_alerts"`
	ImageryProcessedToday      int `json:"imagery_processed_today"`
	AIAnalysesCompleted        int `json:"ai_analyses_completed"`
	DeforestationAlerts        int `json:"deforestation_alerts"`
	AgriculturalZonesMonitored int `json:"agricultural_zones_monitored"`
	SecurityZonesActive        int `json:"security_zones_active"`
}

// NDVIRequest selects a location and date range for vegetation analysis.
type NDVIRequest struct {
	Location     string   `json:"location" validate:"required"`
	AnalysisType string   `json:"analysis_type" validate:"required,oneof=deforestation agriculture security general"`
	DateRange    []string `json:"date_range" validate:"required,min=1,dive,datetime=2006-01-02"`
}

// NDVIAnalysis is the vegetation-index result for one request.
type NDVIAnalysis struct {
	Location        string    `json:"location"`
	DateRange       []string  `json:"date_range"`
	NDVIValues      []float64 `json:"ndvi_values"`
	Analysis        string    `json:"analysis"`
	Recommendations []string  `json:"recommendations"`
}

// ImageryMetadata describes the provenance of an imagery product.
type ImageryMetadata struct {
	Resolution    string `json:"resolution"`
	CloudCoverage string `json:"cloud_coverage"`
	Satellite     string `json:"satellite"`
}

// ImageryResult points at an imagery tile for a requested location.
type ImageryResult struct {
	Location  string          `json:"location"`
	Date      time.Time       `json:"date"`
	ImageType string          `json:"image_type"`
	ImageURL  string          `json:"image_url"`
	Metadata  ImageryMetadata `json:"metadata"`
}

// HealthStatus is the /api/health payload.
type HealthStatus struct {
	Status           string          `json:"status"`
	Timestamp        time.Time       `json:"timestamp"`
	SatellitesLoaded int             `json:"satellites_loaded"`
	APIsConfigured   map[string]bool `json:"apis_configured"`
}
