// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package analytics

import (
	"testing"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/alerts"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

type fixedCounter int

func (c fixedCounter) Len() int { return int(c) }

func storedAlert(alertType string, age time.Duration) models.Alert {
	return models.Alert{
		ID:        "a-" + alertType,
		Type:      alertType,
		Location:  "Test Zone",
		Severity:  models.SeverityHigh,
		Message:   "test",
		Timestamp: time.Now().UTC().Add(-age),
	}
}

func TestDashboard_Summary(t *testing.T) {
	store := alerts.NewStore(16)
	store.Add(storedAlert(models.AlertTypeDeforestation, time.Hour))
	store.Add(storedAlert(models.AlertTypeAgriculture, 2*time.Hour))
	store.Add(storedAlert(models.AlertTypeSecurity, 48*time.Hour)) // outside window

	d := NewDashboard(fixedCounter(42), store)
	got := d.Summary()

	if got.TotalSatellitesTracked != 42 {
		t.Errorf("TotalSatellitesTracked: expected 42, got %d", got.TotalSatellitesTracked)
	}
	if got.RecentAlerts != 2 {
		t.Errorf("RecentAlerts: expected 2, got %d", got.RecentAlerts)
	}
	if got.DeforestationAlerts != 1 {
		t.Errorf("DeforestationAlerts: expected 1, got %d", got.DeforestationAlerts)
	}
	if got.ActiveMonitoringZones != 15 || got.AgriculturalZonesMonitored != 12 || got.SecurityZonesActive != 8 {
		t.Errorf("unexpected zone counters: %+v", got)
	}
	if got.ImageryProcessedToday != 47 || got.AIAnalysesCompleted != 23 {
		t.Errorf("unexpected processing counters: %+v", got)
	}
}

func TestDashboard_EmptySources(t *testing.T) {
	d := NewDashboard(fixedCounter(0), alerts.NewStore(4))
	got := d.Summary()

	if got.TotalSatellitesTracked != 0 || got.RecentAlerts != 0 || got.DeforestationAlerts != 0 {
		t.Errorf("expected zero live counters, got %+v", got)
	}
}
