// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
	"github.com/catchmeifyoucaan/projectORBITA/internal/viewsync"
)

// Roster yields the satellites the tracker should keep on the globe.
type Roster interface {
	List(max int) []models.SatelliteRecord
}

// TrackerService drives the view sync loop. It owns the syncer's
// lifecycle (initialize on start, teardown on stop) and the selection
// state fed back from globe clicks. Two cadences run concurrently: a
// full reconcile of the tracked roster, and a faster refresh of just
// the selected satellite so its readout stays current.
type TrackerService struct {
	syncer *viewsync.Syncer
	roster Roster
	cfg    config.TrackingConfig
	log    zerolog.Logger

	mu         sync.RWMutex
	selectedID string
}

// NewTrackerService wires the tracker.
func NewTrackerService(syncer *viewsync.Syncer, roster Roster, cfg config.TrackingConfig) *TrackerService {
	return &TrackerService{
		syncer: syncer,
		roster: roster,
		cfg:    cfg,
		log:    logging.WithComponent("tracker"),
	}
}

// SelectedID returns the satellite currently highlighted, or "".
func (t *TrackerService) SelectedID() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selectedID
}

// Serve implements suture.Service. The syncer is torn down on every
// exit so a supervisor restart starts from a clean renderer.
func (t *TrackerService) Serve(ctx context.Context) error {
	if err := t.syncer.Initialize(); err != nil {
		return fmt.Errorf("initialize view sync: %w", err)
	}
	defer func() {
		if err := t.syncer.Teardown(); err != nil {
			t.log.Warn().Err(err).Msg("view sync teardown reported errors")
		}
	}()

	t.syncer.OnSelectionChanged(func(rec models.SatelliteRecord) {
		t.mu.Lock()
		t.selectedID = rec.ID
		t.mu.Unlock()
		t.log.Info().Str("satellite_id", rec.ID).Str("name", rec.Name).Msg("satellite selected")
	})

	t.refresh(ctx)

	full := time.NewTicker(t.cfg.RefreshInterval)
	defer full.Stop()
	selected := time.NewTicker(t.cfg.SelectedRefreshInterval)
	defer selected.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-full.C:
			t.refresh(ctx)
		case <-selected.C:
			if t.SelectedID() == "" {
				continue
			}
			if err := t.syncer.RefreshSelected(ctx); err != nil {
				t.log.Warn().Err(err).Msg("selected refresh failed")
			}
		}
	}
}

func (t *TrackerService) refresh(ctx context.Context) {
	list := t.roster.List(t.cfg.MaxTracked)
	if err := t.syncer.Refresh(ctx, list, t.SelectedID()); err != nil {
		t.log.Warn().Err(err).Int("roster", len(list)).Msg("reconcile pass failed")
		return
	}

	// The syncer drops the selection when the satellite leaves the
	// roster; mirror that here so the fast cadence stops firing.
	t.mu.Lock()
	t.selectedID = t.syncer.Selected()
	t.mu.Unlock()
}

// String identifies the service in supervisor logs.
func (t *TrackerService) String() string {
	return "tracker"
}
