// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package viewsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// ErrRenderInit reports that the renderer engine could not be
// acquired. Terminal for the 3D view only; the host keeps serving.
var ErrRenderInit = errors.New("globe renderer initialization failed")

// ErrNotReady reports an operation on a Syncer that is not in the
// Ready state.
var ErrNotReady = errors.New("view sync not initialized")

// handlePrefix namespaces satellite entities within the renderer so
// selection events for other overlays are recognizable.
const handlePrefix = "sat:"

// Config bounds one reconciliation pass.
type Config struct {
	// MaxTracked caps how many satellites of the input list are
	// rendered, first-N by list order.
	MaxTracked int

	// FetchConcurrency bounds in-flight position lookups.
	FetchConcurrency int
}

// Syncer owns the render entities for tracked satellites. All mutable
// state is guarded by mu; position fetches run outside the lock and
// re-validate the pass generation before applying.
type Syncer struct {
	newRenderer RendererFactory
	source      PositionSource
	cfg         Config
	log         zerolog.Logger

	mu          sync.Mutex
	state       State
	renderer    Renderer
	generation  uint64
	entities    map[string]string                 // satellite id -> handle
	records     map[string]models.SatelliteRecord // handle -> record
	selectedID  string
	onSelection func(models.SatelliteRecord)
}

// NewSyncer builds a Syncer in the Uninitialized state.
func NewSyncer(factory RendererFactory, source PositionSource, cfg Config) *Syncer {
	if cfg.MaxTracked <= 0 {
		cfg.MaxTracked = 50
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 8
	}
	return &Syncer{
		newRenderer: factory,
		source:      source,
		cfg:         cfg,
		log:         logging.WithComponent("viewsync"),
		entities:    make(map[string]string),
		records:     make(map[string]models.SatelliteRecord),
	}
}

// State reports the current lifecycle state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize acquires the renderer. A call while Ready is a no-op.
// After Teardown, Initialize acquires a fresh renderer.
func (s *Syncer) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateReady {
		return nil
	}

	r, err := s.newRenderer()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderInit, err)
	}

	r.OnEntitySelected(s.handleSelected)
	s.renderer = r
	s.state = StateReady
	s.log.Info().Msg("globe renderer acquired")
	return nil
}

// OnSelectionChanged registers the single selection observer. A later
// call replaces the previous observer; nil unregisters.
func (s *Syncer) OnSelectionChanged(handler func(models.SatelliteRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSelection = handler
}

// handleSelected translates a renderer selection event into the
// registered observer call. Entities without a satellite
// back-reference never reach the observer.
func (s *Syncer) handleSelected(handle string) {
	s.mu.Lock()
	record, ok := s.records[handle]
	handler := s.onSelection
	if ok {
		s.selectedID = record.ID
	}
	s.mu.Unlock()

	if !ok || handler == nil {
		return
	}
	handler(record)
}

// Refresh runs one reconciliation pass: fetch each listed satellite's
// position (bounded fan-out), upsert its entity, then remove entities
// for satellites no longer listed. A fetch failure skips that
// satellite only. The pass returns once every fetch has settled.
//
// Refresh may be called again before a prior pass's fetches resolve:
// each pass bumps the generation, and late results from superseded
// passes are discarded instead of applied.
func (s *Syncer) Refresh(ctx context.Context, list []models.SatelliteRecord, selectedID string) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}

	s.generation++
	gen := s.generation
	s.selectedID = selectedID

	if len(list) > s.cfg.MaxTracked {
		list = list[:s.cfg.MaxTracked]
	}
	desired := make(map[string]struct{}, len(list))
	for _, rec := range list {
		desired[rec.ID] = struct{}{}
	}
	s.mu.Unlock()

	start := time.Now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.FetchConcurrency)
	for _, rec := range list {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec models.SatelliteRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			s.syncOne(ctx, rec, gen, rec.ID == selectedID)
		}(rec)
	}
	wg.Wait()

	// Removal phase. If a newer pass started meanwhile, it owns the
	// entity set now; doing removals here would fight it.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		metrics.RecordReconcilePass("superseded", time.Since(start))
		return nil
	}

	for id, handle := range s.entities {
		if _, keep := desired[id]; keep {
			continue
		}
		if err := s.renderer.RemoveEntity(handle); err != nil {
			s.log.Warn().Err(err).Str("handle", handle).Msg("entity removal failed")
		}
		delete(s.entities, id)
		delete(s.records, handle)
	}

	// A selection pointing at a satellite that left the tracked set
	// is stale and must not survive the pass.
	if s.selectedID != "" {
		if _, ok := desired[s.selectedID]; !ok {
			s.log.Debug().Str("satellite", s.selectedID).Msg("clearing stale selection")
			s.selectedID = ""
		}
	}

	metrics.RecordReconcilePass("completed", time.Since(start))
	metrics.RenderedEntities.Set(float64(len(s.entities)))
	return nil
}

// syncOne fetches one satellite's position and applies it if the pass
// is still current.
func (s *Syncer) syncOne(ctx context.Context, rec models.SatelliteRecord, gen uint64, selected bool) {
	fix, err := s.source.CurrentPosition(ctx, rec.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("satellite", rec.ID).Msg("position fetch failed, skipping")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Late result: a newer pass (or a teardown) took over while the
	// fetch was in flight.
	if s.generation != gen || s.state != StateReady {
		metrics.StaleResultsDiscarded.Inc()
		return
	}

	handle := handlePrefix + rec.ID
	err = s.renderer.UpsertEntity(Entity{
		Handle:      handle,
		SatelliteID: rec.ID,
		Name:        rec.Name,
		Position:    fix,
		Selected:    selected,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("satellite", rec.ID).Msg("entity upsert failed, skipping")
		return
	}
	s.entities[rec.ID] = handle
	s.records[handle] = rec
}

// RefreshSelected re-fetches only the currently selected satellite,
// driving the short-cycle detail updates between full passes.
func (s *Syncer) RefreshSelected(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return ErrNotReady
	}
	id := s.selectedID
	gen := s.generation
	var rec models.SatelliteRecord
	if handle, ok := s.entities[id]; ok {
		rec = s.records[handle]
	} else {
		id = ""
	}
	s.mu.Unlock()

	if id == "" {
		return nil
	}
	s.syncOne(ctx, rec, gen, true)
	return nil
}

// Selected reports the satellite id currently highlighted, or "".
func (s *Syncer) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// EntityCount reports how many entities the Syncer currently owns.
func (s *Syncer) EntityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entities)
}

// Teardown destroys all owned entities and releases the renderer.
// Idempotent, and callable from any state; errors from the renderer
// are collected but never block the teardown itself.
func (s *Syncer) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		s.state = StateDestroyed
		return nil
	}

	// Invalidate in-flight passes before touching the renderer so no
	// late result mutates a destroyed handle.
	s.generation++

	var errs []error
	if err := s.renderer.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear entities: %w", err))
	}
	if err := s.renderer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close renderer: %w", err))
	}

	s.entities = make(map[string]string)
	s.records = make(map[string]models.SatelliteRecord)
	s.selectedID = ""
	s.renderer = nil
	s.state = StateDestroyed
	metrics.RenderedEntities.Set(0)

	s.log.Info().Msg("view sync torn down")
	return errors.Join(errs...)
}
