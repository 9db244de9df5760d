// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package viewsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

//nolint:gochecknoinits // silence logs during tests
func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

// fakeRenderer records entity mutations and fails loudly when touched
// after Close, which is the use-after-free condition the Syncer must
// never trigger.
type fakeRenderer struct {
	mu          sync.Mutex
	entities    map[string]Entity
	selectFn    func(handle string)
	closed      bool
	usedAfterC  bool
	failUpserts map[string]error
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{entities: make(map[string]Entity)}
}

func (r *fakeRenderer) UpsertEntity(e Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.usedAfterC = true
		return errors.New("renderer closed")
	}
	if err, ok := r.failUpserts[e.SatelliteID]; ok {
		return err
	}
	r.entities[e.Handle] = e
	return nil
}

func (r *fakeRenderer) RemoveEntity(handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.usedAfterC = true
		return errors.New("renderer closed")
	}
	delete(r.entities, handle)
	return nil
}

func (r *fakeRenderer) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities = make(map[string]Entity)
	return nil
}

func (r *fakeRenderer) OnEntitySelected(fn func(handle string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectFn = fn
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeRenderer) selectHandle(handle string) {
	r.mu.Lock()
	fn := r.selectFn
	r.mu.Unlock()
	if fn != nil {
		fn(handle)
	}
}

func (r *fakeRenderer) entity(handle string) (Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entities[handle]
	return e, ok
}

func (r *fakeRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

// scriptedSource serves canned fixes per satellite id. A gate channel
// blocks that satellite's fetch until released, which lets tests
// overlap passes deterministically.
type scriptedSource struct {
	mu    sync.Mutex
	fixes map[string]models.PositionFix
	fails map[string]error
	gates map[string]chan struct{}
}

func newScriptedSource(ids ...string) *scriptedSource {
	s := &scriptedSource{
		fixes: make(map[string]models.PositionFix),
		fails: make(map[string]error),
		gates: make(map[string]chan struct{}),
	}
	for i, id := range ids {
		s.fixes[id] = models.PositionFix{
			Latitude:  float64(10 * i),
			Longitude: float64(20 * i),
			Altitude:  400 + float64(i),
			Velocity:  7.66,
			Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		}
	}
	return s
}

func (s *scriptedSource) gate(id string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[id] = ch
	return ch
}

func (s *scriptedSource) CurrentPosition(ctx context.Context, id string) (models.PositionFix, error) {
	s.mu.Lock()
	gate := s.gates[id]
	fail := s.fails[id]
	fix, ok := s.fixes[id]
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return models.PositionFix{}, ctx.Err()
		}
	}
	if fail != nil {
		return models.PositionFix{}, fail
	}
	if !ok {
		return models.PositionFix{}, fmt.Errorf("no fix scripted for %s", id)
	}
	return fix, nil
}

func record(id string) models.SatelliteRecord {
	return models.SatelliteRecord{ID: id, Name: "SAT " + id}
}

func newTestSyncer(t *testing.T, source PositionSource, cfg Config) (*Syncer, *fakeRenderer) {
	t.Helper()
	renderer := newFakeRenderer()
	s := NewSyncer(func() (Renderer, error) { return renderer, nil }, source, cfg)
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s, renderer
}

func TestRefreshReconcilesEntitySet(t *testing.T) {
	source := newScriptedSource("A", "B", "C")
	source.fails["B"] = errors.New("position service unreachable")
	s, renderer := newTestSyncer(t, source, Config{})

	list := []models.SatelliteRecord{record("A"), record("B"), record("C")}
	if err := s.Refresh(t.Context(), list, ""); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Post-pass entity set = listed ids whose fetch succeeded.
	if s.EntityCount() != 2 {
		t.Fatalf("entity count = %d, want 2", s.EntityCount())
	}
	if _, ok := renderer.entity("sat:A"); !ok {
		t.Error("entity for A missing")
	}
	if _, ok := renderer.entity("sat:B"); ok {
		t.Error("entity for failed B should not exist")
	}
	if _, ok := renderer.entity("sat:C"); !ok {
		t.Error("entity for C missing despite B's failure")
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	source := newScriptedSource("A", "B")
	s, renderer := newTestSyncer(t, source, Config{})
	list := []models.SatelliteRecord{record("A"), record("B")}

	for i := 0; i < 3; i++ {
		if err := s.Refresh(t.Context(), list, ""); err != nil {
			t.Fatalf("Refresh %d: %v", i, err)
		}
	}

	if renderer.count() != 2 {
		t.Errorf("renderer holds %d entities after repeated refreshes, want 2", renderer.count())
	}
	if s.EntityCount() != 2 {
		t.Errorf("syncer tracks %d entities, want 2", s.EntityCount())
	}
}

func TestRefreshRemovesUntrackedAndClearsSelection(t *testing.T) {
	source := newScriptedSource("A")
	s, renderer := newTestSyncer(t, source, Config{})

	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, "A"); err != nil {
		t.Fatal(err)
	}
	if s.Selected() != "A" {
		t.Fatalf("selected = %q, want A", s.Selected())
	}

	if err := s.Refresh(t.Context(), nil, "A"); err != nil {
		t.Fatal(err)
	}

	if renderer.count() != 0 {
		t.Errorf("renderer holds %d entities, want 0", renderer.count())
	}
	if s.Selected() != "" {
		t.Errorf("stale selection %q survived the pass", s.Selected())
	}
}

func TestRefreshHonorsMaxTracked(t *testing.T) {
	source := newScriptedSource("A", "B", "C")
	s, renderer := newTestSyncer(t, source, Config{MaxTracked: 2})

	list := []models.SatelliteRecord{record("A"), record("B"), record("C")}
	if err := s.Refresh(t.Context(), list, ""); err != nil {
		t.Fatal(err)
	}

	if renderer.count() != 2 {
		t.Fatalf("renderer holds %d entities, want first 2 by list order", renderer.count())
	}
	if _, ok := renderer.entity("sat:C"); ok {
		t.Error("entity beyond the tracking cap should not render")
	}
}

func TestRefreshMarksSelectedEntity(t *testing.T) {
	source := newScriptedSource("A", "B")
	s, renderer := newTestSyncer(t, source, Config{})

	list := []models.SatelliteRecord{record("A"), record("B")}
	if err := s.Refresh(t.Context(), list, "B"); err != nil {
		t.Fatal(err)
	}

	a, _ := renderer.entity("sat:A")
	b, _ := renderer.entity("sat:B")
	if a.Selected {
		t.Error("A should not be highlighted")
	}
	if !b.Selected {
		t.Error("B should be highlighted")
	}
}

func TestLateResultFromSupersededPassIsDiscarded(t *testing.T) {
	source := newScriptedSource("A", "B")
	gate := source.gate("A")
	s, renderer := newTestSyncer(t, source, Config{})

	first := make(chan error, 1)
	go func() {
		first <- s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, "")
	}()

	// Let the first pass reach its blocked fetch, then supersede it
	// with a pass that no longer tracks A.
	time.Sleep(20 * time.Millisecond)
	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("B")}, ""); err != nil {
		t.Fatal(err)
	}

	close(gate)
	if err := <-first; err != nil {
		t.Fatalf("superseded refresh returned error: %v", err)
	}

	if _, ok := renderer.entity("sat:A"); ok {
		t.Error("late result created a stale entity for A")
	}
	if _, ok := renderer.entity("sat:B"); !ok {
		t.Error("entity for B missing; superseded pass must not remove it")
	}
	if s.EntityCount() != 1 {
		t.Errorf("entity count = %d, want 1", s.EntityCount())
	}
}

func TestTeardownThenReinitialize(t *testing.T) {
	source := newScriptedSource("A")
	renderer := newFakeRenderer()
	factoryCalls := 0
	s := NewSyncer(func() (Renderer, error) {
		factoryCalls++
		return renderer, nil
	}, source, Config{})

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, ""); err != nil {
		t.Fatal(err)
	}

	if err := s.Teardown(); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if s.State() != StateDestroyed {
		t.Errorf("state = %s, want destroyed", s.State())
	}
	if s.EntityCount() != 0 {
		t.Errorf("entities survive teardown: %d", s.EntityCount())
	}
	if err := s.Refresh(t.Context(), nil, ""); !errors.Is(err, ErrNotReady) {
		t.Errorf("Refresh after teardown = %v, want ErrNotReady", err)
	}

	// Clean re-acquisition.
	if err := s.Initialize(); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
	if s.State() != StateReady {
		t.Errorf("state after re-init = %s, want ready", s.State())
	}
	if factoryCalls != 2 {
		t.Errorf("factory calls = %d, want 2", factoryCalls)
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	source := newScriptedSource()
	s, _ := newTestSyncer(t, source, Config{})

	for i := 0; i < 3; i++ {
		if err := s.Teardown(); err != nil {
			t.Fatalf("Teardown call %d: %v", i, err)
		}
	}
	if s.State() != StateDestroyed {
		t.Errorf("state = %s, want destroyed", s.State())
	}
}

func TestTeardownBeforeInitialize(t *testing.T) {
	s := NewSyncer(func() (Renderer, error) { return newFakeRenderer(), nil },
		newScriptedSource(), Config{})

	if err := s.Teardown(); err != nil {
		t.Fatalf("Teardown on uninitialized syncer: %v", err)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	factoryCalls := 0
	s := NewSyncer(func() (Renderer, error) {
		factoryCalls++
		return newFakeRenderer(), nil
	}, newScriptedSource(), Config{})

	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	if factoryCalls != 1 {
		t.Errorf("factory calls = %d, want 1 (second Initialize is a no-op)", factoryCalls)
	}
}

func TestInitializeFailure(t *testing.T) {
	boom := errors.New("webgl context unavailable")
	s := NewSyncer(func() (Renderer, error) { return nil, boom },
		newScriptedSource(), Config{})

	err := s.Initialize()
	if !errors.Is(err, ErrRenderInit) {
		t.Fatalf("error = %v, want ErrRenderInit", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the engine failure, got %v", err)
	}
	if s.State() != StateUninitialized {
		t.Errorf("state = %s, want uninitialized", s.State())
	}
	if err := s.Refresh(t.Context(), nil, ""); !errors.Is(err, ErrNotReady) {
		t.Errorf("Refresh = %v, want ErrNotReady", err)
	}
}

func TestSelectionObserver(t *testing.T) {
	source := newScriptedSource("A")
	s, renderer := newTestSyncer(t, source, Config{})

	var got []models.SatelliteRecord
	s.OnSelectionChanged(func(rec models.SatelliteRecord) {
		got = append(got, rec)
	})

	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, ""); err != nil {
		t.Fatal(err)
	}

	renderer.selectHandle("sat:A")
	if len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("observer got %+v, want one event for A", got)
	}
	if s.Selected() != "A" {
		t.Errorf("selected = %q, want A", s.Selected())
	}

	// Entities without a satellite back-reference never notify.
	renderer.selectHandle("overlay:industrial-zone-7")
	if len(got) != 1 {
		t.Errorf("observer got %d events, want 1 (overlay click ignored)", len(got))
	}
}

func TestSelectionObserverReplacement(t *testing.T) {
	source := newScriptedSource("A")
	s, renderer := newTestSyncer(t, source, Config{})
	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, ""); err != nil {
		t.Fatal(err)
	}

	firstCalls, secondCalls := 0, 0
	s.OnSelectionChanged(func(models.SatelliteRecord) { firstCalls++ })
	s.OnSelectionChanged(func(models.SatelliteRecord) { secondCalls++ })

	renderer.selectHandle("sat:A")
	if firstCalls != 0 {
		t.Errorf("replaced observer called %d times, want 0", firstCalls)
	}
	if secondCalls != 1 {
		t.Errorf("active observer called %d times, want 1", secondCalls)
	}
}

func TestRefreshSelected(t *testing.T) {
	source := newScriptedSource("A", "B")
	s, renderer := newTestSyncer(t, source, Config{})
	list := []models.SatelliteRecord{record("A"), record("B")}
	if err := s.Refresh(t.Context(), list, "A"); err != nil {
		t.Fatal(err)
	}

	source.mu.Lock()
	source.fixes["A"] = models.PositionFix{Latitude: 55, Longitude: 55, Altitude: 420, Velocity: 7.7}
	source.mu.Unlock()

	if err := s.RefreshSelected(t.Context()); err != nil {
		t.Fatal(err)
	}

	a, _ := renderer.entity("sat:A")
	if a.Position.Latitude != 55 {
		t.Errorf("selected entity latitude = %g, want refreshed 55", a.Position.Latitude)
	}
	if !a.Selected {
		t.Error("selected entity lost its highlight")
	}
}

func TestRefreshSelectedWithoutSelection(t *testing.T) {
	source := newScriptedSource("A")
	s, _ := newTestSyncer(t, source, Config{})
	if err := s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, ""); err != nil {
		t.Fatal(err)
	}
	if err := s.RefreshSelected(t.Context()); err != nil {
		t.Errorf("RefreshSelected with no selection = %v, want nil", err)
	}
}

func TestNoRendererMutationAfterTeardown(t *testing.T) {
	source := newScriptedSource("A")
	gate := source.gate("A")
	s, renderer := newTestSyncer(t, source, Config{})

	done := make(chan error, 1)
	go func() {
		done <- s.Refresh(t.Context(), []models.SatelliteRecord{record("A")}, "")
	}()

	time.Sleep(20 * time.Millisecond)
	if err := s.Teardown(); err != nil {
		t.Fatal(err)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("in-flight refresh errored after teardown: %v", err)
	}

	renderer.mu.Lock()
	used := renderer.usedAfterC
	renderer.mu.Unlock()
	if used {
		t.Error("renderer was mutated after Close")
	}
}
