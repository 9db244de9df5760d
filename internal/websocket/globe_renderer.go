// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package websocket

import (
	"errors"
	"sync"

	"github.com/catchmeifyoucaan/projectORBITA/internal/viewsync"
)

// ErrRendererClosed reports a mutation on a closed renderer.
var ErrRendererClosed = errors.New("globe renderer closed")

// GlobeRenderer implements viewsync.Renderer over the hub: entity
// mutations become broadcast messages that the browser globe mirrors,
// and client entity clicks come back through the hub's select handler.
// One renderer is live at a time; Close detaches it from the hub
// without stopping the hub itself.
type GlobeRenderer struct {
	hub *Hub

	mu     sync.Mutex
	closed bool
}

// NewGlobeRenderer attaches a renderer to the hub.
func NewGlobeRenderer(hub *Hub) *GlobeRenderer {
	return &GlobeRenderer{hub: hub}
}

// Factory returns a viewsync.RendererFactory producing renderers
// bound to this hub.
func Factory(hub *Hub) viewsync.RendererFactory {
	return func() (viewsync.Renderer, error) {
		if hub == nil {
			return nil, errors.New("websocket hub not running")
		}
		return NewGlobeRenderer(hub), nil
	}
}

// UpsertEntity broadcasts the entity's current state.
func (r *GlobeRenderer) UpsertEntity(e viewsync.Entity) error {
	if err := r.check(); err != nil {
		return err
	}
	r.hub.BroadcastJSON(MessageTypeEntityUpsert, e)
	return nil
}

// RemoveEntity broadcasts an entity removal. Unknown handles are fine;
// clients drop removals for entities they no longer show.
func (r *GlobeRenderer) RemoveEntity(handle string) error {
	if err := r.check(); err != nil {
		return err
	}
	r.hub.BroadcastJSON(MessageTypeEntityRemove, SelectData{Handle: handle})
	return nil
}

// Clear broadcasts a full reset of the client entity registry.
func (r *GlobeRenderer) Clear() error {
	if err := r.check(); err != nil {
		return err
	}
	r.hub.BroadcastJSON(MessageTypeEntitiesClear, nil)
	return nil
}

// OnEntitySelected wires client clicks through to the view sync.
func (r *GlobeRenderer) OnEntitySelected(fn func(handle string)) {
	r.hub.OnSelect(fn)
}

// Close detaches the renderer. Later mutations fail with
// ErrRendererClosed; the hub keeps serving other message types.
func (r *GlobeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.hub.OnSelect(nil)
	r.hub.BroadcastJSON(MessageTypeEntitiesClear, nil)
	return nil
}

func (r *GlobeRenderer) check() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRendererClosed
	}
	return nil
}
