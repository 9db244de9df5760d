// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package viewsync keeps a globe renderer's entity set consistent
// with the latest known satellite positions and translates renderer
// selection events back into application-level satellite records.
//
// The Syncer is the owner of all render entities it creates: exactly
// one entity exists per tracked satellite after a completed pass, and
// no entity survives Teardown. Passes may overlap in time; a
// generation counter discards late position results once a newer pass
// has taken over.
package viewsync

import (
	"context"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// Entity is the renderer-facing view of one satellite: a point plus
// label anchored at geodetic coordinates. Handle is owned by the
// Syncer; SatelliteID is the back-reference used to resolve selection
// events.
type Entity struct {
	Handle      string             `json:"handle"`
	SatelliteID string             `json:"satellite_id"`
	Name        string             `json:"name"`
	Position    models.PositionFix `json:"position"`

	// Selected entities render highlighted with a visible label.
	Selected bool `json:"selected"`
}

// Renderer is the globe engine contract: an entity registry keyed by
// opaque handles plus a single selection event stream. Implementations
// must tolerate RemoveEntity for unknown handles.
type Renderer interface {
	// UpsertEntity creates the entity or updates it in place.
	UpsertEntity(e Entity) error

	// RemoveEntity destroys the entity. Unknown handles are a no-op.
	RemoveEntity(handle string) error

	// Clear destroys every entity in the registry.
	Clear() error

	// OnEntitySelected registers the selection callback. The renderer
	// reports the handle of whatever was clicked, which may not be a
	// satellite entity at all.
	OnEntitySelected(fn func(handle string))

	// Close releases the renderer. The Syncer never touches a
	// renderer after closing it.
	Close() error
}

// RendererFactory acquires a renderer bound to a display surface.
// Called by Initialize; a failure is reported as ErrRenderInit.
type RendererFactory func() (Renderer, error)

// PositionSource resolves the current position of one satellite.
// Implementations: orbit.LocalSource (SGP4 over the catalog) and
// upstream.PositionClient (remote HTTP service).
type PositionSource interface {
	CurrentPosition(ctx context.Context, id string) (models.PositionFix, error)
}
