// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"context"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// LocalSource resolves current positions by propagating the catalog's
// own element sets. It satisfies the view-sync position source
// contract without any network dependency.
type LocalSource struct {
	catalog *Catalog
}

// NewLocalSource builds a position source over the catalog.
func NewLocalSource(catalog *Catalog) *LocalSource {
	return &LocalSource{catalog: catalog}
}

// CurrentPosition returns the satellite's fix at the current instant.
func (s *LocalSource) CurrentPosition(ctx context.Context, id string) (models.PositionFix, error) {
	start := time.Now()

	el, err := s.catalog.ByID(id)
	if err != nil {
		metrics.RecordPositionFetch("local", time.Since(start), err)
		return models.PositionFix{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.PositionFix{}, err
	}

	fix, err := PositionAt(el, time.Now())
	metrics.RecordPositionFetch("local", time.Since(start), err)
	return fix, err
}
