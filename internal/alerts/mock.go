// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// MockGenerator produces the built-in demo alert feed, used when no
// live alert source is configured or the live source is down.
type MockGenerator struct {
	now func() time.Time
}

// NewMockGenerator creates a generator using wall-clock time.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{now: time.Now}
}

// Generate returns the current demo alert set. IDs are fresh per call
// but the monitor deduplicates on content, so repeated polls do not
// re-publish the same alerts.
func (g *MockGenerator) Generate() []models.Alert {
	now := g.now().UTC()
	return []models.Alert{
		{
			ID:        uuid.New().String(),
			Type:      models.AlertTypeDeforestation,
			Location:  "Amazon Basin",
			Severity:  models.SeverityHigh,
			Message:   "Significant forest loss detected in protected area",
			Timestamp: now,
		},
		{
			ID:        uuid.New().String(),
			Type:      models.AlertTypeAgriculture,
			Location:  "Central Valley",
			Severity:  models.SeverityMedium,
			Message:   "Crop stress detected in sector 7",
			Timestamp: now.Add(-2 * time.Hour),
		},
	}
}
