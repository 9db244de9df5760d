// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package analytics

import (
	"errors"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// ErrSentinelNotConfigured means imagery cannot be served without a
// Sentinel Hub API key.
var ErrSentinelNotConfigured = errors.New("sentinel hub api key not configured")

// EarthObs serves vegetation analysis and imagery lookups. Results
// are representative until the Sentinel Hub processing integration
// replaces them; the response shapes are final.
type EarthObs struct {
	cfg config.EarthObsConfig
	now func() time.Time
}

// NewEarthObs wires the earth observation service.
func NewEarthObs(cfg config.EarthObsConfig) *EarthObs {
	return &EarthObs{cfg: cfg, now: time.Now}
}

// NDVI computes the vegetation index summary for a location and date
// range.
func (e *EarthObs) NDVI(req models.NDVIRequest) models.NDVIAnalysis {
	return models.NDVIAnalysis{
		Location:   req.Location,
		DateRange:  req.DateRange,
		NDVIValues: []float64{0.7, 0.8, 0.6, 0.9, 0.75},
		Analysis:   "Vegetation health is good with slight variations in the southern region",
		Recommendations: []string{
			"Monitor southern region for potential stress",
			"Irrigation may be needed in areas with NDVI < 0.65",
		},
	}
}

// Imagery returns imagery for a location. date may be zero, in which
// case the current time is used; imageType defaults to "natural".
func (e *EarthObs) Imagery(location string, date time.Time, imageType string) (models.ImageryResult, error) {
	if e.cfg.SentinelAPIKey == "" {
		return models.ImageryResult{}, ErrSentinelNotConfigured
	}
	if date.IsZero() {
		date = e.now().UTC()
	}
	if imageType == "" {
		imageType = "natural"
	}
	return models.ImageryResult{
		Location:  location,
		Date:      date,
		ImageType: imageType,
		ImageURL:  "https://services.sentinel-hub.com/ogc/wms/" + e.cfg.SentinelAPIKey,
		Metadata: models.ImageryMetadata{
			Resolution:    "10m",
			CloudCoverage: "5%",
			Satellite:     "Sentinel-2",
		},
	}, nil
}
