// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package models defines the shared data types exchanged between the
// catalog, tracking, and API layers.
package models

import "time"

// SatelliteRecord identifies one tracked satellite. Records are
// immutable for the lifetime of a catalog snapshot; identity key is ID.
type SatelliteRecord struct {
	ID             string `json:"id"` // stable NORAD catalog number as string
	Name           string `json:"name"`
	CatalogNumber  int    `json:"catalog_number"`
	Type           string `json:"type,omitempty"`           // e.g. "station", "payload"
	Classification string `json:"classification,omitempty"` // TLE classification flag (U/C/S)
}

// PositionFix is a timestamped geodetic fix for one satellite.
// Fixes are ephemeral; only the latest matters.
type PositionFix struct {
	Latitude  float64   `json:"latitude"`  // degrees, WGS84
	Longitude float64   `json:"longitude"` // degrees, WGS84
	Altitude  float64   `json:"altitude"`  // km above ellipsoid
	Velocity  float64   `json:"velocity"`  // km/s, magnitude
	Timestamp time.Time `json:"timestamp"`
}

// SatellitePosition is the position endpoint payload: a PositionFix
// plus the identity of the satellite it belongs to.
type SatellitePosition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	PositionFix
}

// PassRequest asks for visibility windows of a named satellite from an
// observer location.
type PassRequest struct {
	SatelliteName string  `json:"satellite_name" validate:"required"`
	Latitude      float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Days          int     `json:"days" validate:"omitempty,gte=1,lte=14"`
}

// PassWindow is one sampled point where the satellite is above the
// observer's horizon.
type PassWindow struct {
	Time     time.Time `json:"time"`
	Altitude float64   `json:"altitude"` // elevation above horizon, degrees
	Azimuth  float64   `json:"azimuth"`  // degrees from north
	Distance float64   `json:"distance"` // slant range, km
}
