// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package models

import "time"

// Alert severities, lowest to highest.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Alert categories produced by the monitoring pipeline.
const (
	AlertTypeDeforestation = "deforestation"
	AlertTypeAgriculture   = "agriculture"
	AlertTypeSecurity      = "security"
	AlertTypeIndustrial    = "industrial"
)

// Alert is one monitoring event surfaced on the dashboard feed.
type Alert struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Location  string    `json:"location"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
