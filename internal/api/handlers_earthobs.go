// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/analytics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// NDVI runs vegetation analysis for a location and date range.
func (h *Handler) NDVI(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req models.NDVIRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		rw.ValidationError("Invalid NDVI request", validationDetails(err))
		return
	}

	rw.Success(h.earthObs.NDVI(req))
}

// Imagery serves imagery metadata for a location. Query params:
// location (required), date (RFC 3339 or YYYY-MM-DD), image_type.
func (h *Handler) Imagery(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	location := r.URL.Query().Get("location")
	if location == "" {
		rw.BadRequest("location query parameter is required")
		return
	}

	var date time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseImageryDate(raw)
		if err != nil {
			rw.BadRequest("date must be RFC 3339 or YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.earthObs.Imagery(location, date, r.URL.Query().Get("image_type"))
	if err != nil {
		if errors.Is(err, analytics.ErrSentinelNotConfigured) {
			rw.ServiceUnavailable("Sentinel Hub API key not configured")
			return
		}
		rw.InternalError("Error fetching imagery")
		return
	}
	rw.Success(result)
}

func parseImageryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
