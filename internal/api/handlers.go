// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/analytics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
	"github.com/catchmeifyoucaan/projectORBITA/internal/orbit"
	"github.com/catchmeifyoucaan/projectORBITA/internal/upstream"
	"github.com/catchmeifyoucaan/projectORBITA/internal/viewsync"
	ws "github.com/catchmeifyoucaan/projectORBITA/internal/websocket"
)

const maxRequestBody = 1 << 20

// AlertProvider exposes the current alert feed to the API.
type AlertProvider interface {
	Active() []models.Alert
}

// Handler carries the dependencies behind the REST surface.
type Handler struct {
	catalog   *orbit.Catalog
	source    viewsync.PositionSource
	passesCfg config.PassesConfig
	earthCfg  config.EarthObsConfig
	maxList   int

	alerts    AlertProvider
	dashboard *analytics.Dashboard
	earthObs  *analytics.EarthObs
	hub       *ws.Hub

	validate *validator.Validate
}

// NewHandler wires the REST handlers.
func NewHandler(
	catalog *orbit.Catalog,
	source viewsync.PositionSource,
	passesCfg config.PassesConfig,
	earthCfg config.EarthObsConfig,
	maxList int,
	alerts AlertProvider,
	dashboard *analytics.Dashboard,
	earthObs *analytics.EarthObs,
	hub *ws.Hub,
) *Handler {
	return &Handler{
		catalog:   catalog,
		source:    source,
		passesCfg: passesCfg,
		earthCfg:  earthCfg,
		maxList:   maxList,
		alerts:    alerts,
		dashboard: dashboard,
		earthObs:  earthObs,
		hub:       hub,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// SatelliteList is the roster payload. Message carries the
// "data not loaded" note while the catalog is still empty.
type SatelliteList struct {
	Satellites []models.SatelliteRecord `json:"satellites"`
	Total      int                      `json:"total"`
	Message    string                   `json:"message,omitempty"`
}

// PassList is the visibility-window payload.
type PassList struct {
	Satellite string              `json:"satellite"`
	Passes    []models.PassWindow `json:"passes"`
}

// AlertList is the alert feed payload.
type AlertList struct {
	Alerts []models.Alert `json:"alerts"`
}

// ListSatellites serves the tracked roster, capped for dashboard
// rendering performance. An empty catalog is not an error here: the
// dashboard still renders, so the response is an empty list with a
// note rather than a 503.
func (h *Handler) ListSatellites(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.catalog.Len() == 0 {
		rw.SuccessWithCount(SatelliteList{
			Satellites: []models.SatelliteRecord{},
			Message:    "Satellite data not loaded",
		}, 0)
		return
	}

	sats := h.catalog.List(h.maxList)
	rw.SuccessWithCount(SatelliteList{Satellites: sats, Total: len(sats)}, len(sats))
}

// SatellitePosition serves the current fix for one satellite.
func (h *Handler) SatellitePosition(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.catalog.Len() == 0 {
		rw.ServiceUnavailable("Satellite data not available")
		return
	}

	id := chi.URLParam(r, "id")
	fix, err := h.source.CurrentPosition(r.Context(), id)
	if err != nil {
		if errors.Is(err, orbit.ErrNotFound) || errors.Is(err, upstream.ErrNotFound) {
			rw.NotFound("Satellite not found")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("satellite_id", id).Msg("position lookup failed")
		rw.InternalError("Error calculating position")
		return
	}

	name := ""
	if rec, err := h.catalog.ByID(id); err == nil {
		name = rec.Name
	}
	rw.Success(models.SatellitePosition{ID: id, Name: name, PositionFix: fix})
}

// SatellitePasses computes visibility windows for an observer.
func (h *Handler) SatellitePasses(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.catalog.Len() == 0 {
		rw.ServiceUnavailable("Satellite data not available")
		return
	}

	var req models.PassRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		rw.BadRequest("Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		rw.ValidationError("Invalid pass request", validationDetails(err))
		return
	}

	el, err := h.catalog.ByName(req.SatelliteName)
	if err != nil {
		rw.NotFound("Satellite not found")
		return
	}

	days := req.Days
	if days > h.passesCfg.MaxDays {
		days = h.passesCfg.MaxDays
	}
	passes, err := orbit.PredictPasses(el, req.Latitude, req.Longitude, orbit.PassOptions{
		ElevationCutoff: h.passesCfg.ElevationCutoff,
		SampleStep:      h.passesCfg.SampleStep,
		Days:            days,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("satellite", req.SatelliteName).Msg("pass prediction failed")
		rw.InternalError("Error calculating passes")
		return
	}
	rw.SuccessWithCount(PassList{Satellite: el.Name, Passes: passes}, len(passes))
}

// Alerts serves the active alert feed. Mounted on both the
// monitoring and industrial routes.
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	active := h.alerts.Active()
	rw.SuccessWithCount(AlertList{Alerts: active}, len(active))
}

// Dashboard serves the analytics summary counters.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.dashboard.Summary())
}

// validationDetails flattens validator errors into field/rule pairs.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	details := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return details
}

// healthTimestamp exists so tests can pin the clock.
var healthTimestamp = time.Now

// Health reports overall status and which upstream APIs have
// credentials configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(models.HealthStatus{
		Status:           "healthy",
		Timestamp:        healthTimestamp().UTC(),
		SatellitesLoaded: h.catalog.Len(),
		APIsConfigured: map[string]bool{
			"google_earth_engine": h.earthCfg.EarthEngineKey != "",
			"sentinel_hub":        h.earthCfg.SentinelAPIKey != "",
			"gemini_ai":           h.earthCfg.GeminiAPIKey != "",
			"nasa_earthdata":      h.earthCfg.NASAEarthdataUser != "",
		},
	})
}

// HealthLive is the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: ready once the catalog holds a
// snapshot.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.catalog.Len() == 0 {
		rw.ServiceUnavailable("Satellite data not loaded")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
