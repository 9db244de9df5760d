// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package upstream

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

func newTestClient(baseURL string) *PositionClient {
	return NewPositionClient(config.UpstreamConfig{
		BaseURL: baseURL,
		Timeout: time.Second,
	})
}

func TestPositionClient_CurrentPosition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/satellites/25544/position" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"id": "25544",
				"name": "ISS (ZARYA)",
				"latitude": 51.2,
				"longitude": -42.7,
				"altitude": 417.3,
				"velocity": 7.66,
				"timestamp": "2026-08-26T10:00:00Z"
			}
		}`))
	}))
	defer srv.Close()

	fix, err := newTestClient(srv.URL).CurrentPosition(t.Context(), "25544")
	if err != nil {
		t.Fatalf("CurrentPosition failed: %v", err)
	}
	if fix.Latitude != 51.2 || fix.Longitude != -42.7 {
		t.Errorf("unexpected fix: %+v", fix)
	}
	if fix.Altitude != 417.3 || fix.Velocity != 7.66 {
		t.Errorf("unexpected fix: %+v", fix)
	}
}

func TestPositionClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "NOT_FOUND", "message": "satellite not found"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CurrentPosition(t.Context(), "99999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPositionClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CurrentPosition(t.Context(), "25544")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestPositionClient_EnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "SERVICE_UNAVAILABLE", "message": "catalog not loaded"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CurrentPosition(t.Context(), "25544")
	if err == nil || !strings.Contains(err.Error(), "catalog not loaded") {
		t.Fatalf("expected envelope error surfaced, got %v", err)
	}
}

func TestPositionClient_BreakerOpensOnRepeatedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var err error
	for i := 0; i < 10; i++ {
		_, err = client.CurrentPosition(t.Context(), "25544")
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected breaker open after repeated failures, got %v", err)
	}
}

func TestPositionClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	var err error
	for i := 0; i < 10; i++ {
		_, err = client.CurrentPosition(t.Context(), "99999")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on every call, got %v", err)
	}
}
