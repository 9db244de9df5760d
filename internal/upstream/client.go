// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package upstream resolves satellite positions from a remote ORBITA
// backend instead of local propagation. Used when this process runs
// as a dashboard edge in front of a central tracking deployment.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

const maxPositionBody = 64 * 1024

// ErrNotFound means the remote backend does not track the satellite.
var ErrNotFound = errors.New("satellite not found upstream")

// PositionClient fetches current fixes from a remote backend's
// position endpoint. It satisfies the view-sync position source
// contract. A circuit breaker stops a down backend from stalling
// every refresh pass.
type PositionClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[models.PositionFix]
}

// NewPositionClient builds a client for the configured backend.
// Breaker policy matches the catalog fetcher: open at a 60% failure
// rate over at least 5 requests, retry half-open after 30 seconds.
// The shorter timeout suits a per-refresh dependency.
func NewPositionClient(cfg config.UpstreamConfig) *PositionClient {
	const breakerName = "upstream-positions"
	metrics.SetBreakerState(breakerName, 0)

	breaker := gobreaker.NewCircuitBreaker[models.PositionFix](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("upstream breaker state change")
			metrics.SetBreakerState(name, breakerStateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// A 404 is a healthy backend answering; only transport
			// and 5xx failures should trip the breaker.
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &PositionClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
	}
}

// positionEnvelope mirrors the remote backend's response wrapper.
type positionEnvelope struct {
	Success bool                     `json:"success"`
	Data    models.SatellitePosition `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CurrentPosition fetches the satellite's current fix from the
// remote backend.
func (c *PositionClient) CurrentPosition(ctx context.Context, id string) (models.PositionFix, error) {
	start := time.Now()
	fix, err := c.breaker.Execute(func() (models.PositionFix, error) {
		return c.fetch(ctx, id)
	})
	metrics.RecordPositionFetch("upstream", time.Since(start), err)
	return fix, err
}

func (c *PositionClient) fetch(ctx context.Context, id string) (models.PositionFix, error) {
	url := fmt.Sprintf("%s/api/satellites/%s/position", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.PositionFix{}, fmt.Errorf("build position request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.PositionFix{}, fmt.Errorf("fetch position: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPositionBody))
	if err != nil {
		return models.PositionFix{}, fmt.Errorf("read position body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.PositionFix{}, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return models.PositionFix{}, fmt.Errorf("position fetch returned %d", resp.StatusCode)
	}

	var env positionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.PositionFix{}, fmt.Errorf("decode position body: %w", err)
	}
	if !env.Success {
		msg := "unknown error"
		if env.Error != nil {
			msg = env.Error.Message
		}
		return models.PositionFix{}, fmt.Errorf("position fetch failed upstream: %s", msg)
	}
	return env.Data.PositionFix, nil
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
