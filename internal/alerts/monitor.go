// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package alerts

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// Publisher pushes novel alerts onto the event bus.
type Publisher interface {
	PublishAlert(alert models.Alert) error
}

// Monitor polls the alert source on an interval. With a live URL
// configured it fetches from there and, depending on fallback_to_mock,
// either serves generated alerts on failure or serves none. Without a
// live URL the generated feed is the source.
type Monitor struct {
	cfg   config.AlertsConfig
	live  *LiveClient
	mock  *MockGenerator
	store *Store
	pub   Publisher
	log   zerolog.Logger

	mu      sync.RWMutex
	current []models.Alert
	seen    map[string]struct{}
	// seenOrder tracks insertion order so the dedupe set stays bounded
	// on a long-running server; oldest fingerprints are evicted first.
	seenOrder []string
	seenLimit int
}

// NewMonitor wires the monitor. pub may be nil when no bus is running.
func NewMonitor(cfg config.AlertsConfig, store *Store, pub Publisher) *Monitor {
	limit := cfg.BufferSize * 4
	if limit < 16 {
		limit = 16
	}
	m := &Monitor{
		cfg:       cfg,
		mock:      NewMockGenerator(),
		store:     store,
		pub:       pub,
		log:       logging.WithComponent("alert-monitor"),
		seen:      make(map[string]struct{}),
		seenLimit: limit,
	}
	if cfg.LiveURL != "" {
		m.live = NewLiveClient(cfg.LiveURL, &http.Client{Timeout: cfg.FetchTimeout})
	}
	return m
}

// Serve polls until the context is canceled.
func (m *Monitor) Serve(ctx context.Context) error {
	m.poll(ctx)

	ticker := time.NewTicker(m.cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// String identifies the service in supervisor logs.
func (m *Monitor) String() string {
	return "alert-monitor"
}

// Active returns the most recent alert set, newest poll wins.
func (m *Monitor) Active() []models.Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Alert, len(m.current))
	copy(out, m.current)
	return out
}

func (m *Monitor) poll(ctx context.Context) {
	alerts, origin := m.fetch(ctx)
	if alerts == nil {
		return
	}
	metrics.AlertsServedTotal.WithLabelValues(origin).Add(float64(len(alerts)))

	m.mu.Lock()
	m.current = alerts
	novel := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		key := fingerprint(a)
		if _, ok := m.seen[key]; ok {
			continue
		}
		m.markSeen(key)
		novel = append(novel, a)
	}
	m.mu.Unlock()

	for _, a := range novel {
		m.store.Add(a)
		if m.pub != nil {
			if err := m.pub.PublishAlert(a); err != nil {
				m.log.Warn().Err(err).Str("alert_id", a.ID).Msg("failed to publish alert")
			}
		}
	}
	if len(novel) > 0 {
		m.log.Info().Int("count", len(novel)).Str("origin", origin).Msg("new alerts detected")
	}
}

// markSeen records a fingerprint, evicting the oldest entries once
// the set outgrows its limit. Caller holds mu.
func (m *Monitor) markSeen(key string) {
	m.seen[key] = struct{}{}
	m.seenOrder = append(m.seenOrder, key)
	for len(m.seenOrder) > m.seenLimit {
		delete(m.seen, m.seenOrder[0])
		m.seenOrder = m.seenOrder[1:]
	}
}

// fetch returns the current alert set and its origin label, or nil
// when the live feed failed and fallback is disabled.
func (m *Monitor) fetch(ctx context.Context) ([]models.Alert, string) {
	if m.live == nil {
		return m.mock.Generate(), "mock"
	}

	alerts, err := m.live.Fetch(ctx)
	if err == nil {
		return alerts, "live"
	}

	if m.cfg.FallbackToMock {
		m.log.Warn().Err(err).Msg("live alert feed unavailable, serving generated alerts")
		return m.mock.Generate(), "mock"
	}
	m.log.Error().Err(err).Msg("live alert feed unavailable")
	return nil, ""
}

// fingerprint identifies an alert by content so re-polled alerts with
// fresh IDs are not re-published.
func fingerprint(a models.Alert) string {
	return a.Type + "|" + a.Location + "|" + a.Severity + "|" + a.Message
}
