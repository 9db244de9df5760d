// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package alerts produces the monitoring alert feed. The monitor
// polls a live upstream when one is configured and falls back to
// generated alerts otherwise; everything it sees lands in a ring
// buffer that the dashboard reads counts from.
package alerts

import (
	"sync"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// Store is a fixed-size ring buffer of observed alerts. Oldest
// entries are overwritten once the buffer wraps.
type Store struct {
	mu   sync.RWMutex
	buf  []models.Alert
	next int
	used int
}

// NewStore creates a store holding at most size alerts.
func NewStore(size int) *Store {
	if size < 1 {
		size = 1
	}
	return &Store{buf: make([]models.Alert, size)}
}

// Add records one alert, evicting the oldest when full.
func (s *Store) Add(alert models.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf[s.next] = alert
	s.next = (s.next + 1) % len(s.buf)
	if s.used < len(s.buf) {
		s.used++
	}
}

// Len reports the number of stored alerts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// Recent returns up to n alerts, newest first.
func (s *Store) Recent(n int) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > s.used {
		n = s.used
	}
	out := make([]models.Alert, 0, n)
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		out = append(out, s.buf[idx])
	}
	return out
}

// CountSince counts stored alerts with a timestamp at or after cutoff.
func (s *Store) CountSince(cutoff time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := 1; i <= s.used; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		if !s.buf[idx].Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}

// CountByTypeSince counts stored alerts of one type since cutoff.
func (s *Store) CountByTypeSince(alertType string, cutoff time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for i := 1; i <= s.used; i++ {
		idx := (s.next - i + len(s.buf)) % len(s.buf)
		a := s.buf[idx]
		if a.Type == alertType && !a.Timestamp.Before(cutoff) {
			count++
		}
	}
	return count
}
