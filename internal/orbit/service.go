// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"context"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
)

// RefreshService keeps the catalog populated: an initial load on
// startup (network first, local cache as fallback) and a periodic
// re-fetch afterwards. It implements suture.Service.
type RefreshService struct {
	catalog  *Catalog
	fetcher  *Fetcher
	store    *Store // nil when the cache is disabled
	interval time.Duration

	onRefreshed func(satellites int)
}

// NewRefreshService wires the refresher. store may be nil.
func NewRefreshService(catalog *Catalog, fetcher *Fetcher, store *Store, cfg config.CatalogConfig) *RefreshService {
	return &RefreshService{
		catalog:  catalog,
		fetcher:  fetcher,
		store:    store,
		interval: cfg.RefreshInterval,
	}
}

// SetOnRefreshed registers a callback invoked after every successful
// catalog load with the new satellite count. Must be set before Serve.
func (s *RefreshService) SetOnRefreshed(fn func(satellites int)) {
	s.onRefreshed = fn
}

// Serve implements suture.Service. A failed periodic refresh keeps
// the previous snapshot; only the initial load falls back to cache.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.catalog.Len() == 0 {
		s.initialLoad(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RefreshService) initialLoad(ctx context.Context) {
	if s.refresh(ctx) {
		return
	}
	if s.store == nil {
		return
	}

	elements, fetchedAt, err := s.store.Load()
	if err != nil {
		logging.Warn().Err(err).Msg("catalog cache unavailable, starting empty")
		return
	}
	s.catalog.Replace(elements)
	metrics.RecordCatalogRefresh("cache", 0, len(elements))
	logging.Info().
		Int("satellites", len(elements)).
		Time("fetched_at", fetchedAt).
		Msg("catalog restored from cache")
	if s.onRefreshed != nil {
		s.onRefreshed(len(elements))
	}
}

// refresh fetches a new element set and reports whether it succeeded.
func (s *RefreshService) refresh(ctx context.Context) bool {
	start := time.Now()

	elements, err := s.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RecordCatalogRefresh("failed", 0, 0)
		logging.Warn().Err(err).Msg("catalog refresh failed")
		return false
	}

	s.catalog.Replace(elements)
	metrics.RecordCatalogRefresh("fetched", time.Since(start), len(elements))
	logging.Info().
		Int("satellites", len(elements)).
		Dur("took", time.Since(start)).
		Msg("catalog refreshed")

	if s.store != nil {
		if err := s.store.Save(elements, time.Now()); err != nil {
			logging.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	if s.onRefreshed != nil {
		s.onRefreshed(len(elements))
	}
	return true
}

// String names the service in supervisor logs.
func (s *RefreshService) String() string {
	return "catalog-refresh"
}
