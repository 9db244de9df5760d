// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/catchmeifyoucaan/projectORBITA/internal/config"
	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
)

// maxTLEBody bounds the element-set download. Celestrak group files
// are a few hundred KB at most.
const maxTLEBody = 8 << 20

// Fetcher downloads and parses element sets from the configured
// upstream. A circuit breaker guards against a flapping Celestrak,
// and a rate limiter keeps refresh retries polite.
type Fetcher struct {
	url     string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]Element]
	limiter *rate.Limiter
}

// NewFetcher builds a fetcher for the catalog source URL.
// Breaker policy: open at a 60% failure rate over at least 5 requests,
// retry half-open after 5 minutes.
func NewFetcher(cfg config.CatalogConfig) *Fetcher {
	const breakerName = "celestrak"
	metrics.SetBreakerState(breakerName, 0)

	breaker := gobreaker.NewCircuitBreaker[[]Element](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    10 * time.Minute,
		Timeout:     5 * time.Minute,
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
				Msg("catalog breaker state change")
			metrics.SetBreakerState(name, breakerStateValue(to))
		},
	})

	return &Fetcher{
		url:     cfg.SourceURL,
		client:  &http.Client{Timeout: cfg.FetchTimeout},
		breaker: breaker,
		// One fetch per 30s sustained, small burst for startup retries.
		limiter: rate.NewLimiter(rate.Every(30*time.Second), 2),
	}
}

// Fetch downloads and parses the current element set.
func (f *Fetcher) Fetch(ctx context.Context) ([]Element, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog fetch rate limit: %w", err)
	}

	return f.breaker.Execute(func() ([]Element, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
		if err != nil {
			return nil, fmt.Errorf("build catalog request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch element set: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("element set fetch returned %d", resp.StatusCode)
		}

		elements, err := ParseTLESet(io.LimitReader(resp.Body, maxTLEBody))
		if err != nil {
			return nil, err
		}
		return elements, nil
	})
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
