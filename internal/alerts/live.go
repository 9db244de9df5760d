// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package alerts

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

const maxAlertBody = 1 << 20

// LiveClient fetches alerts from an external monitoring feed that
// serves the same {"alerts": [...]} shape as our own endpoint.
type LiveClient struct {
	url    string
	client *http.Client
}

// NewLiveClient creates a client for the given feed URL.
func NewLiveClient(url string, client *http.Client) *LiveClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &LiveClient{url: url, client: client}
}

type alertEnvelope struct {
	Alerts []models.Alert `json:"alerts"`
}

// Fetch retrieves the current alert set from the feed.
func (c *LiveClient) Fetch(ctx context.Context) ([]models.Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch alerts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alert feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAlertBody))
	if err != nil {
		return nil, fmt.Errorf("read alert body: %w", err)
	}

	var env alertEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode alert body: %w", err)
	}
	return env.Alerts, nil
}
