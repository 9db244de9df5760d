// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// ErrNotFound is returned when a satellite id or name is not in the
// current catalog snapshot.
var ErrNotFound = errors.New("satellite not found in catalog")

// Catalog holds the current element-set snapshot. Snapshots are
// replaced wholesale on refresh; readers always see a consistent set.
type Catalog struct {
	mu        sync.RWMutex
	elements  []Element
	byID      map[string]Element
	updatedAt time.Time
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]Element)}
}

// Replace swaps in a new snapshot. Later duplicates of a catalog
// number win, matching upstream file order.
func (c *Catalog) Replace(elements []Element) {
	byID := make(map[string]Element, len(elements))
	for _, el := range elements {
		byID[el.ID()] = el
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements = elements
	c.byID = byID
	c.updatedAt = time.Now().UTC()
}

// Len reports the snapshot size.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.elements)
}

// UpdatedAt reports when the snapshot was last replaced.
func (c *Catalog) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// List returns up to max satellite records in file order.
func (c *Catalog) List(max int) []models.SatelliteRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.elements)
	if max > 0 && max < n {
		n = max
	}
	records := make([]models.SatelliteRecord, 0, n)
	for _, el := range c.elements[:n] {
		records = append(records, models.SatelliteRecord{
			ID:             el.ID(),
			Name:           el.Name,
			CatalogNumber:  el.CatalogNumber,
			Type:           "station",
			Classification: el.Classification,
		})
	}
	return records
}

// ByID looks up an element by its catalog-number id.
func (c *Catalog) ByID(id string) (Element, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.byID[id]
	if !ok {
		return Element{}, ErrNotFound
	}
	return el, nil
}

// ByName looks up an element by case-insensitive name match.
func (c *Catalog) ByName(name string) (Element, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, el := range c.elements {
		if strings.EqualFold(el.Name, name) {
			return el, nil
		}
	}
	return Element{}, ErrNotFound
}
