// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout for the catalog cache.
const (
	catalogKeySnapshot  = "catalog:snapshot"
	catalogKeyFetchedAt = "catalog:fetched_at"
)

// ErrNoSnapshot is returned when the cache holds no element set yet.
var ErrNoSnapshot = errors.New("no cached catalog snapshot")

// Store persists the last good element set so the server can come up
// while Celestrak is unreachable.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) the badger cache at path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog cache: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open badger DB. Used by tests.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Save replaces the cached snapshot.
func (s *Store) Save(elements []Element, fetchedAt time.Time) error {
	data, err := json.Marshal(elements)
	if err != nil {
		return fmt.Errorf("marshal catalog snapshot: %w", err)
	}
	ts, err := fetchedAt.UTC().MarshalText()
	if err != nil {
		return fmt.Errorf("marshal snapshot timestamp: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(catalogKeySnapshot), data); err != nil {
			return fmt.Errorf("set snapshot: %w", err)
		}
		if err := txn.Set([]byte(catalogKeyFetchedAt), ts); err != nil {
			return fmt.Errorf("set snapshot timestamp: %w", err)
		}
		return nil
	})
}

// Load returns the cached snapshot and when it was fetched.
func (s *Store) Load() ([]Element, time.Time, error) {
	var (
		elements  []Element
		fetchedAt time.Time
	)

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(catalogKeySnapshot))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &elements)
		}); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}

		item, err = txn.Get([]byte(catalogKeyFetchedAt))
		if err == nil {
			return item.Value(func(val []byte) error {
				return fetchedAt.UnmarshalText(val)
			})
		}
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // old cache without timestamp
		}
		return fmt.Errorf("get snapshot timestamp: %w", err)
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return elements, fetchedAt, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
