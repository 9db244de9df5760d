// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package orbit

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open in-memory badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	elements := loadTestElements(t)
	fetchedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := store.Save(elements, fetchedAt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, gotAt, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(elements) {
		t.Fatalf("loaded %d elements, want %d", len(got), len(elements))
	}
	for i := range elements {
		if got[i] != elements[i] {
			t.Errorf("element %d = %+v, want %+v", i, got[i], elements[i])
		}
	}
	if !gotAt.Equal(fetchedAt) {
		t.Errorf("fetchedAt = %s, want %s", gotAt, fetchedAt)
	}
}

func TestStoreLoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Load()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Load on empty store = %v, want ErrNoSnapshot", err)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	elements := loadTestElements(t)

	if err := store.Save(elements, time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(elements[:1], time.Now()); err != nil {
		t.Fatal(err)
	}

	got, _, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("loaded %d elements after overwrite, want 1", len(got))
	}
}
