// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package events

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

func testAlert() models.Alert {
	return models.Alert{
		ID:        "ALT-001",
		Type:      models.AlertTypeDeforestation,
		Location:  "Amazon Basin, Brazil",
		Severity:  models.SeverityHigh,
		Message:   "Deforestation activity detected",
		Timestamp: time.Now().UTC(),
	}
}

func TestBus_AlertRoundTrip(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	msgs, err := bus.Subscribe(t.Context(), TopicAlerts)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	want := testAlert()
	if err := bus.PublishAlert(want); err != nil {
		t.Fatalf("PublishAlert failed: %v", err)
	}

	select {
	case msg := <-msgs:
		var got models.Alert
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal alert: %v", err)
		}
		msg.Ack()
		if got.ID != want.ID || got.Type != want.Type || got.Severity != want.Severity {
			t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received on alerts topic")
	}
}

func TestBus_CatalogRoundTrip(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	msgs, err := bus.Subscribe(t.Context(), TopicCatalog)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.PublishCatalogUpdated(50); err != nil {
		t.Fatalf("PublishCatalogUpdated failed: %v", err)
	}

	select {
	case msg := <-msgs:
		var got CatalogUpdated
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("unmarshal catalog update: %v", err)
		}
		msg.Ack()
		if got.Satellites != 50 {
			t.Errorf("expected 50 satellites, got %d", got.Satellites)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received on catalog topic")
	}
}

func TestBus_TopicsAreIsolated(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	catalogMsgs, err := bus.Subscribe(t.Context(), TopicCatalog)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := bus.PublishAlert(testAlert()); err != nil {
		t.Fatalf("PublishAlert failed: %v", err)
	}

	select {
	case <-catalogMsgs:
		t.Fatal("alert leaked onto the catalog topic")
	case <-time.After(100 * time.Millisecond):
	}
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	alerts   []models.Alert
	catalogs []int
}

func (f *fakeBroadcaster) BroadcastAlert(alert models.Alert) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
}

func (f *fakeBroadcaster) BroadcastCatalogUpdated(satellites int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogs = append(f.catalogs, satellites)
}

func (f *fakeBroadcaster) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func (f *fakeBroadcaster) catalogCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.catalogs)
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestForwarder_DeliversAlertsToBroadcaster(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	sink := &fakeBroadcaster{}
	fwd := NewForwarder(bus, sink, sink)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fwd.Serve(ctx)
	}()
	// Give the forwarder time to subscribe before publishing.
	time.Sleep(20 * time.Millisecond)

	if err := bus.PublishAlert(testAlert()); err != nil {
		t.Fatalf("PublishAlert failed: %v", err)
	}
	if err := bus.PublishCatalogUpdated(12); err != nil {
		t.Fatalf("PublishCatalogUpdated failed: %v", err)
	}

	waitFor(t, func() bool { return sink.alertCount() == 1 }, "alert broadcast")
	waitFor(t, func() bool { return sink.catalogCount() == 1 }, "catalog broadcast")

	sink.mu.Lock()
	if sink.alerts[0].ID != "ALT-001" {
		t.Errorf("unexpected alert id %q", sink.alerts[0].ID)
	}
	if sink.catalogs[0] != 12 {
		t.Errorf("unexpected satellite count %d", sink.catalogs[0])
	}
	sink.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarder did not stop after cancel")
	}
}

func TestForwarder_SkipsMalformedPayload(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	sink := &fakeBroadcaster{}
	fwd := NewForwarder(bus, sink, nil)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	go func() { _ = fwd.Serve(ctx) }()
	time.Sleep(20 * time.Millisecond)

	// Raw publish bypassing PublishAlert's marshaling.
	garbage := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	if err := bus.pubsub.Publish(TopicAlerts, garbage); err != nil {
		t.Fatalf("raw publish failed: %v", err)
	}
	if err := bus.PublishAlert(testAlert()); err != nil {
		t.Fatalf("PublishAlert failed: %v", err)
	}

	waitFor(t, func() bool { return sink.alertCount() == 1 }, "valid alert delivered")
	if got := sink.alertCount(); got != 1 {
		t.Errorf("expected malformed payload to be skipped, got %d broadcasts", got)
	}
}

func TestForwarder_String(t *testing.T) {
	fwd := NewForwarder(NewBus(), nil, nil)
	if fwd.String() != "event-forwarder" {
		t.Errorf("unexpected service name %q", fwd.String())
	}
}
