// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package websocket

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

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

// setupHub creates and starts a new hub for testing.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(10 * time.Millisecond)
	return hub
}

// createTestClient creates a mock client bypassing the upgrader.
func createTestClient(hub *Hub) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: nil,
		send: make(chan Message, 256),
	}
}

// registerClient registers a client and waits for registration to complete.
func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
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

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", len(hub.clients) == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_GetClientCount(t *testing.T) {
	hub := NewHub()

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients initially, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		hub.clients[createTestClient(hub)] = true
	}

	if hub.GetClientCount() != 5 {
		t.Errorf("Expected 5 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	registerClient(hub, client)
	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("Expected 1 client after register, got %d", got)
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)
	if got := hub.GetClientCount(); got != 0 {
		t.Fatalf("Expected 0 clients after unregister, got %d", got)
	}

	// Channel must be closed so the write pump exits.
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	default:
		t.Error("expected send channel to be closed, but receive would block")
	}
}

func TestHub_BroadcastDeliversToAllClients(t *testing.T) {
	hub := setupHub(t)
	c1 := createTestClient(hub)
	c2 := createTestClient(hub)
	registerClient(hub, c1)
	registerClient(hub, c2)

	hub.BroadcastAlert(testAlert())
	time.Sleep(20 * time.Millisecond)

	for i, c := range []*Client{c1, c2} {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeAlert {
				t.Errorf("client %d: expected type %q, got %q", i, MessageTypeAlert, msg.Type)
			}
		default:
			t.Errorf("client %d: expected a broadcast message", i)
		}
	}
}

func TestHub_BroadcastDropsSlowClient(t *testing.T) {
	hub := setupHub(t)
	slow := createTestClient(hub)
	slow.send = make(chan Message) // unbuffered, nothing reading
	fast := createTestClient(hub)
	registerClient(hub, slow)
	registerClient(hub, fast)

	hub.BroadcastJSON(MessageTypeEntitiesClear, nil)
	time.Sleep(20 * time.Millisecond)

	if got := hub.GetClientCount(); got != 1 {
		t.Fatalf("Expected slow client to be dropped, got %d clients", got)
	}
	select {
	case msg := <-fast.send:
		if msg.Type != MessageTypeEntitiesClear {
			t.Errorf("expected type %q, got %q", MessageTypeEntitiesClear, msg.Type)
		}
	default:
		t.Error("fast client should still receive broadcasts")
	}
}

func TestHub_BroadcastMethods(t *testing.T) {
	t.Run("BroadcastAlert without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastAlert(testAlert())
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastJSON without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastJSON("test_type", map[string]interface{}{"test_key": "test_value", "count": 42})
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastCatalogUpdated without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastCatalogUpdated(42)
		time.Sleep(10 * time.Millisecond)
	})
}

func TestHub_OnSelectRoutesToHandler(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	var got []string
	hub.OnSelect(func(handle string) {
		mu.Lock()
		got = append(got, handle)
		mu.Unlock()
	})

	hub.clientSelected("sat:25544")
	hub.clientSelected("sat:48274")

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != "sat:25544" || got[1] != "sat:48274" {
		t.Errorf("unexpected handles: %v", got)
	}
}

func TestHub_OnSelectNilHandlerIsSafe(t *testing.T) {
	hub := NewHub()
	hub.clientSelected("sat:25544")

	hub.OnSelect(func(string) {})
	hub.OnSelect(nil)
	hub.clientSelected("sat:25544")
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.RunWithContext(ctx)
	}()
	time.Sleep(10 * time.Millisecond)

	client := createTestClient(hub)
	registerClient(hub, client)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop after context cancel")
	}

	if got := hub.GetClientCount(); got != 0 {
		t.Errorf("Expected 0 clients after shutdown, got %d", got)
	}
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel closed on shutdown")
		}
	default:
		t.Error("expected send channel closed on shutdown")
	}
}
