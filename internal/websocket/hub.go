// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package websocket pushes globe entity state and alert events to
// browser clients and receives entity selection clicks back. One Hub
// fans broadcasts out to every connected client; the GlobeRenderer
// adapter makes the hub usable as the view-sync renderer.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/metrics"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// Message types sent to clients.
const (
	MessageTypeEntityUpsert  = "entity_upsert"
	MessageTypeEntityRemove  = "entity_remove"
	MessageTypeEntitiesClear = "entities_clear"
	MessageTypeAlert         = "alert"
	MessageTypeCatalog       = "catalog_updated"
	MessageTypePing          = "ping"
	MessageTypePong          = "pong"
)

// MessageTypeSelect is sent by clients when an entity is clicked.
const MessageTypeSelect = "select"

// Message is the wire envelope in both directions.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// SelectData is the payload of a client select message.
type SelectData struct {
	Handle string `json:"handle"`
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client

	mu       sync.RWMutex
	onSelect func(handle string)
}

// NewHub creates an idle hub; call Run or RunWithContext to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// OnSelect registers the handler invoked when a client clicks an
// entity. A later call replaces the handler.
func (h *Hub) OnSelect(fn func(handle string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSelect = fn
}

func (h *Hub) clientSelected(handle string) {
	h.mu.RLock()
	fn := h.onSelect
	h.mu.RUnlock()
	if fn != nil {
		fn(handle)
	}
}

// Run runs the hub loop until the process exits. Prefer
// RunWithContext under a supervisor.
func (h *Hub) Run() {
	_ = h.RunWithContext(context.Background())
}

// RunWithContext runs the hub loop until the context is canceled.
// Selection between ready channels is prioritized: shutdown first,
// then client lifecycle, then broadcasts, so client state is settled
// before messages are delivered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	logging.Info().Int("total_clients", n).Msg("websocket client disconnected")
}

// broadcastToClients delivers one message to every client in id order.
// Iterating in id order keeps delivery deterministic for tests; a
// client whose send buffer is full is dropped rather than blocking
// the hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesTotal.WithLabelValues("sent").Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WebSocketMessagesTotal.WithLabelValues("dropped").Inc()
	}
	if len(toRemove) > 0 {
		metrics.WebSocketClients.Set(float64(len(h.clients)))
		logging.Warn().Int("dropped", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebSocketClients.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", shutdownReason(ctx)).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

func shutdownReason(ctx context.Context) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "context_deadline"
	}
	return "context_canceled"
}

// BroadcastJSON queues a typed message for all clients. Drops the
// message when the broadcast buffer is full; the next refresh cycle
// re-sends current state anyway.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// BroadcastAlert pushes one alert onto every client's feed.
func (h *Hub) BroadcastAlert(alert models.Alert) {
	h.BroadcastJSON(MessageTypeAlert, alert)
}

// CatalogUpdateData announces a new catalog snapshot.
type CatalogUpdateData struct {
	Timestamp  time.Time `json:"timestamp"`
	Satellites int       `json:"satellites"`
}

// BroadcastCatalogUpdated announces a catalog refresh to clients.
func (h *Hub) BroadcastCatalogUpdated(satellites int) {
	h.BroadcastJSON(MessageTypeCatalog, CatalogUpdateData{
		Timestamp:  time.Now().UTC(),
		Satellites: satellites,
	})
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
