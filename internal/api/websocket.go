// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package api

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	ws "github.com/catchmeifyoucaan/projectORBITA/internal/websocket"
)

// newUpgrader builds a websocket upgrader that accepts the same
// origins as the CORS policy. An empty list means same-origin only,
// which gorilla's default check enforces.
func newUpgrader(allowedOrigins []string) *gorillaws.Upgrader {
	up := &gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		wildcard := false
		for _, o := range allowedOrigins {
			if o == "*" {
				wildcard = true
			}
			allowed[o] = struct{}{}
		}
		up.CheckOrigin = func(r *http.Request) bool {
			if wildcard {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		}
	}
	return up
}

// WebSocket upgrades the connection and joins it to the globe hub.
func (h *Handler) WebSocket(upgrader *gorillaws.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the error response.
			logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := ws.NewClient(h.hub, conn)
		h.hub.Register <- client
		client.Start()
	}
}
