// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/logging"
	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// AlertBroadcaster delivers one alert to connected clients.
type AlertBroadcaster interface {
	BroadcastAlert(alert models.Alert)
}

// CatalogBroadcaster announces catalog refreshes to connected clients.
type CatalogBroadcaster interface {
	BroadcastCatalogUpdated(satellites int)
}

// Forwarder subscribes to the bus and pushes events out over the
// websocket hub. Runs under the supervisor as a suture service.
type Forwarder struct {
	bus      *Bus
	alerts   AlertBroadcaster
	catalogs CatalogBroadcaster
}

// NewForwarder wires the bus to the hub. Either broadcaster may be
// nil, in which case that topic is not consumed.
func NewForwarder(bus *Bus, alerts AlertBroadcaster, catalogs CatalogBroadcaster) *Forwarder {
	return &Forwarder{bus: bus, alerts: alerts, catalogs: catalogs}
}

// Serve consumes bus messages until the context is canceled. A nil
// channel blocks forever, so unconfigured topics just never fire.
func (f *Forwarder) Serve(ctx context.Context) error {
	log := logging.WithComponent("event-forwarder")

	var alertCh, catalogCh <-chan *message.Message
	if f.alerts != nil {
		ch, err := f.bus.Subscribe(ctx, TopicAlerts)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", TopicAlerts, err)
		}
		alertCh = ch
	}
	if f.catalogs != nil {
		ch, err := f.bus.Subscribe(ctx, TopicCatalog)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", TopicCatalog, err)
		}
		catalogCh = ch
	}

	log.Info().Msg("event forwarder started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-alertCh:
			if !ok {
				return nil
			}
			var alert models.Alert
			if err := json.Unmarshal(msg.Payload, &alert); err != nil {
				log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed alert event")
				msg.Ack()
				continue
			}
			f.alerts.BroadcastAlert(alert)
			msg.Ack()

		case msg, ok := <-catalogCh:
			if !ok {
				return nil
			}
			var upd CatalogUpdated
			if err := json.Unmarshal(msg.Payload, &upd); err != nil {
				log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed catalog event")
				msg.Ack()
				continue
			}
			f.catalogs.BroadcastCatalogUpdated(upd.Satellites)
			msg.Ack()
		}
	}
}

// String identifies the service in supervisor logs.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
