// Project ORBITA - Satellite Intelligence and Industrial Monitoring Dashboard
// Copyright 2026 catchmeifyoucaan
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/catchmeifyoucaan/projectORBITA

// Package events is the in-process message bus. The alert monitor
// publishes detections here and the forwarder fans them out to
// websocket clients, keeping producers decoupled from delivery.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/catchmeifyoucaan/projectORBITA/internal/models"
)

// Topics carried on the bus.
const (
	TopicAlerts  = "alerts.detected"
	TopicCatalog = "catalog.updated"
)

// CatalogUpdated announces a new catalog snapshot.
type CatalogUpdated struct {
	Satellites int `json:"satellites"`
}

// Bus is a gochannel pub/sub shared by the process. Subscribers that
// join after a publish do not see earlier messages.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus with a buffered output channel so slow
// subscribers do not stall publishers.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			NewLoggerAdapter("event-bus"),
		),
	}
}

// PublishAlert publishes one alert to TopicAlerts.
func (b *Bus) PublishAlert(alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicAlerts, msg); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}

// PublishCatalogUpdated announces a catalog refresh.
func (b *Bus) PublishCatalogUpdated(satellites int) error {
	payload, err := json.Marshal(CatalogUpdated{Satellites: satellites})
	if err != nil {
		return fmt.Errorf("marshal catalog update: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicCatalog, msg); err != nil {
		return fmt.Errorf("publish catalog update: %w", err)
	}
	return nil
}

// Subscribe returns a channel of messages on the topic. The channel
// closes when ctx is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
