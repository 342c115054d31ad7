// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package events carries generated-itinerary notifications over an
// in-process Watermill pub/sub. Consumers (cache warmers, webhooks) attach
// through Subscribe without coupling to the generation pipeline.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/models"
)

// TopicItineraryGenerated carries one message per generated itinerary.
const TopicItineraryGenerated = "itinerary.generated"

// metadata keys
const (
	MetadataKey      = "itinerary_key"
	MetadataFeatured = "featured"
)

// ItineraryGenerated is the event payload.
type ItineraryGenerated struct {
	Key              string    `json:"key"`
	Title            string    `json:"title"`
	Cuisine          string    `json:"cuisine,omitempty"`
	Neighborhood     string    `json:"neighborhood,omitempty"`
	TotalRestaurants int       `json:"total_restaurants"`
	IsFeatured       bool      `json:"is_featured"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// Bus is an in-process pub/sub for itinerary events.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the bus. Messages are fan-out: every subscriber receives
// every event published after it attached.
func NewBus() *Bus {
	logger := newLoggerAdapter(logging.With().Str("component", "events").Logger())
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, logger),
	}
}

// PublishGenerated emits an itinerary.generated event for the itinerary.
func (b *Bus) PublishGenerated(ctx context.Context, it *models.Itinerary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(ItineraryGenerated{
		Key:              it.Key(),
		Title:            it.Title,
		Cuisine:          it.Cuisine,
		Neighborhood:     it.Neighborhood,
		TotalRestaurants: it.Stats.TotalRestaurants,
		IsFeatured:       it.IsFeatured,
		GeneratedAt:      it.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal itinerary event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataKey, it.Key())
	if it.IsFeatured {
		msg.Metadata.Set(MetadataFeatured, "true")
	}

	if err := b.pubsub.Publish(TopicItineraryGenerated, msg); err != nil {
		return fmt.Errorf("publish itinerary event: %w", err)
	}
	return nil
}

// SubscribeGenerated returns a channel of itinerary.generated messages.
// The subscription ends when ctx is canceled.
func (b *Bus) SubscribeGenerated(ctx context.Context) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, TopicItineraryGenerated)
	if err != nil {
		return nil, fmt.Errorf("subscribe itinerary events: %w", err)
	}
	return ch, nil
}

// Close shuts the bus down; pending deliveries are dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// DecodeGenerated parses an itinerary.generated message payload.
func DecodeGenerated(msg *message.Message) (*ItineraryGenerated, error) {
	var evt ItineraryGenerated
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return nil, fmt.Errorf("decode itinerary event: %w", err)
	}
	return &evt, nil
}
