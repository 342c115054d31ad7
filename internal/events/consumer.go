// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/metrics"
)

// AuditConsumer drains itinerary.generated events into the structured log,
// giving operators a persistent trail of what the batch generator and the
// API produced. Runs as a supervised service.
type AuditConsumer struct {
	bus *Bus
	log zerolog.Logger
}

// NewAuditConsumer attaches an audit consumer to the bus.
func NewAuditConsumer(bus *Bus) *AuditConsumer {
	return &AuditConsumer{
		bus: bus,
		log: logging.With().Str("component", "itinerary-audit").Logger(),
	}
}

// Serve implements suture.Service. Messages are always acked; an undecodable
// payload is logged and dropped rather than redelivered forever.
func (c *AuditConsumer) Serve(ctx context.Context) error {
	msgs, err := c.bus.SubscribeGenerated(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			evt, err := DecodeGenerated(msg)
			if err != nil {
				c.log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping malformed event")
				metrics.EventsConsumed.WithLabelValues("itinerary-audit", "malformed").Inc()
				msg.Ack()
				continue
			}
			metrics.EventsConsumed.WithLabelValues("itinerary-audit", "ok").Inc()
			c.log.Info().
				Str("key", evt.Key).
				Str("title", evt.Title).
				Str("cuisine", evt.Cuisine).
				Str("neighborhood", evt.Neighborhood).
				Int("restaurants", evt.TotalRestaurants).
				Bool("featured", evt.IsFeatured).
				Msg("itinerary generated")
			msg.Ack()
		}
	}
}

// String identifies the service in supervisor logs.
func (c *AuditConsumer) String() string {
	return "itinerary-audit"
}
