// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/grubroute/grubroute/internal/logging"
)

// Scheduler runs the batch generator on a fixed interval. It implements
// suture.Service, so the supervision tree owns its lifecycle: Serve optionally
// runs an immediate pass, then one per tick, until the context is canceled.
type Scheduler struct {
	batch      *BatchGenerator
	interval   time.Duration
	runOnStart bool
	log        zerolog.Logger
}

// NewScheduler returns a scheduler ticking every interval. When runOnStart
// is set, the first pass happens as soon as Serve begins instead of waiting
// a full interval.
func NewScheduler(batch *BatchGenerator, interval time.Duration, runOnStart bool) *Scheduler {
	return &Scheduler{
		batch:      batch,
		interval:   interval,
		runOnStart: runOnStart,
		log:        logging.With().Str("component", "batch_scheduler").Logger(),
	}
}

// Serve implements suture.Service.
func (s *Scheduler) Serve(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("batch scheduler starting")

	if s.runOnStart {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("batch scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	stats, err := s.batch.Run(ctx)
	if err != nil && ctx.Err() == nil {
		s.log.Error().Err(err).Msg("batch run failed")
		return
	}
	if ctx.Err() == nil {
		s.log.Info().Int("created", stats.Created).Int("updated", stats.Updated).
			Int("skipped", stats.Skipped).Msg("batch run finished")
	}
}

// String implements suture's service naming.
func (s *Scheduler) String() string { return "batch-scheduler" }
