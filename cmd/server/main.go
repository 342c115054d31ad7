// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package main is the entry point for the Grubroute server.
//
// Grubroute serves a restaurant-discovery API backed by scraped restaurant
// data: search, itinerary generation, neighborhood cluster discovery, and
// content-based recommendations.
//
// # Startup order
//
//  1. Configuration: layered defaults, YAML file, GRUBROUTE_* env (Koanf v2)
//  2. Logging: zerolog, json or console format
//  3. Restaurant store: DuckDB
//  4. Itinerary store: BadgerDB
//  5. Event bus: in-process Watermill pub/sub, plus the audit consumer
//  6. Batch generator and scheduler (if enabled)
//  7. HTTP server under a suture supervision tree
//
// # Configuration
//
// Environment variables use the GRUBROUTE_ prefix with underscores mapping
// to config sections:
//
//	export GRUBROUTE_SERVER_PORT=8090
//	export GRUBROUTE_DATABASE_PATH=/data/restaurants.db
//	export GRUBROUTE_AUTH_MODE=none   # development only
//	./grubroute
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the batch scheduler aborts between combinations, and
// both stores close cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grubroute/grubroute/internal/api"
	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/events"
	"github.com/grubroute/grubroute/internal/ingest"
	"github.com/grubroute/grubroute/internal/itinerary"
	"github.com/grubroute/grubroute/internal/itinerarystore"
	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/recommend"
	"github.com/grubroute/grubroute/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, so this uses the default logger.
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Auth.Mode).
		Bool("batch_enabled", cfg.Batch.Enabled).
		Msg("starting grubroute")

	if cfg.Auth.Mode == "none" {
		logging.Warn().Msg("authentication is disabled (auth.mode=none); every endpoint is public")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open restaurant database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing restaurant database")
		}
	}()

	itins, err := itinerarystore.New(&cfg.ItineraryStore)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open itinerary store")
	}
	defer func() {
		if err := itins.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing itinerary store")
		}
	}()

	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing event bus")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	tree.AddJobService(events.NewAuditConsumer(bus))

	var batch *itinerary.BatchGenerator
	if cfg.Batch.Enabled {
		seed := cfg.Batch.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		batch = itinerary.NewBatchGenerator(db, itins, bus, &cfg.Batch, seed)
		tree.AddJobService(itinerary.NewScheduler(batch, cfg.Batch.Interval, cfg.Batch.RunOnStart))
		logging.Info().
			Dur("interval", cfg.Batch.Interval).
			Bool("run_on_start", cfg.Batch.RunOnStart).
			Msg("batch scheduler added to supervisor tree")
	}

	handler := api.NewHandler(
		db,
		itins,
		itinerary.NewAssembler(db),
		recommend.New(db),
		ingest.New(db, &cfg.Ingest),
		batch,
		cfg,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("http server added to supervisor tree")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}

	logging.Info().Msg("grubroute stopped")
}
