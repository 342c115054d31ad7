// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package config loads and validates application configuration via Koanf v2
// with layered sources: built-in defaults, optional YAML file, environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root application configuration.
type Config struct {
	Server         ServerConfig         `koanf:"server"`
	Logging        LoggingConfig        `koanf:"logging"`
	Database       DatabaseConfig       `koanf:"database"`
	ItineraryStore ItineraryStoreConfig `koanf:"itinerary_store"`
	Auth           AuthConfig           `koanf:"auth"`
	Batch          BatchConfig          `koanf:"batch"`
	Ingest         IngestConfig         `koanf:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig holds DuckDB restaurant-store settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory
	// database, which the tests use.
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	// Threads is the DuckDB thread count. 0 means runtime.NumCPU().
	Threads int `koanf:"threads" validate:"min=0"`
}

// ItineraryStoreConfig holds BadgerDB itinerary-store settings.
type ItineraryStoreConfig struct {
	Path string `koanf:"path"`
	// InMemory runs Badger without disk persistence. Used by tests and
	// throwaway environments; Path is ignored when set.
	InMemory bool `koanf:"in_memory"`
}

// AuthConfig holds API authentication settings.
//
// Mode "jwt" requires callers to present a bearer token signed with Secret;
// mode "none" disables authentication entirely (development only). Identity
// providers live outside this service — the API only verifies tokens.
type AuthConfig struct {
	Mode   string `koanf:"mode" validate:"oneof=none jwt"`
	Secret string `koanf:"secret"`
}

// BatchConfig holds batch itinerary-generation settings.
type BatchConfig struct {
	Enabled    bool          `koanf:"enabled"`
	RunOnStart bool          `koanf:"run_on_start"`
	Interval   time.Duration `koanf:"interval"`

	// Limit caps how many itineraries one batch run may create or update.
	Limit int `koanf:"limit" validate:"min=1"`

	// MinRestaurants and MaxRestaurants bound itinerary size.
	MinRestaurants int `koanf:"min_restaurants" validate:"min=1"`
	MaxRestaurants int `koanf:"max_restaurants" validate:"min=1"`

	// Seed feeds the batch generator's random source. Combination shuffling
	// exists purely for output variety; a fixed seed makes runs reproducible.
	Seed int64 `koanf:"seed"`
}

// IngestConfig holds scraped-data import settings.
type IngestConfig struct {
	// RatePerSecond limits store upserts during bulk import. 0 disables
	// the limiter.
	RatePerSecond float64 `koanf:"rate_per_second" validate:"min=0"`
	Burst         int     `koanf:"burst" validate:"min=0"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8645,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path:      "/data/grubroute.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		ItineraryStore: ItineraryStoreConfig{
			Path: "/data/itineraries",
		},
		Auth: AuthConfig{
			Mode: "jwt",
		},
		Batch: BatchConfig{
			Enabled:        true,
			RunOnStart:     false,
			Interval:       24 * time.Hour,
			Limit:          50,
			MinRestaurants: 8,
			MaxRestaurants: 10,
			Seed:           0,
		},
		Ingest: IngestConfig{
			RatePerSecond: 200,
			Burst:         50,
		},
	}
}

// Validate checks the configuration for contract violations. Tag-level
// validation runs first, then the cross-field rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	if c.Batch.MaxRestaurants < c.Batch.MinRestaurants {
		return fmt.Errorf("config validation: batch.max_restaurants (%d) must be >= batch.min_restaurants (%d)",
			c.Batch.MaxRestaurants, c.Batch.MinRestaurants)
	}
	if c.Batch.Enabled && c.Batch.Interval <= 0 {
		return fmt.Errorf("config validation: batch.interval must be positive when batch is enabled")
	}
	if c.Auth.Mode == "jwt" && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("config validation: auth.secret must be at least 32 characters in jwt mode")
	}
	if !c.ItineraryStore.InMemory && c.ItineraryStore.Path == "" {
		return fmt.Errorf("config validation: itinerary_store.path is required unless in_memory is set")
	}
	return nil
}
