// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package ingest imports scraped restaurant JSON into the restaurant store.
//
// Scraper exports disagree on field names and types (place_id vs id,
// ratings as strings, cuisine vs categories), so decoding is tolerant:
// each field is resolved through an alias list and coerced, and records
// that still fail are counted and skipped rather than aborting the batch.
package ingest

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/metrics"
	"github.com/grubroute/grubroute/internal/models"
)

// KnownSources are the accepted scraper source names.
var KnownSources = []string{"yelp", "google", "tripadvisor", "foursquare", "opentable", "other"}

// Stats summarizes one import run.
type Stats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// Importer writes scraped records into the restaurant store, rate-limited
// so bulk imports do not starve live queries.
type Importer struct {
	db      *database.DB
	limiter *rate.Limiter
	log     zerolog.Logger
}

// New returns an Importer honoring the configured write rate. A zero rate
// disables the limiter.
func New(db *database.DB, cfg *config.IngestConfig) *Importer {
	limit := rate.Limit(cfg.RatePerSecond)
	if cfg.RatePerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Importer{
		db:      db,
		limiter: rate.NewLimiter(limit, burst),
		log:     logging.With().Str("component", "ingest").Logger(),
	}
}

// ValidSource reports whether the source name is accepted.
func ValidSource(source string) bool {
	for _, s := range KnownSources {
		if s == source {
			return true
		}
	}
	return false
}

// Import reads a JSON array of scraped records and upserts each one keyed
// by (source, source_id). With dryRun set, records are parsed and counted
// but nothing is written.
func (im *Importer) Import(ctx context.Context, r io.Reader, source string, dryRun bool) (Stats, error) {
	var stats Stats
	if !ValidSource(source) {
		return stats, fmt.Errorf("unknown source %q, accepted: %s", source, strings.Join(KnownSources, ", "))
	}

	var records []map[string]any
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return stats, fmt.Errorf("decode import payload: %w", err)
	}
	stats.Total = len(records)
	im.log.Info().Str("source", source).Int("records", len(records)).Bool("dry_run", dryRun).
		Msg("import starting")

	for idx, raw := range records {
		restaurant := ParseRecord(raw, source, idx+1)

		if dryRun {
			continue
		}
		if err := im.limiter.Wait(ctx); err != nil {
			return stats, err
		}

		created, err := im.db.UpsertRestaurant(ctx, restaurant)
		if err != nil {
			stats.Errors++
			metrics.IngestRecords.WithLabelValues(source, "error").Inc()
			im.log.Error().Err(err).Str("name", restaurant.Name).
				Str("source_id", restaurant.SourceID).Msg("record import failed")
			continue
		}
		if created {
			stats.Created++
			metrics.IngestRecords.WithLabelValues(source, "created").Inc()
		} else {
			stats.Updated++
			metrics.IngestRecords.WithLabelValues(source, "updated").Inc()
		}
	}

	im.log.Info().Int("created", stats.Created).Int("updated", stats.Updated).
		Int("errors", stats.Errors).Msg("import finished")
	return stats, nil
}

// RepairRatings nulls out ratings outside the 0..5 scale and returns how
// many rows were fixed.
func (im *Importer) RepairRatings(ctx context.Context) (int64, error) {
	fixed, err := im.db.ClampInvalidRatings(ctx)
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		im.log.Warn().Int64("fixed", fixed).Msg("invalid ratings cleared")
	}
	return fixed, nil
}

// ParseRecord maps one scraped record onto the restaurant model. Missing or
// malformed fields degrade to zero values; idx seeds the fallback source ID
// for records with no usable identifier.
func ParseRecord(raw map[string]any, source string, idx int) *models.Restaurant {
	r := &models.Restaurant{
		Source:   source,
		IsActive: true,
	}

	r.SourceID = stringField(raw, "source_id", "place_id", "id", "yelp_id", "restaurant_id")
	if r.SourceID == "" {
		r.SourceID = fmt.Sprintf("%s_%d", source, idx)
	}

	r.Name = stringField(raw, "name", "place_name")
	if r.Name == "" {
		r.Name = "Unknown Restaurant"
	}

	r.Address = stringField(raw, "address", "full_address", "formatted_address")
	r.StreetAddress = stringField(raw, "street_address", "street")
	r.City = stringField(raw, "city")
	r.State = stringField(raw, "state")
	r.ZipCode = stringField(raw, "zip_code", "zip", "postal_code")
	r.Country = stringField(raw, "country", "country_code")
	if r.Country == "" {
		r.Country = "USA"
	}
	if r.Address != "" && r.City == "" {
		if parsed, ok := ParseAddress(r.Address); ok {
			r.City = parsed.City
			r.State = parsed.State
			if parsed.ZipCode != "" {
				r.ZipCode = parsed.ZipCode
			}
			if r.StreetAddress == "" {
				r.StreetAddress = parsed.Street
			}
		}
	}

	r.Latitude = floatField(raw, "latitude", "lat")
	r.Longitude = floatField(raw, "longitude", "long", "lng")
	r.Rating = floatField(raw, "rating", "avg_rating", "average_rating")
	r.TotalReviews = intField(raw, "total_reviews", "review_count")

	r.PriceRange = stringField(raw, "price_range", "price_level", "price")
	r.Phone = stringField(raw, "phone", "phone_number")
	r.Website = stringField(raw, "website", "url")
	r.Description = stringField(raw, "description")

	r.Categories = listField(raw, "categories", "tags", "types")
	if len(r.Categories) == 0 {
		if cuisine := stringField(raw, "cuisine"); cuisine != "" {
			r.Categories = []string{cuisine}
		}
	}
	r.Features = listField(raw, "features")
	r.Photos = listField(raw, "photos", "photo_urls", "images")
	r.MenuItems = listField(raw, "menu_items", "menu")
	r.Tags = listField(raw, "tags")
	r.Reviews = listField(raw, "reviews")

	r.DataQualityScore = qualityScore(r)
	now := time.Now().UTC()
	r.LastScrapedAt = &now
	return r
}

// qualityScore measures record completeness on a 0..100 scale. Coordinates
// weigh heaviest because everything geospatial depends on them.
func qualityScore(r *models.Restaurant) float64 {
	score := 10.0 // has a name, even if the fallback
	if r.HasCoordinates() {
		score += 20
	}
	if r.Rating != nil {
		score += 10
	}
	if r.TotalReviews > 0 {
		score += 5
	}
	if r.PriceRange != "" {
		score += 10
	}
	if len(r.Categories) > 0 {
		score += 10
	}
	if r.Description != "" {
		score += 10
	}
	if len(r.Photos) > 0 {
		score += 10
	}
	if len(r.MenuItems) > 0 {
		score += 10
	}
	if r.Phone != "" || r.Website != "" {
		score += 5
	}
	return score
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

func floatField(raw map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return &n
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err == nil {
				return &parsed
			}
		}
	}
	return nil
}

func intField(raw map[string]any, keys ...string) int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(n))
			if err == nil {
				return parsed
			}
		}
	}
	return 0
}

func listField(raw map[string]any, keys ...string) []string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch list := v.(type) {
		case string:
			if trimmed := strings.TrimSpace(list); trimmed != "" {
				return []string{trimmed}
			}
		case []any:
			var out []string
			for _, item := range list {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, strings.TrimSpace(s))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
