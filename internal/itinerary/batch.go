// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/metrics"
	"github.com/grubroute/grubroute/internal/models"
)

// Cluster discovery parameters for batch location selection.
const (
	clusterMinRestaurants = 15
	clusterRadiusKm       = 2.0
	clusterTopN           = 5
)

// batchMinRating is the rating floor applied to every batch combination.
const batchMinRating = 4.0

// defaultLocationRadiusKm applies to locations that carry no radius.
const defaultLocationRadiusKm = 3.0

// ItineraryStore persists generated itineraries keyed by their generation
// parameters.
type ItineraryStore interface {
	Upsert(ctx context.Context, it *models.Itinerary) (created bool, err error)
}

// Publisher announces generated itineraries to downstream consumers.
type Publisher interface {
	PublishGenerated(ctx context.Context, it *models.Itinerary) error
}

// Location is one center point the batch run generates itineraries around.
type Location struct {
	Neighborhood string
	Latitude     float64
	Longitude    float64
	RadiusKm     float64
}

// Combination is one themed filter set the batch run applies per location.
type Combination struct {
	Title       string
	Description string
	Filters     Filters
}

// BatchStats summarizes one batch run.
type BatchStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// BatchGenerator walks the location and combination matrix and persists one
// itinerary per viable pair, up to the configured limit.
type BatchGenerator struct {
	assembler *Assembler
	restos    RestaurantStore
	store     ItineraryStore
	publisher Publisher
	cfg       *config.BatchConfig
	rng       *rand.Rand
	log       zerolog.Logger
}

// NewBatchGenerator wires a batch generator. The seed drives the randomized
// cuisine and price picks in the occasion and feature combinations; fixed
// seeds give reproducible runs. publisher may be nil.
func NewBatchGenerator(restos RestaurantStore, store ItineraryStore, publisher Publisher, cfg *config.BatchConfig, seed int64) *BatchGenerator {
	return &BatchGenerator{
		assembler: NewAssembler(restos),
		restos:    restos,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		log:       logging.With().Str("component", "batch").Logger(),
	}
}

// Run executes one full batch pass. Individual combination failures are
// counted and logged, never fatal; only store-level failures during location
// discovery abort the run.
func (b *BatchGenerator) Run(ctx context.Context) (BatchStats, error) {
	var stats BatchStats

	locations, err := b.locations(ctx)
	if err != nil {
		metrics.BatchRunsTotal.WithLabelValues("failed").Inc()
		return stats, fmt.Errorf("batch locations: %w", err)
	}
	combos := b.combinations()
	b.log.Info().Int("locations", len(locations)).Int("combinations", len(combos)).
		Int("limit", b.cfg.Limit).Msg("batch generation starting")

	for _, loc := range locations {
		for _, combo := range combos {
			if stats.Created+stats.Updated >= b.cfg.Limit {
				b.log.Info().Int("limit", b.cfg.Limit).Msg("batch limit reached")
				metrics.BatchRunsTotal.WithLabelValues("completed").Inc()
				return stats, nil
			}
			if err := ctx.Err(); err != nil {
				metrics.BatchRunsTotal.WithLabelValues("failed").Inc()
				return stats, err
			}

			req := &Request{
				Title:        combo.Title,
				Description:  combo.Description,
				Neighborhood: loc.Neighborhood,
				CenterLat:    loc.Latitude,
				CenterLon:    loc.Longitude,
				RadiusKm:     loc.RadiusKm,
				Filters:      combo.Filters,
				MinCount:     b.cfg.MinRestaurants,
				MaxCount:     b.cfg.MaxRestaurants,
			}

			itin, err := b.assembler.Generate(ctx, req)
			switch {
			case errors.Is(err, ErrInsufficientCandidates):
				stats.Skipped++
				metrics.BatchItinerariesWritten.WithLabelValues("skipped").Inc()
				continue
			case err != nil:
				stats.Errors++
				b.log.Error().Err(err).Str("title", combo.Title).
					Str("neighborhood", loc.Neighborhood).Msg("batch generation failed")
				continue
			}

			created, err := b.store.Upsert(ctx, itin)
			if err != nil {
				stats.Errors++
				b.log.Error().Err(err).Str("key", itin.Key()).Msg("itinerary upsert failed")
				continue
			}
			if created {
				stats.Created++
				metrics.BatchItinerariesWritten.WithLabelValues("created").Inc()
			} else {
				stats.Updated++
				metrics.BatchItinerariesWritten.WithLabelValues("updated").Inc()
			}

			if b.publisher != nil {
				if err := b.publisher.PublishGenerated(ctx, itin); err != nil {
					b.log.Warn().Err(err).Str("key", itin.Key()).Msg("publish failed")
				}
			}
		}
	}

	metrics.BatchRunsTotal.WithLabelValues("completed").Inc()
	b.log.Info().Int("created", stats.Created).Int("updated", stats.Updated).
		Int("skipped", stats.Skipped).Int("errors", stats.Errors).Msg("batch generation complete")
	return stats, nil
}

// fixedNeighborhoods are the curated Manhattan center points batch runs
// always cover.
var fixedNeighborhoods = []Location{
	{Neighborhood: "East Village", Latitude: 40.7262, Longitude: -73.9818, RadiusKm: 1.0},
	{Neighborhood: "TriBeCa", Latitude: 40.7181, Longitude: -74.0086, RadiusKm: 3.0},
	{Neighborhood: "West Village", Latitude: 40.7358, Longitude: -74.0036, RadiusKm: 1.0},
	{Neighborhood: "Lower East Side", Latitude: 40.7150, Longitude: -73.9843, RadiusKm: 3.0},
	{Neighborhood: "SoHo", Latitude: 40.7231, Longitude: -74.0026, RadiusKm: 1.0},
	{Neighborhood: "Chelsea", Latitude: 40.7465, Longitude: -74.0014, RadiusKm: 2.0},
	{Neighborhood: "Upper West Side", Latitude: 40.7870, Longitude: -73.9754, RadiusKm: 2.0},
	{Neighborhood: "Greenwich Village", Latitude: 40.7336, Longitude: -74.0027, RadiusKm: 1.5},
}

// locations returns the fixed neighborhoods plus the densest discovered
// clusters.
func (b *BatchGenerator) locations(ctx context.Context) ([]Location, error) {
	locations := make([]Location, 0, len(fixedNeighborhoods)+clusterTopN)
	locations = append(locations, fixedNeighborhoods...)

	clusters, err := FindClusters(ctx, b.restos, clusterMinRestaurants, clusterRadiusKm)
	if err != nil {
		return nil, err
	}
	if len(clusters) > clusterTopN {
		clusters = clusters[:clusterTopN]
	}
	for _, c := range clusters {
		r := c.RadiusKm
		if r <= 0 {
			r = defaultLocationRadiusKm
		}
		locations = append(locations, Location{
			Neighborhood: fmt.Sprintf("Restaurant Cluster %d", c.ID),
			Latitude:     c.CenterLat,
			Longitude:    c.CenterLon,
			RadiusKm:     r,
		})
	}
	return locations, nil
}

var (
	batchCuisines = []string{
		"Italian", "French", "Mexican", "Japanese", "Chinese", "Thai",
		"Indian", "Mediterranean", "American", "Korean", "Spanish", "Greek",
	}
	batchPriceRanges = []string{"$30 and under", "$31-$50", "$50+"}

	batchOccasions = []struct {
		name      string
		tags      []string
		priceBias string
	}{
		{name: "Date Night", tags: []string{"Romantic", "Upscale"}, priceBias: "$50+"},
		{name: "Group Dining", tags: []string{"Good for groups"}},
		{name: "Brunch", tags: []string{"Great for brunch"}, priceBias: "$31-$50"},
		{name: "Business Lunch", priceBias: "$31-$50"},
		{name: "Late Night", tags: []string{"Late night"}},
		{name: "Family Friendly", tags: []string{"Family friendly"}, priceBias: "$30 and under"},
	}

	batchFeatures = []string{"Outdoor Seating", "Live Music", "Vegetarian-Friendly", "Pet-Friendly"}
)

// combinations builds the themed filter matrix: the top eight cuisines
// crossed with every price range, six occasion themes, four special-feature
// themes, and one open neighborhood tour.
func (b *BatchGenerator) combinations() []Combination {
	minRating := batchMinRating
	combos := make([]Combination, 0, 8*len(batchPriceRanges)+len(batchOccasions)+len(batchFeatures)+1)

	for _, cuisine := range batchCuisines[:8] {
		for _, price := range batchPriceRanges {
			combos = append(combos, Combination{
				Title:       fmt.Sprintf("%s Food Tour", cuisine),
				Description: fmt.Sprintf("Discover the best %s restaurants", strings.ToLower(cuisine)),
				Filters: Filters{
					Cuisine:    cuisine,
					PriceRange: price,
					MinRating:  &minRating,
				},
			})
		}
	}

	for _, occ := range batchOccasions {
		price := occ.priceBias
		if price == "" {
			price = batchPriceRanges[b.rng.Intn(len(batchPriceRanges))]
		}
		cuisine := batchCuisines[b.rng.Intn(6)]
		combos = append(combos, Combination{
			Title:       fmt.Sprintf("%s - %s", occ.name, cuisine),
			Description: fmt.Sprintf("Perfect %s spots", strings.ToLower(occ.name)),
			Filters: Filters{
				Cuisine:    cuisine,
				PriceRange: price,
				MinRating:  &minRating,
				Tags:       occ.tags,
			},
		})
	}

	for _, feature := range batchFeatures {
		cuisine := batchCuisines[b.rng.Intn(6)]
		price := batchPriceRanges[b.rng.Intn(len(batchPriceRanges))]
		combos = append(combos, Combination{
			Title:       fmt.Sprintf("%s Restaurants", feature),
			Description: fmt.Sprintf("Restaurants with %s", strings.ToLower(feature)),
			Filters: Filters{
				Cuisine:    cuisine,
				PriceRange: price,
				MinRating:  &minRating,
				Tags:       []string{feature},
			},
		})
	}

	combos = append(combos, Combination{
		Title:       "Neighborhood Food Tour",
		Description: "Explore the best local spots",
		Filters: Filters{
			MinRating: &minRating,
			Tags:      []string{"Neighborhood gem"},
		},
	})

	return combos
}
