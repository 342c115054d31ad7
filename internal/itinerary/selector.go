// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"fmt"

	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/geo"
	"github.com/grubroute/grubroute/internal/models"
)

// RestaurantStore is the slice of the restaurant database the pipeline
// needs. *database.DB satisfies it; tests use in-memory fakes.
type RestaurantStore interface {
	FindRestaurants(ctx context.Context, filter *database.RestaurantFilter) ([]models.Restaurant, error)
	ActiveCoordinates(ctx context.Context) ([][2]float64, error)
}

// Selector translates user-facing filters into store queries and applies the
// exact-radius pass that the bounding-box prefilter cannot.
type Selector struct {
	store RestaurantStore
}

// NewSelector returns a Selector backed by the given store.
func NewSelector(store RestaurantStore) *Selector {
	return &Selector{store: store}
}

// storeFilter builds the store-level filter from user-facing filters.
func storeFilter(f *Filters) *database.RestaurantFilter {
	sf := &database.RestaurantFilter{}
	if f == nil {
		return sf
	}
	sf.CuisineTerms = ExpandCuisine(f.Cuisine)
	sf.PriceBuckets = PriceBucketsForLabel(f.PriceRange)
	sf.MinRating = f.MinRating
	sf.MinQualityScore = f.MinQualityScore
	sf.Tags = f.Tags
	return sf
}

// SelectNearby fetches candidates around a center point. The store query
// prefilters with a bounding box; the exact great-circle distance is then
// checked against the radius. Restaurants without coordinates pass the
// bounding box only when requireCoords is false, and carry a nil distance.
func (s *Selector) SelectNearby(ctx context.Context, lat, lon, radiusKm float64, f *Filters, requireCoords bool) ([]Candidate, error) {
	sf := storeFilter(f)
	box := geo.NewBoundingBox(lat, lon, radiusKm)
	sf.Box = &box
	sf.RequireCoordinates = requireCoords

	rows, err := s.store.FindRestaurants(ctx, sf)
	if err != nil {
		return nil, fmt.Errorf("select nearby candidates: %w", err)
	}

	cands := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		if !r.HasCoordinates() {
			if requireCoords {
				continue
			}
			cands = append(cands, Candidate{Restaurant: r})
			continue
		}
		rLat, rLon := r.Coordinates()
		d := geo.DistanceKm(lat, lon, rLat, rLon)
		if d > radiusKm {
			continue
		}
		cands = append(cands, Candidate{Restaurant: r, DistanceKm: &d})
	}
	return cands, nil
}

// SelectByCity fetches candidates by city-name match with no geospatial
// constraint. Used by the city-fallback relaxation stage.
func (s *Selector) SelectByCity(ctx context.Context, city string, f *Filters) ([]Candidate, error) {
	sf := storeFilter(f)
	sf.City = city

	rows, err := s.store.FindRestaurants(ctx, sf)
	if err != nil {
		return nil, fmt.Errorf("select candidates by city: %w", err)
	}
	return asCandidates(rows), nil
}

// SelectByRating fetches candidates constrained only by a minimum rating.
// Used by the final relaxation stage.
func (s *Selector) SelectByRating(ctx context.Context, minRating float64, limit int) ([]Candidate, error) {
	sf := &database.RestaurantFilter{
		MinRating: &minRating,
		Limit:     limit,
	}
	rows, err := s.store.FindRestaurants(ctx, sf)
	if err != nil {
		return nil, fmt.Errorf("select candidates by rating: %w", err)
	}
	return asCandidates(rows), nil
}

func asCandidates(rows []models.Restaurant) []Candidate {
	cands := make([]Candidate, 0, len(rows))
	for _, r := range rows {
		cands = append(cands, Candidate{Restaurant: r})
	}
	return cands
}
