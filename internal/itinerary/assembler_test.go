// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/models"
)

// fakeStore evaluates RestaurantFilter predicates in memory, mirroring the
// SQL semantics of the real store.
type fakeStore struct {
	restaurants []models.Restaurant
	err         error
}

func (f *fakeStore) FindRestaurants(_ context.Context, filter *database.RestaurantFilter) ([]models.Restaurant, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Restaurant
	for _, r := range f.restaurants {
		if !r.IsActive || r.DuplicateOf != nil {
			continue
		}
		if filter.RequireCoordinates && !r.HasCoordinates() {
			continue
		}
		if filter.Box != nil {
			if !r.HasCoordinates() {
				continue
			}
			lat, lon := r.Coordinates()
			if !filter.Box.Contains(lat, lon) {
				continue
			}
		}
		if len(filter.CuisineTerms) > 0 && !matchesAnyTerm(&r, filter.CuisineTerms) {
			continue
		}
		if len(filter.PriceBuckets) > 0 {
			ok := false
			for _, b := range filter.PriceBuckets {
				if r.PriceRange == b {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if filter.MinRating != nil && (r.Rating == nil || *r.Rating < *filter.MinRating) {
			continue
		}
		if filter.MinQualityScore != nil && r.DataQualityScore < *filter.MinQualityScore {
			continue
		}
		if len(filter.Tags) > 0 {
			ok := false
			for _, tag := range filter.Tags {
				if matchesTag(&r, tag) {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}
		if filter.City != "" && !strings.Contains(strings.ToLower(r.City), strings.ToLower(filter.City)) {
			continue
		}
		out = append(out, r)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveCoordinates(context.Context) ([][2]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out [][2]float64
	for _, r := range f.restaurants {
		if r.IsActive && r.DuplicateOf == nil && r.HasCoordinates() {
			lat, lon := r.Coordinates()
			out = append(out, [2]float64{lat, lon})
		}
	}
	return out, nil
}

// eastVillage keeps test fixtures near one real center point.
const (
	evLat = 40.7262
	evLon = -73.9818
)

func italianFixture(n int) []models.Restaurant {
	// Category labels vary so the per-cuisine diversity cap does not
	// collapse the pool; every name still matches the italian synonyms.
	categories := []string{"Italian", "Trattoria", "Ristorante", "Pizza", "Osteria"}
	rs := make([]models.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		rating := 4.2 + 0.03*float64(i%10)
		rs = append(rs, models.Restaurant{
			Name:             fmt.Sprintf("Trattoria %d", i),
			Categories:       []string{categories[i%len(categories)]},
			City:             "New York",
			Latitude:         ptr(evLat + 0.001*float64(i)),
			Longitude:        ptr(evLon + 0.001*float64(i)),
			Rating:           &rating,
			TotalReviews:     30 + i,
			DataQualityScore: 70,
			PriceRange:       []string{"$", "$$", "$$$", "$$$$"}[i%4],
			Photos:           []string{fmt.Sprintf("https://img.example/%d.jpg", i)},
			IsActive:         true,
		})
	}
	return rs
}

func defaultRequest() *Request {
	return &Request{
		Title:        "Italian Food Tour",
		Neighborhood: "East Village",
		CenterLat:    evLat,
		CenterLon:    evLon,
		RadiusKm:     2.0,
		Filters:      Filters{Cuisine: "italian", MinRating: ptr(4.0)},
		MinCount:     4,
		MaxCount:     6,
	}
}

func TestGenerateStrictStage(t *testing.T) {
	store := &fakeStore{restaurants: italianFixture(20)}
	a := NewAssembler(store)

	itin, err := a.Generate(context.Background(), defaultRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n := len(itin.Items); n < 4 || n > 6 {
		t.Errorf("itinerary has %d items, want between 4 and 6", n)
	}
	if itin.Stats.TotalRestaurants != len(itin.Items) {
		t.Errorf("stats total %d != items %d", itin.Stats.TotalRestaurants, len(itin.Items))
	}
	if itin.Stats.EnrichmentPercentage != 100.0 {
		t.Errorf("enrichment = %v, want 100", itin.Stats.EnrichmentPercentage)
	}
	if itin.SampleImageURL == "" {
		t.Error("expected a sample image from candidate photos")
	}
	for _, item := range itin.Items {
		if item.TimeSlot == "" {
			t.Errorf("item %s has no time slot", item.PlaceName)
		}
	}
}

func TestGenerateFullDayScale(t *testing.T) {
	store := &fakeStore{restaurants: italianFixture(20)}
	a := NewAssembler(store)

	req := defaultRequest()
	req.MinCount = 8
	req.MaxCount = 10

	itin, err := a.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if n := len(itin.Items); n < 8 || n > 10 {
		t.Fatalf("itinerary has %d items, want between 8 and 10", n)
	}
	seen := map[string]int{}
	for _, item := range itin.Items {
		seen[item.TimeSlot]++
	}
	for _, slot := range SlotOrder {
		if seen[slot] == 0 {
			t.Errorf("slot %s is empty in a full-day itinerary", slot)
		}
	}
}

func TestGenerateInsufficientCandidates(t *testing.T) {
	store := &fakeStore{restaurants: italianFixture(3)}
	a := NewAssembler(store)

	req := defaultRequest()
	req.MinCount = 8
	req.MaxCount = 10
	// Outside the recognized city box, so no fallback pool exists either.
	req.CenterLat, req.CenterLon = 34.0522, -118.2437
	store2 := &fakeStore{}
	_, err := NewAssembler(store2).Generate(context.Background(), req)
	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientCandidates", err)
	}
	_, err = a.Generate(context.Background(), req)
	if !errors.Is(err, ErrInsufficientCandidates) {
		t.Fatalf("Generate() error = %v, want ErrInsufficientCandidates", err)
	}
}

func TestGenerateCuisineRelaxation(t *testing.T) {
	// Only 2 italian spots nearby, but plenty of others: dropping the
	// cuisine filter must rescue the request.
	rs := italianFixture(2)
	for i := 0; i < 10; i++ {
		rating := 4.5
		rs = append(rs, models.Restaurant{
			Name:      fmt.Sprintf("Noodle Bar %d", i),
			City:      "New York",
			Latitude:  ptr(evLat + 0.0005*float64(i)),
			Longitude: ptr(evLon - 0.0005*float64(i)),
			Rating:    &rating,
			IsActive:  true,
		})
	}
	a := NewAssembler(&fakeStore{restaurants: rs})

	itin, err := a.Generate(context.Background(), defaultRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(itin.Items) < 4 {
		t.Errorf("relaxed generation produced %d items, want at least 4", len(itin.Items))
	}
}

func TestGenerateExcludesDuplicatesAndInactive(t *testing.T) {
	rs := italianFixture(10)
	dup := rs[0].ID
	rs[3].DuplicateOf = &dup
	rs[4].IsActive = false
	a := NewAssembler(&fakeStore{restaurants: rs})

	itin, err := a.Generate(context.Background(), defaultRequest())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, item := range itin.Items {
		if item.PlaceName == "Trattoria 3" || item.PlaceName == "Trattoria 4" {
			t.Errorf("excluded restaurant %s appeared in itinerary", item.PlaceName)
		}
	}
}

func TestGenerateValidation(t *testing.T) {
	a := NewAssembler(&fakeStore{})
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero radius", func(r *Request) { r.RadiusKm = 0 }},
		{"negative radius", func(r *Request) { r.RadiusKm = -1 }},
		{"zero min count", func(r *Request) { r.MinCount = 0 }},
		{"max below min", func(r *Request) { r.MaxCount = r.MinCount - 1 }},
		{"latitude out of range", func(r *Request) { r.CenterLat = 91 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := defaultRequest()
			tt.mutate(req)
			if _, err := a.Generate(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("Generate() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestGenerateStoreError(t *testing.T) {
	a := NewAssembler(&fakeStore{err: errors.New("connection lost")})
	_, err := a.Generate(context.Background(), defaultRequest())
	if err == nil || errors.Is(err, ErrInsufficientCandidates) {
		t.Fatalf("Generate() error = %v, want wrapped store error", err)
	}
}

func TestCityForLocation(t *testing.T) {
	if got := cityForLocation(40.73, -73.99); got != "New York" {
		t.Errorf("Manhattan lookup = %q, want New York", got)
	}
	if got := cityForLocation(34.05, -118.24); got != "" {
		t.Errorf("Los Angeles lookup = %q, want empty", got)
	}
}
