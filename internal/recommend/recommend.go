// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package recommend implements content-based restaurant recommendations.
//
// Restaurants and user profiles are projected into a shared feature space
// built from three groups: venue style, price band, and amenity features.
// Ranking is cosine similarity between the normalized profile vector and
// each restaurant's one-hot vector. The space is rebuilt from the candidate
// corpus on every call, so new feature values need no migration step.
package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/geo"
	"github.com/grubroute/grubroute/internal/models"
)

// Venue styles, the coarse dining-experience axis of the feature space.
const (
	StyleCafe   = "cafe"
	StyleFine   = "fine"
	StyleCasual = "casual"
)

// DataProvider is the restaurant access the recommender needs.
type DataProvider interface {
	FindRestaurants(ctx context.Context, filter *database.RestaurantFilter) ([]models.Restaurant, error)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

// Recommender ranks restaurants by similarity to a preference profile.
type Recommender struct {
	store DataProvider
}

// New returns a Recommender reading from the store.
func New(store DataProvider) *Recommender {
	return &Recommender{store: store}
}

// Profile holds preference weights per feature group. Weights are
// frequencies from visit history; they are normalized at vectorization.
type Profile struct {
	Styles   map[string]float64
	Prices   map[string]float64
	Features map[string]float64
}

// NewProfile builds a profile from visit history. An empty history falls
// back to balanced mid-range defaults so cold-start users still get
// reasonable ranking.
func NewProfile(visited []models.Restaurant) *Profile {
	p := &Profile{
		Styles:   map[string]float64{},
		Prices:   map[string]float64{},
		Features: map[string]float64{},
	}
	for i := range visited {
		r := &visited[i]
		p.Styles[venueStyle(r)]++
		if r.PriceRange != "" {
			p.Prices[r.PriceRange]++
		}
		for _, f := range r.Features {
			p.Features[normalizeFeature(f)]++
		}
	}

	if len(p.Styles) == 0 {
		p.Styles = map[string]float64{StyleCasual: 1, StyleFine: 1}
	}
	if len(p.Prices) == 0 {
		p.Prices = map[string]float64{models.PriceModerate: 2, models.PriceUpper: 1}
	}
	if len(p.Features) == 0 {
		p.Features = map[string]float64{"outdoor seating": 1, "takeout": 1}
	}
	return p
}

// Scored pairs a restaurant with its similarity to the profile.
type Scored struct {
	Restaurant models.Restaurant `json:"restaurant"`
	Similarity float64           `json:"similarity"`
}

// Nearby recommends up to n restaurants within radiusKm of the point,
// ranked by similarity to the profile. Restaurants whose vectors are empty
// in the shared space are skipped.
func (rec *Recommender) Nearby(ctx context.Context, profile *Profile, lat, lon, radiusKm float64, n int) ([]Scored, error) {
	box := geo.NewBoundingBox(lat, lon, radiusKm)
	rows, err := rec.store.FindRestaurants(ctx, &database.RestaurantFilter{
		RequireCoordinates: true,
		Box:                &box,
	})
	if err != nil {
		return nil, fmt.Errorf("recommend nearby: %w", err)
	}

	pool := rows[:0]
	for _, r := range rows {
		rLat, rLon := r.Coordinates()
		if geo.DistanceKm(lat, lon, rLat, rLon) <= radiusKm {
			pool = append(pool, r)
		}
	}
	return rankByProfile(pool, profile, n), nil
}

// SimilarTo recommends up to n restaurants most similar to the given one.
func (rec *Recommender) SimilarTo(ctx context.Context, id uuid.UUID, n int) ([]Scored, error) {
	source, err := rec.store.GetRestaurant(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recommend similar: %w", err)
	}
	pool, err := rec.store.FindRestaurants(ctx, &database.RestaurantFilter{})
	if err != nil {
		return nil, fmt.Errorf("recommend similar: %w", err)
	}

	corpus := append([]models.Restaurant{*source}, pool...)
	space := buildSpace(corpus)
	sourceVec := space.restaurantVector(source)
	if vectorSum(sourceVec) == 0 {
		return nil, nil
	}

	scored := make([]Scored, 0, len(pool))
	for i := range pool {
		if pool[i].ID == id {
			continue
		}
		vec := space.restaurantVector(&pool[i])
		if vectorSum(vec) == 0 {
			continue
		}
		scored = append(scored, Scored{
			Restaurant: pool[i],
			Similarity: cosineSimilarity(sourceVec, vec),
		})
	}
	return topN(scored, n), nil
}

func rankByProfile(pool []models.Restaurant, profile *Profile, n int) []Scored {
	if len(pool) == 0 {
		return nil
	}
	space := buildSpace(pool)
	userVec := space.profileVector(profile)

	scored := make([]Scored, 0, len(pool))
	for i := range pool {
		vec := space.restaurantVector(&pool[i])
		if vectorSum(vec) == 0 {
			continue
		}
		scored = append(scored, Scored{
			Restaurant: pool[i],
			Similarity: cosineSimilarity(userVec, vec),
		})
	}
	return topN(scored, n)
}

func topN(scored []Scored, n int) []Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// featureSpace maps feature-group values to vector positions. Columns are
// sorted within each group so vectors are deterministic for a given corpus.
type featureSpace struct {
	styleIdx   map[string]int
	priceIdx   map[string]int
	featureIdx map[string]int
	size       int
}

func buildSpace(corpus []models.Restaurant) *featureSpace {
	styles := map[string]bool{}
	prices := map[string]bool{}
	features := map[string]bool{}
	for i := range corpus {
		r := &corpus[i]
		styles[venueStyle(r)] = true
		if r.PriceRange != "" {
			prices[r.PriceRange] = true
		}
		for _, f := range r.Features {
			features[normalizeFeature(f)] = true
		}
	}

	s := &featureSpace{
		styleIdx:   map[string]int{},
		priceIdx:   map[string]int{},
		featureIdx: map[string]int{},
	}
	for _, v := range sortedKeys(styles) {
		s.styleIdx[v] = s.size
		s.size++
	}
	for _, v := range sortedKeys(prices) {
		s.priceIdx[v] = s.size
		s.size++
	}
	for _, v := range sortedKeys(features) {
		s.featureIdx[v] = s.size
		s.size++
	}
	return s
}

func (s *featureSpace) restaurantVector(r *models.Restaurant) []float64 {
	vec := make([]float64, s.size)
	if i, ok := s.styleIdx[venueStyle(r)]; ok {
		vec[i] = 1
	}
	if i, ok := s.priceIdx[r.PriceRange]; ok {
		vec[i] = 1
	}
	for _, f := range r.Features {
		if i, ok := s.featureIdx[normalizeFeature(f)]; ok {
			vec[i] = 1
		}
	}
	return vec
}

func (s *featureSpace) profileVector(p *Profile) []float64 {
	vec := make([]float64, s.size)
	for v, w := range p.Styles {
		if i, ok := s.styleIdx[v]; ok {
			vec[i] = w
		}
	}
	for v, w := range p.Prices {
		if i, ok := s.priceIdx[v]; ok {
			vec[i] = w
		}
	}
	for v, w := range p.Features {
		if i, ok := s.featureIdx[v]; ok {
			vec[i] = w
		}
	}
	if sum := vectorSum(vec); sum > 0 {
		for i := range vec {
			vec[i] /= sum
		}
	}
	return vec
}

// venueStyle buckets a restaurant on the dining-experience axis, using the
// same signals as time-slot classification.
func venueStyle(r *models.Restaurant) string {
	name := strings.ToLower(r.Name)
	for _, c := range r.Categories {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "cafe") || strings.Contains(lc, "bakery") || strings.Contains(lc, "brunch") {
			return StyleCafe
		}
	}
	if strings.Contains(name, "cafe") || strings.Contains(name, "bakery") || strings.Contains(name, "brunch") {
		return StyleCafe
	}
	if r.PriceRange == models.PriceExpensive || r.PriceRange == models.PriceLuxury {
		return StyleFine
	}
	for _, c := range r.Categories {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "fine") || strings.Contains(lc, "upscale") {
			return StyleFine
		}
	}
	return StyleCasual
}

func normalizeFeature(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func vectorSum(vec []float64) float64 {
	sum := 0.0
	for _, v := range vec {
		sum += v
	}
	return sum
}

// cosineSimilarity returns the cosine of the angle between two equal-length
// vectors, or 0 when either has zero magnitude.
func cosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
