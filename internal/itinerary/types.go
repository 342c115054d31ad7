// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"fmt"

	"github.com/grubroute/grubroute/internal/models"
)

// Time slot labels, in meal order. Itinerary items are emitted in this
// order regardless of the route sequence within each slot.
const (
	SlotMorning   = "morning"
	SlotMidDay    = "mid_day"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"
)

// SlotOrder lists the time slots in presentation order.
var SlotOrder = []string{SlotMorning, SlotMidDay, SlotAfternoon, SlotEvening}

// Filters narrows candidate selection and contributes scoring bonuses.
// All fields are optional; zero values impose no constraint.
type Filters struct {
	// Cuisine is a canonical cuisine label, expanded to synonyms during
	// selection and matched literally for the scoring bonus.
	Cuisine string `json:"cuisine,omitempty"`

	// PriceRange is a user-facing price label such as "$30 and under".
	PriceRange string `json:"price_range,omitempty"`

	// MinRating excludes restaurants rated below the threshold. Unrated
	// restaurants are excluded whenever a threshold is set.
	MinRating *float64 `json:"min_rating,omitempty"`

	// Tags are matched against restaurant tags and features.
	Tags []string `json:"tags,omitempty"`

	// MinQualityScore excludes restaurants below a data quality floor.
	MinQualityScore *float64 `json:"min_quality_score,omitempty"`
}

// Request describes one itinerary generation run.
type Request struct {
	Title        string
	Description  string
	Neighborhood string

	CenterLat float64
	CenterLon float64
	RadiusKm  float64

	Filters Filters

	// MinCount is the smallest acceptable itinerary; fewer surviving
	// candidates yield ErrInsufficientCandidates. MaxCount caps the result.
	MinCount int
	MaxCount int
}

// Validate checks the request contract. Data-quality concerns are not
// validated here; the pipeline absorbs those downstream.
func (r *Request) Validate() error {
	switch {
	case r.RadiusKm <= 0:
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidRequest, r.RadiusKm)
	case r.MinCount < 1:
		return fmt.Errorf("%w: min count must be at least 1, got %d", ErrInvalidRequest, r.MinCount)
	case r.MaxCount < r.MinCount:
		return fmt.Errorf("%w: max count %d below min count %d", ErrInvalidRequest, r.MaxCount, r.MinCount)
	case r.CenterLat < -90 || r.CenterLat > 90:
		return fmt.Errorf("%w: latitude %g out of range", ErrInvalidRequest, r.CenterLat)
	case r.CenterLon < -180 || r.CenterLon > 180:
		return fmt.Errorf("%w: longitude %g out of range", ErrInvalidRequest, r.CenterLon)
	}
	return nil
}

// Candidate pairs a restaurant with its distance from the search center.
// DistanceKm is nil when the restaurant has no coordinates or the selection
// stage applied no geospatial constraint.
type Candidate struct {
	Restaurant models.Restaurant
	DistanceKm *float64
}

// ScoredCandidate carries the composite score assigned by the scoring
// engine. Scores range 0 to 100.
type ScoredCandidate struct {
	Candidate
	Score float64
}
