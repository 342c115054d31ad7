// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ItineraryDetails carries the descriptive payload attached to each stop so
// the mobile client can render a stop without a second lookup.
type ItineraryDetails struct {
	MenuItems  []string `json:"menu_items"`
	Reviews    []string `json:"reviews"`
	Tags       []string `json:"tags"`
	Features   []string `json:"features"`
	Photos     []string `json:"photos"`
	About      string   `json:"about"`
	PriceRange string   `json:"price_range"`
	Categories []string `json:"categories"`
	Phone      string   `json:"phone"`
	Website    string   `json:"website"`
}

// EnrichmentMeta summarizes which descriptive fields a stop actually has.
type EnrichmentMeta struct {
	HasMenu          bool    `json:"has_menu"`
	HasReviews       bool    `json:"has_reviews"`
	HasTags          bool    `json:"has_tags"`
	DataQualityScore float64 `json:"data_quality_score"`
}

// ItineraryItem is one stop on a generated itinerary.
type ItineraryItem struct {
	PlaceName  string           `json:"place_name"`
	Address    string           `json:"address"`
	Latitude   *float64         `json:"latitude"`
	Longitude  *float64         `json:"longitude"`
	Rating     float64          `json:"rating"`
	PriceRange string           `json:"price_range"`
	TimeSlot   string           `json:"time_slot"`
	IsEnriched bool             `json:"is_enriched"`
	Details    ItineraryDetails `json:"details"`
	Enrichment EnrichmentMeta   `json:"enrichment_metadata"`
}

// ItineraryStats holds the aggregate statistics computed at assembly time.
type ItineraryStats struct {
	TotalRestaurants     int     `json:"total_restaurants"`
	EnrichedCount        int     `json:"enriched_count"`
	EnrichmentPercentage float64 `json:"enrichment_percentage"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	AvgDistanceBetween   float64 `json:"avg_distance_between"`
	AvgRating            float64 `json:"avg_rating"`
}

// Itinerary is a curated day-long restaurant visit plan. It is produced by
// the itinerary engine and persisted to the itinerary store, keyed by
// (cuisine, price range, neighborhood, center coordinates) so regenerating
// the same combination overwrites the prior record.
type Itinerary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`

	// Generation key fields.
	Cuisine      string  `json:"cuisine"`
	PriceRange   string  `json:"price_range"`
	Neighborhood string  `json:"neighborhood"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusKm     float64 `json:"radius_km"`

	MinRating float64  `json:"min_rating"`
	Tags      []string `json:"tags,omitempty"`

	Items []ItineraryItem `json:"itinerary"`
	Stats ItineraryStats  `json:"stats"`

	IsFeatured     bool   `json:"is_featured"`
	SampleImageURL string `json:"sample_image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the idempotent-upsert key for this itinerary. Two generation
// runs for the same center/filter combination map to the same key and the
// later run overwrites the earlier record.
func (i *Itinerary) Key() string {
	return ItineraryKey(i.Cuisine, i.PriceRange, i.Neighborhood, i.Latitude, i.Longitude)
}

// ItineraryKey builds the store key for a center/filter combination.
// Coordinates are fixed to 6 decimal places (~0.1 m) so float formatting
// noise cannot split one combination into two keys.
func ItineraryKey(cuisine, priceRange, neighborhood string, lat, lon float64) string {
	return fmt.Sprintf("%s|%s|%s|%.6f|%.6f", cuisine, priceRange, neighborhood, lat, lon)
}
