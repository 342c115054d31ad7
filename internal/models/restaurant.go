// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package models defines the data types shared between the restaurant store,
// the itinerary engine, and the HTTP layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Price bucket symbols stored on restaurant records. A restaurant with an
// empty PriceRange has no known price bucket.
const (
	PriceCheap     = "$"
	PriceModerate  = "$$"
	PriceUpper     = "$$$"
	PriceExpensive = "$$$$"
	PriceLuxury    = "$$$$$"
)

// Restaurant is a scraped restaurant record. It is owned by the restaurant
// store and read-only to the itinerary engine.
//
// Scraped data is inherently patchy: coordinates, rating, and every
// descriptive list may be absent. Nothing in this struct may be assumed
// present — optional scalars are pointers and optional lists default to nil,
// which all consumers treat as empty.
type Restaurant struct {
	ID uuid.UUID `json:"id"`

	// Identity: unique per (Source, SourceID).
	Source   string `json:"source"`
	SourceID string `json:"source_id"`

	Name          string `json:"name"`
	Address       string `json:"address"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
	Country       string `json:"country,omitempty"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Quality signals.
	Rating           *float64 `json:"rating"`
	TotalReviews     int      `json:"total_reviews"`
	DataQualityScore float64  `json:"data_quality_score"`

	// Descriptive attributes. All free text, all optional.
	PriceRange  string   `json:"price_range,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Features    []string `json:"features,omitempty"`
	MenuItems   []string `json:"menu_items,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Reviews     []string `json:"reviews,omitempty"`
	Description string   `json:"description,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`

	// Lifecycle. Records are never hard-deleted; scrape refreshes flip
	// IsActive and re-scrapes mutate the quality fields. DuplicateOf points
	// at the canonical record when this one was detected as a duplicate.
	IsActive    bool       `json:"is_active"`
	DuplicateOf *uuid.UUID `json:"duplicate_of,omitempty"`

	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (r *Restaurant) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Coordinates returns the coordinate pair. Only valid when HasCoordinates
// is true.
func (r *Restaurant) Coordinates() (lat, lon float64) {
	return *r.Latitude, *r.Longitude
}

// RatingOrZero returns the rating, or 0 when absent.
func (r *Restaurant) RatingOrZero() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}
