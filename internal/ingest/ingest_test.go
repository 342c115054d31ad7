// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/database"
)

func TestParseRecordAliases(t *testing.T) {
	raw := map[string]any{
		"place_id":      "abc123",
		"place_name":    "Luigi's",
		"lat":           "40.7262",
		"lng":           -73.9818,
		"avg_rating":    "4.5",
		"review_count":  "120",
		"price_level":   "$$",
		"cuisine":       "Italian",
		"phone_number":  "212-555-0100",
		"working_hours": map[string]any{"mon": "9-5"},
	}
	r := ParseRecord(raw, "opentable", 1)

	if r.SourceID != "abc123" {
		t.Errorf("SourceID = %q, want abc123", r.SourceID)
	}
	if r.Name != "Luigi's" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Latitude == nil || *r.Latitude != 40.7262 {
		t.Errorf("Latitude = %v, want 40.7262 coerced from string", r.Latitude)
	}
	if r.Longitude == nil || *r.Longitude != -73.9818 {
		t.Errorf("Longitude = %v", r.Longitude)
	}
	if r.Rating == nil || *r.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5 coerced from string", r.Rating)
	}
	if r.TotalReviews != 120 {
		t.Errorf("TotalReviews = %d, want 120", r.TotalReviews)
	}
	if r.PriceRange != "$$" {
		t.Errorf("PriceRange = %q", r.PriceRange)
	}
	if len(r.Categories) != 1 || r.Categories[0] != "Italian" {
		t.Errorf("Categories = %v, want cuisine fallback", r.Categories)
	}
	if r.Phone != "212-555-0100" {
		t.Errorf("Phone = %q", r.Phone)
	}
	if !r.IsActive {
		t.Error("imported records must start active")
	}
}

func TestParseRecordFallbacks(t *testing.T) {
	r := ParseRecord(map[string]any{}, "yelp", 7)
	if r.SourceID != "yelp_7" {
		t.Errorf("SourceID = %q, want positional fallback yelp_7", r.SourceID)
	}
	if r.Name != "Unknown Restaurant" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Country != "USA" {
		t.Errorf("Country = %q, want USA default", r.Country)
	}
	if r.Latitude != nil || r.Rating != nil {
		t.Error("absent numerics must stay nil")
	}
}

func TestParseRecordMalformedNumbers(t *testing.T) {
	raw := map[string]any{
		"name":          "Bad Numbers",
		"latitude":      "not-a-number",
		"rating":        "??",
		"total_reviews": "many",
	}
	r := ParseRecord(raw, "google", 1)
	if r.Latitude != nil {
		t.Errorf("Latitude = %v, want nil for malformed input", r.Latitude)
	}
	if r.Rating != nil {
		t.Errorf("Rating = %v, want nil", r.Rating)
	}
	if r.TotalReviews != 0 {
		t.Errorf("TotalReviews = %d, want 0", r.TotalReviews)
	}
}

func TestParseRecordAddressFallback(t *testing.T) {
	raw := map[string]any{
		"name":    "Beekman Spot",
		"address": "5 Beekman Street, New York, NY 10038",
	}
	r := ParseRecord(raw, "google", 1)
	if r.City != "New York" || r.State != "NY" || r.ZipCode != "10038" {
		t.Errorf("parsed address = %q/%q/%q", r.City, r.State, r.ZipCode)
	}
	if r.StreetAddress != "5 Beekman Street" {
		t.Errorf("StreetAddress = %q", r.StreetAddress)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    ParsedAddress
		ok      bool
	}{
		{
			"full address with zip",
			"5 Beekman Street, New York, NY 10038",
			ParsedAddress{Street: "5 Beekman Street", City: "New York", State: "NY", ZipCode: "10038"},
			true,
		},
		{
			"no zip",
			"12 Main St, Brooklyn, NY",
			ParsedAddress{Street: "12 Main St", City: "Brooklyn", State: "NY"},
			true,
		},
		{"no state tail", "Somewhere nice", ParsedAddress{}, false},
		{"lowercase state rejected", "1 Road, Town, ny 10001", ParsedAddress{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAddress(tt.address)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseAddress() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQualityScoreOrdering(t *testing.T) {
	sparse := ParseRecord(map[string]any{"name": "Sparse"}, "other", 1)
	rich := ParseRecord(map[string]any{
		"name": "Rich", "latitude": 40.7, "longitude": -74.0,
		"rating": 4.5, "review_count": 10, "price_range": "$$",
		"categories": []any{"Italian"}, "description": "nice",
		"photos": []any{"a.jpg"}, "menu_items": []any{"pasta"},
		"phone": "555",
	}, "other", 2)
	if sparse.DataQualityScore >= rich.DataQualityScore {
		t.Errorf("sparse %v >= rich %v", sparse.DataQualityScore, rich.DataQualityScore)
	}
	if rich.DataQualityScore > 100 {
		t.Errorf("quality score %v above 100", rich.DataQualityScore)
	}
}

func TestValidSource(t *testing.T) {
	for _, s := range KnownSources {
		if !ValidSource(s) {
			t.Errorf("ValidSource(%q) = false", s)
		}
	}
	if ValidSource("scraperx") {
		t.Error("unknown source accepted")
	}
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

const importPayload = `[
	{"place_id": "r1", "name": "Luigi's", "latitude": 40.7262, "longitude": -73.9818, "rating": 4.5},
	{"place_id": "r2", "name": "Chez Anna", "address": "9 Grove St, New York, NY 10014"},
	{"name": "No ID Diner"}
]`

func TestImport(t *testing.T) {
	db := newTestDB(t)
	im := New(db, &config.IngestConfig{RatePerSecond: 0})

	stats, err := im.Import(context.Background(), strings.NewReader(importPayload), "google", false)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Created != 3 || stats.Errors != 0 {
		t.Fatalf("stats = %+v, want 3 created", stats)
	}

	// Re-importing the same payload updates in place.
	stats, err = im.Import(context.Background(), strings.NewReader(importPayload), "google", false)
	if err != nil {
		t.Fatalf("second Import() error = %v", err)
	}
	if stats.Updated != 3 || stats.Created != 0 {
		t.Errorf("second import stats = %+v, want 3 updated", stats)
	}

	n, err := db.CountRestaurants(context.Background())
	if err != nil {
		t.Fatalf("CountRestaurants() error = %v", err)
	}
	if n != 3 {
		t.Errorf("stored %d restaurants, want 3", n)
	}
}

func TestImportDryRun(t *testing.T) {
	db := newTestDB(t)
	im := New(db, &config.IngestConfig{RatePerSecond: 0})

	stats, err := im.Import(context.Background(), strings.NewReader(importPayload), "google", true)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if stats.Total != 3 || stats.Created != 0 {
		t.Errorf("dry-run stats = %+v", stats)
	}
	n, err := db.CountRestaurants(context.Background())
	if err != nil {
		t.Fatalf("CountRestaurants() error = %v", err)
	}
	if n != 0 {
		t.Errorf("dry run wrote %d rows", n)
	}
}

func TestImportRejectsUnknownSource(t *testing.T) {
	db := newTestDB(t)
	im := New(db, &config.IngestConfig{})
	if _, err := im.Import(context.Background(), strings.NewReader("[]"), "scraperx", false); err == nil {
		t.Error("unknown source should be rejected")
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	db := newTestDB(t)
	im := New(db, &config.IngestConfig{})
	if _, err := im.Import(context.Background(), strings.NewReader(`{"name": "x"}`), "google", false); err == nil {
		t.Error("non-array payload should be rejected")
	}
}
