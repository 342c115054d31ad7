// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package database

import (
	"fmt"
	"strings"

	"github.com/grubroute/grubroute/internal/geo"
)

// RestaurantFilter contains the predicate parameters for restaurant queries.
//
// All fields are optional and combine with AND logic; multi-value fields
// (CuisineTerms, PriceBuckets, Tags) use OR logic within the field. Every
// query always excludes inactive records and records marked as duplicates.
//
// The bounding box is a coarse prefilter only: callers needing exact radius
// semantics must re-check each row with geo.DistanceKm.
type RestaurantFilter struct {
	// RequireCoordinates restricts results to rows with both latitude and
	// longitude present.
	RequireCoordinates bool

	// Box restricts results to a coordinate bounding box. Rows without
	// coordinates never match the box, so combining a Box with
	// RequireCoordinates=false only makes sense when City is also set —
	// which is why the selector drops the box in its city-matching stage.
	Box *geo.BoundingBox

	// CuisineTerms are substring-matched (case-insensitive) against name,
	// description, and categories. Callers expand a cuisine through the
	// synonym table before building the filter.
	CuisineTerms []string

	// PriceBuckets matches price_range against the given symbols exactly.
	PriceBuckets []string

	// MinRating keeps rows with rating >= the floor. NULL ratings never match.
	MinRating *float64

	// MinQualityScore keeps rows with data_quality_score >= the floor.
	MinQualityScore *float64

	// Tags are substring-matched (case-insensitive) against tags and
	// features, any-of semantics.
	Tags []string

	// City substring-matches (case-insensitive) the city column.
	City string

	// Limit caps the result set. 0 means no limit.
	Limit int
}

// buildConditions renders the filter into a WHERE clause (without the
// leading WHERE) and its ordered arguments.
func (f *RestaurantFilter) buildConditions() (string, []any) {
	conds := []string{"is_active = true", "duplicate_of IS NULL"}
	var args []any

	if f.RequireCoordinates {
		conds = append(conds, "latitude IS NOT NULL", "longitude IS NOT NULL")
	}

	if f.Box != nil {
		conds = append(conds,
			"latitude >= ?", "latitude <= ?",
			"longitude >= ?", "longitude <= ?")
		args = append(args, f.Box.MinLat, f.Box.MaxLat, f.Box.MinLon, f.Box.MaxLon)
	}

	if len(f.CuisineTerms) > 0 {
		group := make([]string, 0, len(f.CuisineTerms))
		for _, term := range f.CuisineTerms {
			group = append(group,
				"(name ILIKE ? OR description ILIKE ? OR categories ILIKE ?)")
			pattern := "%" + term + "%"
			args = append(args, pattern, pattern, pattern)
		}
		conds = append(conds, "("+strings.Join(group, " OR ")+")")
	}

	if len(f.PriceBuckets) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.PriceBuckets)), ", ")
		conds = append(conds, fmt.Sprintf("price_range IN (%s)", placeholders))
		for _, bucket := range f.PriceBuckets {
			args = append(args, bucket)
		}
	}

	if f.MinRating != nil {
		conds = append(conds, "rating >= ?")
		args = append(args, *f.MinRating)
	}

	if f.MinQualityScore != nil {
		conds = append(conds, "data_quality_score >= ?")
		args = append(args, *f.MinQualityScore)
	}

	if len(f.Tags) > 0 {
		group := make([]string, 0, len(f.Tags))
		for _, tag := range f.Tags {
			group = append(group, "(tags ILIKE ? OR features ILIKE ?)")
			pattern := "%" + tag + "%"
			args = append(args, pattern, pattern)
		}
		conds = append(conds, "("+strings.Join(group, " OR ")+")")
	}

	if f.City != "" {
		conds = append(conds, "city ILIKE ?")
		args = append(args, "%"+f.City+"%")
	}

	return strings.Join(conds, " AND "), args
}
