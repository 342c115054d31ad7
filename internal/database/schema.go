// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package database

import "fmt"

// createSchema creates the scraped_restaurants table and its indexes.
// All columns are defined up front; list-valued attributes (categories,
// features, menu items, photos, tags, reviews) are stored as JSON text and
// decoded at scan time.
func (db *DB) createSchema() error {
	ctx, cancel := queryContext()
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS scraped_restaurants (
			id UUID PRIMARY KEY,
			source VARCHAR NOT NULL,
			source_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			address VARCHAR,
			street_address VARCHAR,
			city VARCHAR,
			state VARCHAR,
			zip_code VARCHAR,
			country VARCHAR,
			latitude DOUBLE,
			longitude DOUBLE,
			rating DOUBLE,
			total_reviews INTEGER NOT NULL DEFAULT 0,
			data_quality_score DOUBLE NOT NULL DEFAULT 0,
			price_range VARCHAR,
			categories VARCHAR,
			features VARCHAR,
			menu_items VARCHAR,
			photos VARCHAR,
			tags VARCHAR,
			reviews VARCHAR,
			description VARCHAR,
			phone VARCHAR,
			website VARCHAR,
			is_active BOOLEAN NOT NULL DEFAULT true,
			duplicate_of UUID,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			last_scraped_at TIMESTAMP,
			UNIQUE (source, source_id)
		)`,
		// Bounding-box prefilters hit (latitude, longitude) constantly.
		`CREATE INDEX IF NOT EXISTS idx_restaurants_coords
			ON scraped_restaurants (latitude, longitude)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_active
			ON scraped_restaurants (is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_rating
			ON scraped_restaurants (rating)`,
		`CREATE INDEX IF NOT EXISTS idx_restaurants_city
			ON scraped_restaurants (city)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
