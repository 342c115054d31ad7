// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/grubroute/grubroute/internal/metrics"
	"github.com/grubroute/grubroute/internal/models"
)

// ErrNotFound indicates the requested restaurant does not exist.
var ErrNotFound = errors.New("restaurant not found")

const restaurantColumns = `id, source, source_id, name, address, street_address,
	city, state, zip_code, country, latitude, longitude, rating, total_reviews,
	data_quality_score, price_range, categories, features, menu_items, photos,
	tags, reviews, description, phone, website, is_active, duplicate_of,
	created_at, updated_at, last_scraped_at`

// UpsertRestaurant inserts a restaurant or, when a record with the same
// (source, source_id) already exists, refreshes its scraped fields. The
// lifecycle flags (is_active, duplicate_of) are deliberately not overwritten
// on conflict: a re-scrape must not resurrect a soft-deleted record or clear
// a duplicate marking.
//
// Returns true when a new row was created, false when an existing row was
// updated.
func (db *DB) UpsertRestaurant(ctx context.Context, r *models.Restaurant) (created bool, err error) {
	defer metrics.ObserveQuery("upsert", "scraped_restaurants", time.Now(), &err)

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	var existing int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scraped_restaurants WHERE source = ? AND source_id = ?`,
		r.Source, r.SourceID).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("upsert lookup failed: %w", err)
	}

	query := `INSERT INTO scraped_restaurants (` + restaurantColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (source, source_id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			street_address = excluded.street_address,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			country = excluded.country,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			rating = excluded.rating,
			total_reviews = excluded.total_reviews,
			data_quality_score = excluded.data_quality_score,
			price_range = excluded.price_range,
			categories = excluded.categories,
			features = excluded.features,
			menu_items = excluded.menu_items,
			photos = excluded.photos,
			tags = excluded.tags,
			reviews = excluded.reviews,
			description = excluded.description,
			phone = excluded.phone,
			website = excluded.website,
			updated_at = excluded.updated_at,
			last_scraped_at = excluded.last_scraped_at`

	_, err = db.conn.ExecContext(ctx, query,
		r.ID, r.Source, r.SourceID, r.Name,
		nullString(r.Address), nullString(r.StreetAddress),
		nullString(r.City), nullString(r.State), nullString(r.ZipCode), nullString(r.Country),
		r.Latitude, r.Longitude, r.Rating, r.TotalReviews, r.DataQualityScore,
		nullString(r.PriceRange),
		marshalList(r.Categories), marshalList(r.Features), marshalList(r.MenuItems),
		marshalList(r.Photos), marshalList(r.Tags), marshalList(r.Reviews),
		nullString(r.Description), nullString(r.Phone), nullString(r.Website),
		r.IsActive, nullUUID(r.DuplicateOf), r.CreatedAt, r.UpdatedAt, r.LastScrapedAt)
	if err != nil {
		return false, fmt.Errorf("upsert failed: %w", err)
	}

	return existing == 0, nil
}

// FindRestaurants returns all restaurants matching the filter. Result
// ordering is not guaranteed; callers re-sort as needed. Zero results is a
// valid outcome, not an error.
func (db *DB) FindRestaurants(ctx context.Context, filter *RestaurantFilter) (_ []models.Restaurant, err error) {
	defer metrics.ObserveQuery("find", "scraped_restaurants", time.Now(), &err)

	where, args := filter.buildConditions()
	query := `SELECT ` + restaurantColumns + ` FROM scraped_restaurants WHERE ` + where
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find query failed: %w", err)
	}
	defer rows.Close()

	var result []models.Restaurant
	for rows.Next() {
		r, scanErr := scanRestaurant(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("find iteration failed: %w", err)
	}
	return result, nil
}

// GetRestaurant fetches a single restaurant by id.
func (db *DB) GetRestaurant(ctx context.Context, id uuid.UUID) (_ *models.Restaurant, err error) {
	defer metrics.ObserveQuery("get", "scraped_restaurants", time.Now(), &err)

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM scraped_restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ActiveCoordinates returns the coordinate pairs of every active,
// non-duplicate restaurant that has coordinates. Feeds grid clustering.
func (db *DB) ActiveCoordinates(ctx context.Context) (_ [][2]float64, err error) {
	defer metrics.ObserveQuery("coordinates", "scraped_restaurants", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT latitude, longitude FROM scraped_restaurants
		 WHERE is_active = true AND duplicate_of IS NULL
		   AND latitude IS NOT NULL AND longitude IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("coordinates query failed: %w", err)
	}
	defer rows.Close()

	var coords [][2]float64
	for rows.Next() {
		var lat, lon float64
		if err = rows.Scan(&lat, &lon); err != nil {
			return nil, fmt.Errorf("coordinates scan failed: %w", err)
		}
		coords = append(coords, [2]float64{lat, lon})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("coordinates iteration failed: %w", err)
	}
	return coords, nil
}

// Deactivate soft-deletes a restaurant. Records are never hard-deleted.
func (db *DB) Deactivate(ctx context.Context, id uuid.UUID) (err error) {
	defer metrics.ObserveQuery("deactivate", "scraped_restaurants", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE scraped_restaurants SET is_active = false, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("deactivate failed: %w", err)
	}
	return requireRowAffected(res)
}

// MarkDuplicate flags a restaurant as a duplicate of the canonical record.
// Duplicates are excluded from every candidate query from then on.
func (db *DB) MarkDuplicate(ctx context.Context, id, canonicalID uuid.UUID) (err error) {
	defer metrics.ObserveQuery("mark_duplicate", "scraped_restaurants", time.Now(), &err)

	if id == canonicalID {
		return fmt.Errorf("restaurant cannot be a duplicate of itself")
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE scraped_restaurants SET duplicate_of = ?, updated_at = ? WHERE id = ?`,
		canonicalID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark duplicate failed: %w", err)
	}
	return requireRowAffected(res)
}

// ClampInvalidRatings nulls out ratings outside [0, 5]. Scrapers occasionally
// deliver percentage-scale or negative values; a null rating scores zero
// rather than poisoning averages. Returns the number of repaired rows.
func (db *DB) ClampInvalidRatings(ctx context.Context) (_ int64, err error) {
	defer metrics.ObserveQuery("clamp_ratings", "scraped_restaurants", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE scraped_restaurants SET rating = NULL, updated_at = ?
		 WHERE rating IS NOT NULL AND (rating < 0 OR rating > 5)`,
		time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("rating repair failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rating repair rows: %w", err)
	}
	return n, nil
}

// CountRestaurants returns the number of active, non-duplicate restaurants.
func (db *DB) CountRestaurants(ctx context.Context) (_ int64, err error) {
	defer metrics.ObserveQuery("count", "scraped_restaurants", time.Now(), &err)

	var n int64
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scraped_restaurants
		 WHERE is_active = true AND duplicate_of IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRestaurant.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRestaurant decodes one row into a Restaurant, unmarshaling the JSON
// list columns and mapping SQL NULLs onto the model's optional fields.
func scanRestaurant(row rowScanner) (models.Restaurant, error) {
	var (
		r models.Restaurant

		address, streetAddress, city, state, zipCode, country sql.NullString
		priceRange, description, phone, website               sql.NullString
		categories, features, menuItems, photos, tags, revs   sql.NullString
		latitude, longitude, rating                           sql.NullFloat64
		duplicateOf                                           uuid.NullUUID
		lastScrapedAt                                         sql.NullTime
	)

	err := row.Scan(&r.ID, &r.Source, &r.SourceID, &r.Name,
		&address, &streetAddress, &city, &state, &zipCode, &country,
		&latitude, &longitude, &rating, &r.TotalReviews, &r.DataQualityScore,
		&priceRange, &categories, &features, &menuItems, &photos, &tags, &revs,
		&description, &phone, &website, &r.IsActive, &duplicateOf,
		&r.CreatedAt, &r.UpdatedAt, &lastScrapedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("restaurant scan failed: %w", err)
	}

	r.Address = address.String
	r.StreetAddress = streetAddress.String
	r.City = city.String
	r.State = state.String
	r.ZipCode = zipCode.String
	r.Country = country.String
	r.PriceRange = priceRange.String
	r.Description = description.String
	r.Phone = phone.String
	r.Website = website.String

	if latitude.Valid {
		r.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		r.Longitude = &longitude.Float64
	}
	if rating.Valid {
		r.Rating = &rating.Float64
	}
	if duplicateOf.Valid {
		dup := duplicateOf.UUID
		r.DuplicateOf = &dup
	}
	if lastScrapedAt.Valid {
		r.LastScrapedAt = &lastScrapedAt.Time
	}

	r.Categories = unmarshalList(categories)
	r.Features = unmarshalList(features)
	r.MenuItems = unmarshalList(menuItems)
	r.Photos = unmarshalList(photos)
	r.Tags = unmarshalList(tags)
	r.Reviews = unmarshalList(revs)

	return r, nil
}

// marshalList encodes a string list as JSON for storage. Empty lists store
// as NULL so list filters can rely on ILIKE against real content only.
func marshalList(values []string) any {
	if len(values) == 0 {
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		// Lists of strings cannot fail to marshal; guard anyway.
		return nil
	}
	return string(data)
}

// unmarshalList decodes a stored JSON list. Malformed or NULL content decodes
// to nil rather than failing the whole scan.
func unmarshalList(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(col.String), &values); err != nil {
		return nil
	}
	return values
}

// nullString maps "" onto SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullUUID maps a nil pointer onto SQL NULL.
func nullUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

// requireRowAffected converts a zero-row update into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
