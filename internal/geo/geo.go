// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package geo provides great-circle distance math shared by candidate
// selection, route optimization, and clustering.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the spherical approximation.
const EarthRadiusKm = 6371.0

// degPerKmLat approximates how many kilometers one degree of latitude spans.
const degPerKmLat = 111.0

// DistanceKm returns the great-circle distance in kilometers between two
// coordinate pairs, computed with the haversine formula on a spherical Earth.
//
// The function is pure and never fails; NaN inputs propagate to the result.
// Callers are responsible for validating coordinate ranges (latitude in
// [-90, 90], longitude in [-180, 180]).
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

// BoundingBox is a coarse rectangular prefilter around a center point.
// It is strictly a performance optimization: every candidate inside the box
// must still pass an exact DistanceKm check.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NewBoundingBox returns the box enclosing a radius around (lat, lon).
// Longitude degrees shrink with latitude, so the delta widens by
// 1/cos(lat); at the poles the box degenerates and callers should expect
// the exact-radius pass to do all the work.
func NewBoundingBox(lat, lon, radiusKm float64) BoundingBox {
	latDelta := radiusKm / degPerKmLat
	lonDelta := radiusKm / (degPerKmLat * math.Cos(lat*math.Pi/180))
	if lonDelta < 0 {
		lonDelta = -lonDelta
	}
	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}
