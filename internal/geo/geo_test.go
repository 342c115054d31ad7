// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package geo

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{
			name: "same point",
			lat1: 40.7262, lon1: -73.9818,
			lat2: 40.7262, lon2: -73.9818,
			want: 0, tolerance: 1e-9,
		},
		{
			name: "east village to soho",
			lat1: 40.7262, lon1: -73.9818,
			lat2: 40.7233, lon2: -74.0030,
			want: 1.82, tolerance: 0.05,
		},
		{
			name: "new york to los angeles",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			want: 3936, tolerance: 10,
		},
		{
			name: "crossing the antimeridian",
			lat1: 0, lon1: 179.5,
			lat2: 0, lon2: -179.5,
			want: 111.2, tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("DistanceKm() = %.3f, want %.3f (±%.3f)", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	ab := DistanceKm(40.7262, -73.9818, 40.7484, -73.9857)
	ba := DistanceKm(40.7484, -73.9857, 40.7262, -73.9818)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestNewBoundingBoxContainsRadius(t *testing.T) {
	const lat, lon, radius = 40.7262, -73.9818, 2.0
	box := NewBoundingBox(lat, lon, radius)

	// Points at radius distance along each axis must fall inside the box.
	points := [][2]float64{
		{lat + radius/111.0*0.99, lon},
		{lat - radius/111.0*0.99, lon},
		{lat, lon + radius/(111.0*math.Cos(lat*math.Pi/180))*0.99},
		{lat, lon - radius/(111.0*math.Cos(lat*math.Pi/180))*0.99},
	}
	for _, p := range points {
		if !box.Contains(p[0], p[1]) {
			t.Errorf("box %+v should contain (%v, %v)", box, p[0], p[1])
		}
		if d := DistanceKm(lat, lon, p[0], p[1]); d > radius {
			t.Errorf("test point (%v, %v) is %.3f km out, expected within %v km", p[0], p[1], d, radius)
		}
	}

	if box.Contains(lat+1, lon) || box.Contains(lat, lon+1) {
		t.Error("box should not contain points a full degree away")
	}
}

func TestBoundingBoxWidensWithLatitude(t *testing.T) {
	equator := NewBoundingBox(0, 0, 2.0)
	north := NewBoundingBox(60, 0, 2.0)

	eqWidth := equator.MaxLon - equator.MinLon
	noWidth := north.MaxLon - north.MinLon
	if noWidth <= eqWidth {
		t.Errorf("longitude delta at 60N (%v) should exceed equator delta (%v)", noWidth, eqWidth)
	}
}
