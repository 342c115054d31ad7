// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"testing"

	"github.com/grubroute/grubroute/internal/models"
)

func placed(name string, lat, lon float64) ScoredCandidate {
	return ScoredCandidate{Candidate: Candidate{Restaurant: models.Restaurant{
		Name:      name,
		Latitude:  ptr(lat),
		Longitude: ptr(lon),
	}}}
}

func routeNames(route []ScoredCandidate) []string {
	names := make([]string, 0, len(route))
	for _, sc := range route {
		names = append(names, sc.Restaurant.Name)
	}
	return names
}

func TestOptimizeRouteNearestFirst(t *testing.T) {
	// Center at origin; B is nearest, then A, then C walking outward.
	cands := []ScoredCandidate{
		placed("A", 40.7100, -74.0000),
		placed("B", 40.7010, -74.0000),
		placed("C", 40.7200, -74.0000),
	}
	route := OptimizeRoute(cands, 40.7000, -74.0000)
	got := routeNames(route)
	want := []string{"B", "A", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("route = %v, want %v", got, want)
		}
	}
}

func TestOptimizeRouteFallbackBeyondHopCap(t *testing.T) {
	// Both stops beyond the 1km hop cap; the globally nearest must still win.
	cands := []ScoredCandidate{
		placed("Far", 40.9000, -74.0000),
		placed("Near", 40.7500, -74.0000),
	}
	route := OptimizeRoute(cands, 40.7000, -74.0000)
	if route[0].Restaurant.Name != "Near" {
		t.Errorf("first stop = %s, want Near", route[0].Restaurant.Name)
	}
	if len(route) != 2 {
		t.Errorf("route lost stops: %v", routeNames(route))
	}
}

func TestOptimizeRouteNoDuplicatesNoLoss(t *testing.T) {
	cands := []ScoredCandidate{
		placed("A", 40.701, -74.001),
		placed("B", 40.702, -74.002),
		placed("C", 40.703, -74.003),
		placed("D", 40.704, -74.004),
	}
	route := OptimizeRoute(cands, 40.700, -74.000)
	if len(route) != len(cands) {
		t.Fatalf("route has %d stops, want %d", len(route), len(cands))
	}
	seen := map[string]bool{}
	for _, sc := range route {
		if seen[sc.Restaurant.Name] {
			t.Fatalf("duplicate stop %s", sc.Restaurant.Name)
		}
		seen[sc.Restaurant.Name] = true
	}
}

func TestOptimizeRouteDropsCoordinateless(t *testing.T) {
	cands := []ScoredCandidate{
		placed("A", 40.701, -74.000),
		{Candidate: Candidate{Restaurant: models.Restaurant{Name: "NoCoords"}}},
	}
	route := OptimizeRoute(cands, 40.700, -74.000)
	if len(route) != 1 || route[0].Restaurant.Name != "A" {
		t.Errorf("route = %v, want only A", routeNames(route))
	}
}

func TestRouteDistance(t *testing.T) {
	route := []ScoredCandidate{
		placed("A", 40.7000, -74.0000),
		placed("B", 40.7090, -74.0000), // ~1km north
		{Candidate: Candidate{Restaurant: models.Restaurant{Name: "NoCoords"}}},
		placed("C", 40.7180, -74.0000), // ~1km further
	}
	d := RouteDistance(route)
	if d < 1.8 || d > 2.2 {
		t.Errorf("RouteDistance = %v km, want about 2", d)
	}
	if RouteDistance(nil) != 0 {
		t.Error("empty route should have zero distance")
	}
}
