// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"github.com/grubroute/grubroute/internal/geo"
)

// maxHopKm is the preferred upper bound on a single hop. It is a soft
// constraint: when no unvisited restaurant lies within it, the nearest one
// overall is taken instead.
const maxHopKm = 1.0

// OptimizeRoute orders candidates by greedy nearest-neighbor walk starting
// from the search center. Hops within maxHopKm are preferred; when none
// qualify, the globally nearest unvisited candidate is chosen. Candidates
// without coordinates terminate the walk and are dropped from the route.
// Ties resolve to the earliest candidate in input order.
func OptimizeRoute(cands []ScoredCandidate, centerLat, centerLon float64) []ScoredCandidate {
	if len(cands) == 0 {
		return nil
	}

	remaining := make([]ScoredCandidate, len(cands))
	copy(remaining, cands)

	route := make([]ScoredCandidate, 0, len(cands))
	curLat, curLon := centerLat, centerLon

	for len(remaining) > 0 {
		best := -1
		bestDist := 0.0
		fallback := -1
		fallbackDist := 0.0

		for i, sc := range remaining {
			if !sc.Restaurant.HasCoordinates() {
				continue
			}
			lat, lon := sc.Restaurant.Coordinates()
			d := geo.DistanceKm(curLat, curLon, lat, lon)
			if d <= maxHopKm && (best == -1 || d < bestDist) {
				best, bestDist = i, d
			}
			if fallback == -1 || d < fallbackDist {
				fallback, fallbackDist = i, d
			}
		}

		if best == -1 {
			best = fallback
		}
		if best == -1 {
			// Only coordinate-less candidates remain.
			break
		}

		next := remaining[best]
		route = append(route, next)
		curLat, curLon = next.Restaurant.Coordinates()
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return route
}

// RouteDistance sums the hop distances along the ordered route, skipping
// candidates without coordinates.
func RouteDistance(route []ScoredCandidate) float64 {
	total := 0.0
	havePrev := false
	var prevLat, prevLon float64
	for _, sc := range route {
		if !sc.Restaurant.HasCoordinates() {
			continue
		}
		lat, lon := sc.Restaurant.Coordinates()
		if havePrev {
			total += geo.DistanceKm(prevLat, prevLon, lat, lon)
		}
		prevLat, prevLon = lat, lon
		havePrev = true
	}
	return total
}
