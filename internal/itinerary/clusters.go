// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// clusterCellDeg is the grid cell size for density clustering, roughly one
// kilometer of latitude.
const clusterCellDeg = 0.01

// Cluster is a dense group of restaurants found by grid bucketing.
type Cluster struct {
	ID              int     `json:"id"`
	CenterLat       float64 `json:"center_lat"`
	CenterLon       float64 `json:"center_lng"`
	RestaurantCount int     `json:"restaurant_count"`
	RadiusKm        float64 `json:"radius_km"`
}

// FindClusters buckets active restaurant coordinates into a fixed-size grid
// and returns every cell holding at least minRestaurants, centered on the
// mean of its points and ordered by count descending. Cells are visited in
// deterministic grid order, so IDs and tie ordering are stable across runs.
func FindClusters(ctx context.Context, store RestaurantStore, minRestaurants int, radiusKm float64) ([]Cluster, error) {
	coords, err := store.ActiveCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load coordinates for clustering: %w", err)
	}
	if len(coords) == 0 {
		return nil, nil
	}

	// Anchor the grid at the data minimum so cell membership depends only on
	// relative position, and floor so every cell spans exactly one step.
	minLat, minLon := coords[0][0], coords[0][1]
	for _, c := range coords[1:] {
		minLat = math.Min(minLat, c[0])
		minLon = math.Min(minLon, c[1])
	}

	type cell struct{ gx, gy int }
	grid := make(map[cell][][2]float64)
	for _, c := range coords {
		k := cell{
			gx: int(math.Floor((c[0] - minLat) / clusterCellDeg)),
			gy: int(math.Floor((c[1] - minLon) / clusterCellDeg)),
		}
		grid[k] = append(grid[k], c)
	}

	cells := make([]cell, 0, len(grid))
	for k := range grid {
		cells = append(cells, k)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].gx != cells[j].gx {
			return cells[i].gx < cells[j].gx
		}
		return cells[i].gy < cells[j].gy
	})

	var clusters []Cluster
	for _, k := range cells {
		points := grid[k]
		if len(points) < minRestaurants {
			continue
		}
		var sumLat, sumLon float64
		for _, p := range points {
			sumLat += p[0]
			sumLon += p[1]
		}
		n := float64(len(points))
		clusters = append(clusters, Cluster{
			ID:              len(clusters) + 1,
			CenterLat:       sumLat / n,
			CenterLon:       sumLon / n,
			RestaurantCount: len(points),
			RadiusKm:        radiusKm,
		})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].RestaurantCount > clusters[j].RestaurantCount
	})
	return clusters, nil
}
