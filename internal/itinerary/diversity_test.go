// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"fmt"
	"testing"

	"github.com/grubroute/grubroute/internal/models"
)

func scoredFrom(rs ...models.Restaurant) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(rs))
	for _, r := range rs {
		out = append(out, ScoredCandidate{Candidate: Candidate{Restaurant: r}})
	}
	return out
}

func TestApplyDiversityCuisineCap(t *testing.T) {
	var rs []models.Restaurant
	for i := 0; i < 5; i++ {
		rs = append(rs, models.Restaurant{
			Name:       fmt.Sprintf("Italian %d", i),
			Categories: []string{"Italian"},
		})
	}
	got := ApplyDiversity(scoredFrom(rs...))
	if len(got) != maxPerCuisine {
		t.Fatalf("got %d restaurants, want cuisine cap %d", len(got), maxPerCuisine)
	}
	if got[0].Restaurant.Name != "Italian 0" || got[1].Restaurant.Name != "Italian 1" {
		t.Error("cap should keep the highest-ranked entries in order")
	}
}

func TestApplyDiversityPriceCap(t *testing.T) {
	var rs []models.Restaurant
	for i := 0; i < 6; i++ {
		rs = append(rs, models.Restaurant{
			Name:       fmt.Sprintf("Spot %d", i),
			PriceRange: models.PriceModerate,
		})
	}
	got := ApplyDiversity(scoredFrom(rs...))
	if len(got) != maxPerPriceRange {
		t.Fatalf("got %d restaurants, want price cap %d", len(got), maxPerPriceRange)
	}
}

func TestApplyDiversityUnknownCuisineUncapped(t *testing.T) {
	var rs []models.Restaurant
	for i := 0; i < 6; i++ {
		// No categories and no cuisine keyword in the name.
		rs = append(rs, models.Restaurant{Name: fmt.Sprintf("Mystery %d", i)})
	}
	got := ApplyDiversity(scoredFrom(rs...))
	if len(got) != 6 {
		t.Errorf("unknown-cuisine restaurants should be exempt from the cuisine cap, got %d of 6", len(got))
	}
}

func TestApplyDiversityMixedSet(t *testing.T) {
	rs := []models.Restaurant{
		{Name: "A", Categories: []string{"Italian"}, PriceRange: "$$"},
		{Name: "B", Categories: []string{"Italian"}, PriceRange: "$$"},
		{Name: "C", Categories: []string{"Italian"}, PriceRange: "$"}, // third italian, dropped
		{Name: "D", Categories: []string{"Thai"}, PriceRange: "$$"},
		{Name: "E", Categories: []string{"French"}, PriceRange: "$$"}, // fourth $$, dropped
		{Name: "F", Categories: []string{"French"}, PriceRange: "$"},
	}
	got := ApplyDiversity(scoredFrom(rs...))
	want := []string{"A", "B", "D", "F"}
	if len(got) != len(want) {
		t.Fatalf("got %d survivors, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Restaurant.Name != name {
			t.Errorf("survivor[%d] = %s, want %s", i, got[i].Restaurant.Name, name)
		}
	}
}
