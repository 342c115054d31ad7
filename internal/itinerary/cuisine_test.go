// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"reflect"
	"testing"

	"github.com/grubroute/grubroute/internal/models"
)

func TestExpandCuisine(t *testing.T) {
	tests := []struct {
		name    string
		cuisine string
		want    []string
	}{
		{"known cuisine expands", "italian", []string{"italian", "italy", "pasta", "pizza", "trattoria", "ristorante"}},
		{"case and whitespace normalized", "  Italian ", []string{"italian", "italy", "pasta", "pizza", "trattoria", "ristorante"}},
		{"french includes cafe", "french", []string{"french", "france", "bistro", "brasserie", "cafe"}},
		{"mediterranean covers the region", "mediterranean", []string{"mediterranean", "greek", "turkish", "lebanese", "middle eastern"}},
		{"korean includes bbq", "korean", []string{"korean", "korea", "bbq", "korean bbq"}},
		{"unknown cuisine expands to itself", "ethiopian", []string{"ethiopian"}},
		{"empty expands to nil", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandCuisine(tt.cuisine); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandCuisine(%q) = %v, want %v", tt.cuisine, got, tt.want)
			}
		})
	}
}

func TestPriceBucketsForLabel(t *testing.T) {
	tests := []struct {
		label string
		want  []string
	}{
		{"$30 and under", []string{"$", "$$"}},
		{"$31-$50", []string{"$$$"}},
		{"$50+", []string{"$$$$", "$$$$$"}},
		{"cheap", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := PriceBucketsForLabel(tt.label); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PriceBucketsForLabel(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestInferCuisine(t *testing.T) {
	tests := []struct {
		name string
		r    models.Restaurant
		want string
	}{
		{"first category wins", models.Restaurant{Name: "Thai Palace", Categories: []string{"Japanese", "Sushi"}}, "japanese"},
		{"name keyword fallback", models.Restaurant{Name: "Best Thai Kitchen"}, "thai"},
		{"no signal is unknown", models.Restaurant{Name: "The Corner Spot"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferCuisine(&tt.r); got != tt.want {
				t.Errorf("InferCuisine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchesCuisineSynonyms(t *testing.T) {
	r := models.Restaurant{Name: "Trattoria Da Enzo", Description: "Roman classics"}
	if !matchesCuisine(&r, "italian") {
		t.Error("trattoria should match italian through synonyms")
	}
	if matchesCuisine(&r, "french") {
		t.Error("trattoria should not match french")
	}
}
