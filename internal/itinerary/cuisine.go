// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"strings"

	"github.com/grubroute/grubroute/internal/models"
)

// cuisineSynonyms maps a canonical cuisine to the search terms that count as
// a match for it. Matching is case-insensitive substring matching against the
// restaurant's name, description, and category list.
var cuisineSynonyms = map[string][]string{
	"italian":       {"italian", "italy", "pasta", "pizza", "trattoria", "ristorante"},
	"french":        {"french", "france", "bistro", "brasserie", "cafe"},
	"mexican":       {"mexican", "mexico", "taco", "burrito", "tex-mex"},
	"japanese":      {"japanese", "japan", "sushi", "ramen", "izakaya"},
	"chinese":       {"chinese", "china", "dim sum", "szechuan", "cantonese"},
	"thai":          {"thai", "thailand", "pad thai"},
	"indian":        {"indian", "india", "curry", "tandoor"},
	"mediterranean": {"mediterranean", "greek", "turkish", "lebanese", "middle eastern"},
	"american":      {"american", "burger", "bbq", "steakhouse", "diner"},
	"korean":        {"korean", "korea", "bbq", "korean bbq"},
	"spanish":       {"spanish", "spain", "tapas", "paella"},
	"greek":         {"greek", "greece", "gyro"},
}

// commonCuisines is the keyword list scanned against restaurant names when
// the category list gives no cuisine signal.
var commonCuisines = []string{
	"italian", "french", "mexican", "japanese", "chinese",
	"thai", "indian", "mediterranean", "american", "korean",
}

// ExpandCuisine returns the synonym list for a cuisine. An unrecognized
// cuisine expands to itself so that niche cuisines still match literally.
// An empty cuisine expands to nil.
func ExpandCuisine(cuisine string) []string {
	if cuisine == "" {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(cuisine))
	if terms, ok := cuisineSynonyms[key]; ok {
		return terms
	}
	return []string{key}
}

// PriceBucketsForLabel translates a user-facing price label into the stored
// price-range buckets it covers. Unknown labels return nil, which means "no
// price constraint".
func PriceBucketsForLabel(label string) []string {
	switch strings.TrimSpace(label) {
	case "$30 and under":
		return []string{models.PriceCheap, models.PriceModerate}
	case "$31-$50":
		return []string{models.PriceUpper}
	case "$50+":
		return []string{models.PriceExpensive, models.PriceLuxury}
	default:
		return nil
	}
}

// InferCuisine derives a cuisine label for diversity bookkeeping. The first
// category wins when present; otherwise the name is scanned for common
// cuisine keywords. Restaurants with no signal return "" and are exempt from
// the per-cuisine diversity cap.
func InferCuisine(r *models.Restaurant) string {
	if len(r.Categories) > 0 {
		return strings.ToLower(strings.TrimSpace(r.Categories[0]))
	}
	name := strings.ToLower(r.Name)
	for _, cuisine := range commonCuisines {
		if strings.Contains(name, cuisine) {
			return cuisine
		}
	}
	return ""
}

// matchesAnyTerm reports whether any of the terms occurs, case-insensitively,
// in the restaurant's name, description, or categories.
func matchesAnyTerm(r *models.Restaurant, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	name := strings.ToLower(r.Name)
	desc := strings.ToLower(r.Description)
	for _, term := range terms {
		t := strings.ToLower(term)
		if strings.Contains(name, t) || strings.Contains(desc, t) {
			return true
		}
		for _, cat := range r.Categories {
			if strings.Contains(strings.ToLower(cat), t) {
				return true
			}
		}
	}
	return false
}

// matchesCuisine reports whether the restaurant matches the cuisine through
// its synonym set.
func matchesCuisine(r *models.Restaurant, cuisine string) bool {
	return matchesAnyTerm(r, ExpandCuisine(cuisine))
}

// matchesTag reports whether the tag occurs in the restaurant's tag or
// feature lists.
func matchesTag(r *models.Restaurant, tag string) bool {
	t := strings.ToLower(tag)
	for _, have := range r.Tags {
		if strings.Contains(strings.ToLower(have), t) {
			return true
		}
	}
	for _, have := range r.Features {
		if strings.Contains(strings.ToLower(have), t) {
			return true
		}
	}
	return false
}
