// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

// Diversity caps applied when selecting the final itinerary set.
const (
	maxPerCuisine    = 2
	maxPerPriceRange = 3
)

// ApplyDiversity walks the score-ordered candidates greedily, admitting each
// one unless it would exceed the per-cuisine or per-price-range cap.
// Restaurants whose cuisine cannot be inferred are exempt from the cuisine
// cap; restaurants without a price range are exempt from the price cap.
// Relative order is preserved.
func ApplyDiversity(scored []ScoredCandidate) []ScoredCandidate {
	cuisineCount := make(map[string]int)
	priceCount := make(map[string]int)

	out := make([]ScoredCandidate, 0, len(scored))
	for _, sc := range scored {
		cuisine := InferCuisine(&sc.Restaurant)
		if cuisine != "" && cuisineCount[cuisine] >= maxPerCuisine {
			continue
		}
		price := sc.Restaurant.PriceRange
		if price != "" && priceCount[price] >= maxPerPriceRange {
			continue
		}
		if cuisine != "" {
			cuisineCount[cuisine]++
		}
		if price != "" {
			priceCount[price]++
		}
		out = append(out, sc)
	}
	return out
}
