// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"sort"

	"github.com/grubroute/grubroute/internal/models"
)

// Scoring weights. The composite maxes out at 100 by construction of the
// individual contributions plus a final clamp.
const (
	qualityWeight    = 0.4
	ratingWeight     = 30.0
	ratingScale      = 5.0
	richnessBonus    = 5.0
	filterMatchBonus = 10.0
	maxScore         = 100.0
)

// Review-count tiers. Only the highest applicable tier contributes.
const (
	reviewTierHigh      = 100
	reviewTierMid       = 50
	reviewTierLow       = 20
	reviewTierHighBonus = 10.0
	reviewTierMidBonus  = 5.0
	reviewTierLowBonus  = 2.0
)

// Score computes the composite desirability score for a restaurant under the
// given filters. Components: weighted data quality, normalized rating,
// review-count tier, data richness, and filter-match bonuses. The result is
// clamped to 100.
func Score(r *models.Restaurant, f *Filters) float64 {
	score := r.DataQualityScore * qualityWeight

	if r.Rating != nil {
		score += (*r.Rating / ratingScale) * ratingWeight
	}

	switch {
	case r.TotalReviews > reviewTierHigh:
		score += reviewTierHighBonus
	case r.TotalReviews > reviewTierMid:
		score += reviewTierMidBonus
	case r.TotalReviews > reviewTierLow:
		score += reviewTierLowBonus
	}

	if len(r.MenuItems) > 0 {
		score += richnessBonus
	}
	if len(r.Photos) > 0 {
		score += richnessBonus
	}
	if len(r.Reviews) > 0 {
		score += richnessBonus
	}
	if r.Description != "" {
		score += richnessBonus
	}

	if f != nil {
		// The cuisine bonus matches the literal cuisine term only; the
		// wider synonym set applies during selection, not scoring.
		if f.Cuisine != "" && matchesAnyTerm(r, []string{f.Cuisine}) {
			score += filterMatchBonus
		}
		if buckets := PriceBucketsForLabel(f.PriceRange); len(buckets) > 0 {
			for _, b := range buckets {
				if r.PriceRange == b {
					score += filterMatchBonus
					break
				}
			}
		}
		for _, tag := range f.Tags {
			if matchesTag(r, tag) {
				score += filterMatchBonus
				break
			}
		}
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// scoreAndRank scores every candidate and returns them ordered by score
// descending. The sort is stable, so equal scores keep their selection
// order.
func scoreAndRank(cands []Candidate, f *Filters) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		scored = append(scored, ScoredCandidate{
			Candidate: c,
			Score:     Score(&c.Restaurant, f),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
