// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"strings"

	"github.com/grubroute/grubroute/internal/models"
)

// venue archetypes used for slot placement
const (
	venueCafe   = "cafe_bakery"
	venueFine   = "fine_dining"
	venueCasual = "casual"
)

// classifyVenue buckets a restaurant for time-slot placement. Cafe and
// bakery signals win over everything; a top price tier or upscale category
// marks fine dining; the rest is casual.
func classifyVenue(r *models.Restaurant) string {
	name := strings.ToLower(r.Name)
	for _, c := range r.Categories {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "cafe") || strings.Contains(lc, "bakery") || strings.Contains(lc, "brunch") {
			return venueCafe
		}
	}
	if strings.Contains(name, "cafe") || strings.Contains(name, "bakery") || strings.Contains(name, "brunch") {
		return venueCafe
	}
	if r.PriceRange == models.PriceExpensive || r.PriceRange == models.PriceLuxury {
		return venueFine
	}
	for _, c := range r.Categories {
		lc := strings.ToLower(c)
		if strings.Contains(lc, "fine") || strings.Contains(lc, "upscale") {
			return venueFine
		}
	}
	return venueCasual
}

// AssignTimeSlots distributes the route across the four meal slots.
// Cafes and bakeries lead the morning, casual dining fills mid-day, cafe and
// casual spill covers the afternoon, and fine dining anchors the evening.
// Whatever the heuristic pools leave unplaced is dealt round-robin across
// the slots, so every input lands in exactly one slot.
//
// The result maps slot name to indexes into the input slice, preserving
// input (route) order within each pool.
func AssignTimeSlots(route []ScoredCandidate) map[string][]int {
	slots := map[string][]int{
		SlotMorning:   {},
		SlotMidDay:    {},
		SlotAfternoon: {},
		SlotEvening:   {},
	}
	if len(route) == 0 {
		return slots
	}

	var cafes, casual, fine []int
	for i := range route {
		switch classifyVenue(&route[i].Restaurant) {
		case venueCafe:
			cafes = append(cafes, i)
		case venueFine:
			fine = append(fine, i)
		default:
			casual = append(casual, i)
		}
	}

	perSlot := len(route) / 4
	if perSlot < 1 {
		perSlot = 1
	}
	take := func(pool []int, n int) (head, tail []int) {
		if n > len(pool) {
			n = len(pool)
		}
		return pool[:n], pool[n:]
	}

	morning, cafes := take(cafes, perSlot)
	slots[SlotMorning] = morning

	midDay, casual := take(casual, perSlot)
	slots[SlotMidDay] = midDay

	afternoonPool, casual := take(casual, perSlot)
	afternoonPool = append(append([]int{}, cafes...), afternoonPool...)
	afternoon, afternoonSpill := take(afternoonPool, perSlot)
	slots[SlotAfternoon] = afternoon

	eveningPool := append(append(append([]int{}, fine...), casual...), afternoonSpill...)
	evening, _ := take(eveningPool, perSlot)
	slots[SlotEvening] = evening

	assigned := make(map[int]bool, len(route))
	for _, idxs := range slots {
		for _, i := range idxs {
			assigned[i] = true
		}
	}
	n := 0
	for i := range route {
		if assigned[i] {
			continue
		}
		slot := SlotOrder[n%len(SlotOrder)]
		slots[slot] = append(slots[slot], i)
		n++
	}

	return slots
}
