// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/metrics"
	"github.com/grubroute/grubroute/internal/models"
)

// Relaxation stage labels, in application order.
const (
	stageStrict     = "strict"
	stageNoCuisine  = "no_cuisine"
	stageCityMatch  = "city_match"
	stageRatingOnly = "rating_only"
)

// fallbackMinRating is the rating floor for the final relaxation stage when
// the request sets none.
const fallbackMinRating = 3.5

// Featured itinerary thresholds.
const (
	featuredMinEnrichmentPct = 50.0
	featuredMinAvgRating     = 4.0
	featuredMaxDistanceKm    = 5.0
)

// New York City bounding box, used by the city-fallback stage to decide
// whether a center point belongs to a known city.
var nycBox = struct{ minLat, maxLat, minLon, maxLon float64 }{
	minLat: 40.4774, maxLat: 40.9176,
	minLon: -74.2591, maxLon: -73.7004,
}

// Assembler runs the full generation pipeline for one request.
type Assembler struct {
	selector *Selector
	log      zerolog.Logger
}

// NewAssembler returns an Assembler reading candidates from the store.
func NewAssembler(store RestaurantStore) *Assembler {
	return &Assembler{
		selector: NewSelector(store),
		log:      logging.With().Str("component", "assembler").Logger(),
	}
}

// Generate runs selection, scoring, diversity, routing, and slot assignment
// for the request and returns the assembled itinerary. It returns
// ErrInsufficientCandidates when even the final relaxation stage cannot meet
// the request's minimum count, and ErrInvalidRequest for contract
// violations.
func (a *Assembler) Generate(ctx context.Context, req *Request) (*models.Itinerary, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		metrics.GenerationOutcomes.WithLabelValues("error").Inc()
		return nil, err
	}

	cands, stage, err := a.selectWithRelaxation(ctx, req)
	if err != nil {
		metrics.GenerationOutcomes.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.RelaxationStage.WithLabelValues(stage).Inc()
	metrics.CandidatesSelected.Observe(float64(len(cands)))

	if len(cands) < req.MinCount {
		a.log.Debug().Str("stage", stage).Int("candidates", len(cands)).
			Str("neighborhood", req.Neighborhood).Msg("not enough candidates")
		metrics.GenerationOutcomes.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("%w: found %d, need %d", ErrInsufficientCandidates, len(cands), req.MinCount)
	}

	// Score under the full filter set, regardless of which relaxation stage
	// produced the candidates, then enforce diversity and cap the size.
	scored := scoreAndRank(cands, &req.Filters)
	if len(scored) > req.MaxCount*2 {
		scored = scored[:req.MaxCount*2]
	}
	scored = ApplyDiversity(scored)
	if len(scored) > req.MaxCount {
		scored = scored[:req.MaxCount]
	}
	if len(scored) < req.MinCount {
		metrics.GenerationOutcomes.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("%w: %d after diversity, need %d", ErrInsufficientCandidates, len(scored), req.MinCount)
	}

	ordered := orderRoute(scored, req.CenterLat, req.CenterLon)
	slots := AssignTimeSlots(ordered)
	itin := a.buildItinerary(req, ordered, slots)

	metrics.GenerationOutcomes.WithLabelValues("generated").Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	a.log.Info().Str("stage", stage).Int("restaurants", len(ordered)).
		Bool("featured", itin.IsFeatured).Str("key", itin.Key()).
		Msg("itinerary generated")
	return itin, nil
}

// selectWithRelaxation tries progressively looser selections until the
// minimum count is met or every stage is exhausted. The returned stage label
// names the last stage that ran.
func (a *Assembler) selectWithRelaxation(ctx context.Context, req *Request) ([]Candidate, string, error) {
	cands, err := a.selector.SelectNearby(ctx, req.CenterLat, req.CenterLon, req.RadiusKm, &req.Filters, true)
	if err != nil {
		return nil, stageStrict, err
	}
	stage := stageStrict
	if len(cands) >= req.MinCount {
		return cands, stage, nil
	}

	if req.Filters.Cuisine != "" {
		relaxed := req.Filters
		relaxed.Cuisine = ""
		cands, err = a.selector.SelectNearby(ctx, req.CenterLat, req.CenterLon, req.RadiusKm, &relaxed, true)
		if err != nil {
			return nil, stageNoCuisine, err
		}
		stage = stageNoCuisine
		if len(cands) >= req.MinCount {
			return cands, stage, nil
		}
	}

	if city := cityForLocation(req.CenterLat, req.CenterLon); city != "" {
		cands, err = a.selector.SelectByCity(ctx, city, &req.Filters)
		if err != nil {
			return nil, stageCityMatch, err
		}
		stage = stageCityMatch
		if len(cands) >= req.MinCount {
			return cands, stage, nil
		}
	}

	minRating := fallbackMinRating
	if req.Filters.MinRating != nil {
		minRating = *req.Filters.MinRating
	}
	pool, err := a.selector.SelectByRating(ctx, minRating, req.MaxCount*3)
	if err != nil {
		return nil, stageRatingOnly, err
	}
	minimal := &Filters{MinRating: &minRating}
	ranked := scoreAndRank(pool, minimal)
	if len(ranked) > req.MaxCount*2 {
		ranked = ranked[:req.MaxCount*2]
	}
	cands = make([]Candidate, 0, len(ranked))
	for _, sc := range ranked {
		cands = append(cands, sc.Candidate)
	}
	return cands, stageRatingOnly, nil
}

// orderRoute applies nearest-neighbor ordering to the coordinate-bearing
// candidates and appends the rest at the end. When nothing has coordinates,
// score order is kept as-is.
func orderRoute(scored []ScoredCandidate, centerLat, centerLon float64) []ScoredCandidate {
	var withCoords, withoutCoords []ScoredCandidate
	for _, sc := range scored {
		if sc.Restaurant.HasCoordinates() {
			withCoords = append(withCoords, sc)
		} else {
			withoutCoords = append(withoutCoords, sc)
		}
	}
	if len(withCoords) == 0 {
		return scored
	}
	route := OptimizeRoute(withCoords, centerLat, centerLon)
	return append(route, withoutCoords...)
}

// cityForLocation maps coordinates to a city name for the fallback stage.
// Only New York City is recognized.
func cityForLocation(lat, lon float64) string {
	if lat >= nycBox.minLat && lat <= nycBox.maxLat && lon >= nycBox.minLon && lon <= nycBox.maxLon {
		return "New York"
	}
	return ""
}

func (a *Assembler) buildItinerary(req *Request, ordered []ScoredCandidate, slots map[string][]int) *models.Itinerary {
	items := make([]models.ItineraryItem, 0, len(ordered))
	for _, slot := range SlotOrder {
		for _, idx := range slots[slot] {
			r := &ordered[idx].Restaurant
			items = append(items, models.ItineraryItem{
				PlaceName:  r.Name,
				Address:    r.Address,
				Latitude:   r.Latitude,
				Longitude:  r.Longitude,
				Rating:     r.RatingOrZero(),
				PriceRange: r.PriceRange,
				TimeSlot:   slot,
				IsEnriched: true,
				Details: models.ItineraryDetails{
					MenuItems:  r.MenuItems,
					Reviews:    r.Reviews,
					Tags:       r.Tags,
					Features:   r.Features,
					Photos:     r.Photos,
					About:      r.Description,
					PriceRange: r.PriceRange,
					Categories: r.Categories,
					Phone:      r.Phone,
					Website:    r.Website,
				},
				Enrichment: models.EnrichmentMeta{
					HasMenu:          len(r.MenuItems) > 0,
					HasReviews:       len(r.Reviews) > 0,
					HasTags:          len(r.Tags) > 0,
					DataQualityScore: r.DataQualityScore,
				},
			})
		}
	}

	total := len(items)
	totalDistance := RouteDistance(ordered)
	var ratingSum float64
	for _, sc := range ordered {
		ratingSum += sc.Restaurant.RatingOrZero()
	}
	avgRating := 0.0
	if len(ordered) > 0 {
		avgRating = ratingSum / float64(len(ordered))
	}

	sampleImage := ""
	for _, sc := range ordered {
		if len(sc.Restaurant.Photos) > 0 {
			sampleImage = sc.Restaurant.Photos[0]
			break
		}
	}

	// Every candidate comes from the enriched store, so enrichment is total.
	enrichmentPct := 100.0
	featured := enrichmentPct > featuredMinEnrichmentPct &&
		avgRating > featuredMinAvgRating &&
		totalDistance < featuredMaxDistanceKm &&
		total >= req.MinCount

	minRating := 0.0
	if req.Filters.MinRating != nil {
		minRating = *req.Filters.MinRating
	}

	now := time.Now().UTC()
	return &models.Itinerary{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		Cuisine:        req.Filters.Cuisine,
		PriceRange:     req.Filters.PriceRange,
		Neighborhood:   req.Neighborhood,
		Latitude:       req.CenterLat,
		Longitude:      req.CenterLon,
		RadiusKm:       req.RadiusKm,
		MinRating:      minRating,
		Tags:           req.Filters.Tags,
		Items:          items,
		IsFeatured:     featured,
		SampleImageURL: sampleImage,
		Stats: models.ItineraryStats{
			TotalRestaurants:     total,
			EnrichedCount:        total,
			EnrichmentPercentage: enrichmentPct,
			TotalDistanceKm:      round2(totalDistance),
			AvgDistanceBetween:   round2(totalDistance / math.Max(1, float64(total-1))),
			AvgRating:            round2(avgRating),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
