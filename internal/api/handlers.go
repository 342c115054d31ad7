// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/database"
	"github.com/grubroute/grubroute/internal/geo"
	"github.com/grubroute/grubroute/internal/ingest"
	"github.com/grubroute/grubroute/internal/itinerary"
	"github.com/grubroute/grubroute/internal/itinerarystore"
	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/models"
	"github.com/grubroute/grubroute/internal/recommend"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200

	defaultListLimit = 20
	maxListLimit     = 100

	defaultSimilarCount = 10
	maxSimilarCount     = 50

	clusterMinRestaurants = 15
	clusterRadiusKm       = 2.0

	defaultItineraryMin = 4
	defaultItineraryMax = 8
)

// Handler carries the dependencies for all HTTP endpoints.
type Handler struct {
	db        *database.DB
	itins     *itinerarystore.Store
	assembler *itinerary.Assembler
	rec       *recommend.Recommender
	importer  *ingest.Importer
	batch     *itinerary.BatchGenerator
	validate  *validator.Validate
	cfg       *config.Config
}

// NewHandler wires the endpoint dependencies. The batch generator may be nil
// when batch generation is disabled; the admin trigger then returns 503.
func NewHandler(
	db *database.DB,
	itins *itinerarystore.Store,
	assembler *itinerary.Assembler,
	rec *recommend.Recommender,
	importer *ingest.Importer,
	batch *itinerary.BatchGenerator,
	cfg *config.Config,
) *Handler {
	return &Handler{
		db:        db,
		itins:     itins,
		assembler: assembler,
		rec:       rec,
		importer:  importer,
		batch:     batch,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		cfg:       cfg,
	}
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (h *Handler) handleLiveness(w http.ResponseWriter, r *http.Request) {
	respond(w, r).Success(map[string]string{"status": "ok"})
}

// handleReadiness pings the restaurant database. The itinerary store is
// embedded and has no meaningful ping.
func (h *Handler) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("readiness check failed")
		respond(w, r).Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "database not ready")
		return
	}
	respond(w, r).Success(map[string]string{"status": "ready"})
}

// ---------------------------------------------------------------------------
// Restaurants
// ---------------------------------------------------------------------------

// handleSearchRestaurants answers GET /restaurants. Cuisine and price labels
// go through the same expansion the itinerary selector uses, so search
// results and generated itineraries agree on what "italian" means.
func (h *Handler) handleSearchRestaurants(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	q := r.URL.Query()

	filter := &database.RestaurantFilter{
		City:  q.Get("city"),
		Limit: clampedIntParam(q.Get("limit"), defaultSearchLimit, maxSearchLimit),
	}

	if cuisine := q.Get("cuisine"); cuisine != "" {
		filter.CuisineTerms = itinerary.ExpandCuisine(cuisine)
	}
	if price := q.Get("price_range"); price != "" {
		filter.PriceBuckets = itinerary.PriceBucketsForLabel(price)
	}
	if raw := q.Get("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			rw.BadRequest("min_rating must be a number between 0 and 5")
			return
		}
		filter.MinRating = &v
	}
	if raw := q.Get("tags"); raw != "" {
		filter.Tags = splitCSV(raw)
	}

	lat, lon, radius, hasGeo, err := geoParams(q.Get("lat"), q.Get("lon"), q.Get("radius_km"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if hasGeo {
		box := geo.NewBoundingBox(lat, lon, radius)
		filter.Box = &box
		filter.RequireCoordinates = true
	}

	results, err := h.db.FindRestaurants(r.Context(), filter)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("restaurant search failed")
		rw.Internal("restaurant search failed")
		return
	}

	// The box is a coarse prefilter; enforce the exact radius here.
	if hasGeo {
		filtered := results[:0]
		for _, res := range results {
			if res.Latitude == nil || res.Longitude == nil {
				continue
			}
			if geo.DistanceKm(lat, lon, *res.Latitude, *res.Longitude) <= radius {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	rw.SuccessWithCount(results, len(results))
}

func (h *Handler) handleGetRestaurant(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rw.BadRequest("invalid restaurant id")
		return
	}

	restaurant, err := h.db.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("restaurant not found")
			return
		}
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("restaurant lookup failed")
		rw.Internal("restaurant lookup failed")
		return
	}
	rw.Success(restaurant)
}

func (h *Handler) handleSimilarRestaurants(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rw.BadRequest("invalid restaurant id")
		return
	}
	n := clampedIntParam(r.URL.Query().Get("limit"), defaultSimilarCount, maxSimilarCount)

	similar, err := h.rec.SimilarTo(r.Context(), id, n)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			rw.NotFound("restaurant not found")
			return
		}
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("similarity query failed")
		rw.Internal("similarity query failed")
		return
	}
	rw.SuccessWithCount(similar, len(similar))
}

// ---------------------------------------------------------------------------
// Itineraries
// ---------------------------------------------------------------------------

// generateRequest is the wire form of an itinerary generation call.
type generateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Neighborhood string   `json:"neighborhood"`
	Latitude     float64  `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"required,gte=-180,lte=180"`
	RadiusKm     float64  `json:"radius_km" validate:"required,gt=0,lte=50"`
	Cuisine      string   `json:"cuisine"`
	PriceRange   string   `json:"price_range"`
	MinRating    *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=5"`
	Tags         []string `json:"tags"`
	MinCount     int      `json:"min_count" validate:"omitempty,gte=1"`
	MaxCount     int      `json:"max_count" validate:"omitempty,gte=1,lte=20"`
}

func (h *Handler) handleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"request validation failed", validationDetails(err))
		return
	}
	if body.MinCount == 0 {
		body.MinCount = defaultItineraryMin
	}
	if body.MaxCount == 0 {
		body.MaxCount = defaultItineraryMax
	}

	req := &itinerary.Request{
		Title:        body.Title,
		Description:  body.Description,
		Neighborhood: body.Neighborhood,
		CenterLat:    body.Latitude,
		CenterLon:    body.Longitude,
		RadiusKm:     body.RadiusKm,
		Filters: itinerary.Filters{
			Cuisine:    body.Cuisine,
			PriceRange: body.PriceRange,
			MinRating:  body.MinRating,
			Tags:       body.Tags,
		},
		MinCount: body.MinCount,
		MaxCount: body.MaxCount,
	}

	result, err := h.assembler.Generate(r.Context(), req)
	switch {
	case errors.Is(err, itinerary.ErrInvalidRequest):
		rw.BadRequest(err.Error())
		return
	case errors.Is(err, itinerary.ErrInsufficientCandidates):
		rw.Error(http.StatusNotFound, ErrCodeInsufficientCandidates,
			"not enough restaurants in the area match the filters")
		return
	case err != nil:
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("itinerary generation failed")
		rw.Internal("itinerary generation failed")
		return
	}
	rw.Success(result)
}

func (h *Handler) handleListItineraries(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	limit := clampedIntParam(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)

	items, err := h.itins.List(r.Context(), limit)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("itinerary list failed")
		rw.Internal("itinerary list failed")
		return
	}
	rw.SuccessWithCount(items, len(items))
}

func (h *Handler) handleListFeatured(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	limit := clampedIntParam(r.URL.Query().Get("limit"), defaultListLimit, maxListLimit)

	items, err := h.itins.ListFeatured(r.Context(), limit)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("featured itinerary list failed")
		rw.Internal("featured itinerary list failed")
		return
	}
	rw.SuccessWithCount(items, len(items))
}

func (h *Handler) handleGetItinerary(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	key := chi.URLParam(r, "key")

	item, err := h.itins.GetByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, itinerarystore.ErrNotFound) {
			rw.NotFound("itinerary not found")
			return
		}
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("itinerary lookup failed")
		rw.Internal("itinerary lookup failed")
		return
	}
	rw.Success(item)
}

// ---------------------------------------------------------------------------
// Clusters
// ---------------------------------------------------------------------------

func (h *Handler) handleClusters(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	clusters, err := itinerary.FindClusters(r.Context(), h.db, clusterMinRestaurants, clusterRadiusKm)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("cluster discovery failed")
		rw.Internal("cluster discovery failed")
		return
	}
	rw.SuccessWithCount(clusters, len(clusters))
}

// ---------------------------------------------------------------------------
// Recommendations
// ---------------------------------------------------------------------------

type recommendRequest struct {
	VisitedIDs []string `json:"visited_ids"`
	Latitude   float64  `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude  float64  `json:"longitude" validate:"required,gte=-180,lte=180"`
	RadiusKm   float64  `json:"radius_km" validate:"omitempty,gt=0,lte=50"`
	Limit      int      `json:"limit" validate:"omitempty,gte=1,lte=50"`
}

// handleRecommendations builds a taste profile from the caller's visited
// restaurants and ranks nearby candidates by similarity. Unknown visited
// IDs are skipped rather than failing the whole request.
func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rw.BadRequest("invalid JSON body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidationFailed,
			"request validation failed", validationDetails(err))
		return
	}
	if body.RadiusKm == 0 {
		body.RadiusKm = 2.0
	}
	if body.Limit == 0 {
		body.Limit = defaultSimilarCount
	}

	visited := h.resolveVisited(r, body.VisitedIDs)
	profile := recommend.NewProfile(visited)

	scored, err := h.rec.Nearby(r.Context(), profile, body.Latitude, body.Longitude, body.RadiusKm, body.Limit)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("recommendation query failed")
		rw.Internal("recommendation query failed")
		return
	}
	rw.SuccessWithCount(scored, len(scored))
}

func (h *Handler) resolveVisited(r *http.Request, ids []string) []models.Restaurant {
	visited := make([]models.Restaurant, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		restaurant, err := h.db.GetRestaurant(r.Context(), id)
		if err != nil {
			continue
		}
		visited = append(visited, *restaurant)
	}
	return visited
}

// ---------------------------------------------------------------------------
// Admin
// ---------------------------------------------------------------------------

// handleImport accepts a JSON array of scraped records. ?dry_run=true parses
// and validates without writing.
func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	source := r.URL.Query().Get("source")
	if !ingest.ValidSource(source) {
		rw.BadRequest("unknown source, expected one of: " + strings.Join(ingest.KnownSources, ", "))
		return
	}
	dryRun := r.URL.Query().Get("dry_run") == "true"

	stats, err := h.importer.Import(r.Context(), r.Body, source, dryRun)
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("import failed")
		rw.BadRequest("import failed: " + err.Error())
		return
	}
	rw.Success(stats)
}

func (h *Handler) handleBatchRun(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)
	if h.batch == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "batch generation is disabled")
		return
	}

	stats, err := h.batch.Run(r.Context())
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("batch run failed")
		rw.Internal("batch run failed")
		return
	}
	rw.Success(stats)
}

func (h *Handler) handleRepairRatings(w http.ResponseWriter, r *http.Request) {
	rw := respond(w, r)

	repaired, err := h.importer.RepairRatings(r.Context())
	if err != nil {
		reqLog := logging.Ctx(r.Context())
		reqLog.Error().Err(err).Msg("rating repair failed")
		rw.Internal("rating repair failed")
		return
	}
	rw.Success(map[string]int64{"repaired": repaired})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func clampedIntParam(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// geoParams parses the lat/lon/radius triple. Either all three are present
// or none are.
func geoParams(latRaw, lonRaw, radiusRaw string) (lat, lon, radius float64, ok bool, err error) {
	if latRaw == "" && lonRaw == "" && radiusRaw == "" {
		return 0, 0, 0, false, nil
	}
	if latRaw == "" || lonRaw == "" || radiusRaw == "" {
		return 0, 0, 0, false, errors.New("lat, lon and radius_km must be provided together")
	}
	lat, err = strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, 0, false, errors.New("lat must be a number between -90 and 90")
	}
	lon, err = strconv.ParseFloat(lonRaw, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, 0, false, errors.New("lon must be a number between -180 and 180")
	}
	radius, err = strconv.ParseFloat(radiusRaw, 64)
	if err != nil || radius <= 0 || radius > 100 {
		return 0, 0, 0, false, errors.New("radius_km must be a number between 0 and 100")
	}
	return lat, lon, radius, true, nil
}

// validationDetails flattens validator errors into field/rule pairs.
func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	details := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, map[string]string{
			"field": fe.Field(),
			"rule":  fe.Tag(),
		})
	}
	return details
}
