// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the HTTP routing tree. The metrics and health
// endpoints sit outside authentication so probes and scrapers need no
// credentials; everything under /api/v1 except health goes through the
// configured auth mode.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(&h.cfg.Server))
	r.Use(rateLimit(&h.cfg.Server))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metricsMiddleware)

		r.Get("/health/live", h.handleLiveness)
		r.Get("/health/ready", h.handleReadiness)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(&h.cfg.Auth))

			r.Route("/restaurants", func(r chi.Router) {
				r.Get("/", h.handleSearchRestaurants)
				r.Get("/{id}", h.handleGetRestaurant)
				r.Get("/{id}/similar", h.handleSimilarRestaurants)
			})

			r.Route("/itineraries", func(r chi.Router) {
				r.Post("/generate", h.handleGenerateItinerary)
				r.Get("/", h.handleListItineraries)
				r.Get("/featured", h.handleListFeatured)
				r.Get("/{key}", h.handleGetItinerary)
			})

			r.Get("/clusters", h.handleClusters)
			r.Post("/recommendations", h.handleRecommendations)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/import", h.handleImport)
				r.Post("/batch/run", h.handleBatchRun)
				r.Post("/ratings/repair", h.handleRepairRatings)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond(w, req).NotFound("route not found")
	})

	return r
}
