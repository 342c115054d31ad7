// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package metrics provides Prometheus instrumentation for the restaurant
// store, the itinerary engine, and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Restaurant store metrics.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Itinerary engine metrics.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itinerary_generation_duration_seconds",
			Help:    "Duration of single itinerary generation calls in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	GenerationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_generation_outcomes_total",
			Help: "Itinerary generation outcomes by result",
		},
		[]string{"outcome"}, // "generated", "insufficient", "error"
	)

	CandidatesSelected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "itinerary_candidates_selected",
			Help:    "Candidate counts surviving selection per generation call",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 250, 500},
		},
	)

	RelaxationStage = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itinerary_relaxation_stage_total",
			Help: "Which filter-relaxation stage produced enough candidates",
		},
		[]string{"stage"}, // "strict", "no_cuisine", "city_match", "rating_only"
	)

	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_runs_total",
			Help: "Batch generation runs by result",
		},
		[]string{"result"}, // "completed", "failed"
	)

	BatchItinerariesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_itineraries_written_total",
			Help: "Itineraries written by batch runs",
		},
		[]string{"action"}, // "created", "updated", "skipped"
	)

	// Event bus metrics.
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Itinerary events drained by consumers",
		},
		[]string{"consumer", "result"}, // result: "ok", "malformed"
	)

	// Ingest metrics.
	IngestRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_records_total",
			Help: "Imported restaurant records by result",
		},
		[]string{"source", "result"}, // result: "created", "updated", "error"
	)

	// HTTP API metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// ObserveQuery records one store query's duration, and its failure if err is
// non-nil. Meant to be deferred:
//
//	defer metrics.ObserveQuery("find", "scraped_restaurants", time.Now(), &err)
func ObserveQuery(operation, table string, start time.Time, err *error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records one HTTP request's counter and latency.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
