// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package itinerary implements the itinerary-generation pipeline: geospatial
// candidate selection, multi-factor scoring, diversity-constrained selection,
// nearest-neighbor route ordering, and time-slot assignment.
//
// The pipeline is stateless per invocation. Every generation call fetches its
// own candidate snapshot from the restaurant store, computes in memory, and
// emits one itinerary record; concurrent calls need no coordination.
//
// Data variability is absorbed locally: missing coordinates, null ratings,
// and unknown cuisines all degrade to documented fallbacks instead of
// failing the computation. Only contract violations (negative radius,
// inverted count bounds) surface as errors, plus the explicit
// ErrInsufficientCandidates "no result" signal.
package itinerary
