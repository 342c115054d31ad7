// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import "errors"

var (
	// ErrInsufficientCandidates reports that even the final relaxation stage
	// could not gather enough restaurants to meet the minimum itinerary size.
	// It is the expected "no result" outcome, not a failure of the pipeline.
	ErrInsufficientCandidates = errors.New("insufficient candidates for itinerary")

	// ErrInvalidRequest reports a contract violation in the generation
	// request, such as a non-positive radius or inverted count bounds.
	ErrInvalidRequest = errors.New("invalid itinerary request")
)
