// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package ingest

import (
	"regexp"
	"strings"
)

// addressPattern matches the tail of a US-style address:
// "..., City, ST 10038" or "..., City, ST".
var addressPattern = regexp.MustCompile(`,\s*([^,]+?),\s*([A-Z]{2})(?:\s+(\d{5}))?$`)

// ParsedAddress holds the components split out of a single address string.
type ParsedAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

// ParseAddress splits a full address like "5 Beekman Street, New York, NY
// 10038" into components. It reports false when the string does not end in
// the expected city/state tail.
func ParseAddress(address string) (ParsedAddress, bool) {
	m := addressPattern.FindStringSubmatch(address)
	if m == nil {
		return ParsedAddress{}, false
	}

	parsed := ParsedAddress{
		City:    strings.TrimSpace(m[1]),
		State:   strings.TrimSpace(m[2]),
		ZipCode: strings.TrimSpace(m[3]),
	}

	// Street is everything before the city/state tail.
	if idx := strings.LastIndex(address, m[0]); idx > 0 {
		parsed.Street = strings.TrimSpace(address[:idx])
	}
	return parsed, true
}
