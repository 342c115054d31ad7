// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "req-123")
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() = %q, want empty", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if a == "" || a == b {
		t.Errorf("GenerateRequestID() produced %q and %q, want distinct non-empty", a, b)
	}
}

func TestCtxAttachesRequestIDOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := ContextWithLogger(context.Background(), logger)
	ctx = ContextWithRequestID(ctx, "req-456")

	ctxLogger := Ctx(ctx)
	ctxLogger.Info().Msg("hello")

	line := buf.String()
	if strings.Count(line, "req-456") != 1 {
		t.Fatalf("log line should carry the request id exactly once: %s", line)
	}
	var fields map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fields); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if fields["request_id"] != "req-456" {
		t.Errorf("request_id = %v, want req-456", fields["request_id"])
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	// The fallback is the package-level logger; it must be usable.
	logger.Debug().Msg("fallback logger works")
}
