// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerary

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	b := NewBatchGenerator(&fakeStore{}, newMemItineraryStore(), nil, batchTestConfig(1), 1)
	s := NewScheduler(b, time.Hour, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestSchedulerName(t *testing.T) {
	s := NewScheduler(nil, time.Hour, false)
	if s.String() == "" {
		t.Error("scheduler must carry a service name")
	}
}
