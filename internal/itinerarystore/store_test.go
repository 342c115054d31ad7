// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package itinerarystore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&config.ItineraryStoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleItinerary(cuisine string, featured bool) *models.Itinerary {
	return &models.Itinerary{
		Title:        cuisine + " Food Tour",
		Cuisine:      cuisine,
		PriceRange:   "$30 and under",
		Neighborhood: "East Village",
		Latitude:     40.7262,
		Longitude:    -73.9818,
		RadiusKm:     1.0,
		IsFeatured:   featured,
		Items: []models.ItineraryItem{
			{PlaceName: "Spot A", TimeSlot: "morning"},
		},
	}
}

func TestUpsertCreateThenUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	it := sampleItinerary("Italian", false)

	created, err := s.Upsert(ctx, it)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("first upsert should report created")
	}

	it.Title = "Updated Tour"
	created, err = s.Upsert(ctx, it)
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if created {
		t.Error("second upsert should report updated")
	}

	got, err := s.GetByKey(ctx, it.Key())
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if got.Title != "Updated Tour" {
		t.Errorf("Title = %q, want the updated value", got.Title)
	}
	if len(got.Items) != 1 || got.Items[0].PlaceName != "Spot A" {
		t.Errorf("items did not round-trip: %+v", got.Items)
	}
}

func TestGetByKeyNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetByKey(context.Background(), "missing|key")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByKey() error = %v, want ErrNotFound", err)
	}
}

func TestListAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := s.Upsert(ctx, sampleItinerary(fmt.Sprintf("Cuisine%d", i), false)); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("List() returned %d, want 5", len(all))
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d, want 2", len(limited))
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Count() = %d, want 5", n)
	}
}

func TestFeaturedIndexFollowsFlag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	it := sampleItinerary("Italian", true)
	if _, err := s.Upsert(ctx, it); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := s.Upsert(ctx, sampleItinerary("Thai", false)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	featured, err := s.ListFeatured(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeatured() error = %v", err)
	}
	if len(featured) != 1 || featured[0].Cuisine != "Italian" {
		t.Fatalf("ListFeatured() = %+v, want only the Italian tour", featured)
	}

	// Regeneration can demote an itinerary; the index entry must go with it.
	it.IsFeatured = false
	if _, err := s.Upsert(ctx, it); err != nil {
		t.Fatalf("demoting Upsert() error = %v", err)
	}
	featured, err = s.ListFeatured(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeatured() after demotion error = %v", err)
	}
	if len(featured) != 0 {
		t.Errorf("ListFeatured() after demotion = %d entries, want 0", len(featured))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	it := sampleItinerary("Italian", true)
	if _, err := s.Upsert(ctx, it); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := s.Delete(ctx, it.Key()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.GetByKey(ctx, it.Key()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByKey() after delete error = %v, want ErrNotFound", err)
	}
	featured, err := s.ListFeatured(ctx, 0)
	if err != nil {
		t.Fatalf("ListFeatured() error = %v", err)
	}
	if len(featured) != 0 {
		t.Error("featured index survived deletion")
	}

	if err := s.Delete(ctx, "missing|key"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestCanceledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Upsert(ctx, sampleItinerary("Italian", false)); err == nil {
		t.Error("Upsert() with canceled context should fail")
	}
	if _, err := s.List(ctx, 0); err == nil {
		t.Error("List() with canceled context should fail")
	}
}
