// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

// Package itinerarystore persists generated itineraries in BadgerDB.
//
// Itineraries are stored as JSON values under composite keys derived from
// their generation parameters, so re-running a batch overwrites in place.
// Featured itineraries carry an index entry for cheap listing.
package itinerarystore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/logging"
	"github.com/grubroute/grubroute/internal/models"
)

// Key prefixes for BadgerDB storage.
const (
	itineraryKeyPrefix = "itinerary:"
	featuredKeyPrefix  = "featured:"
)

// ErrNotFound is returned when no itinerary exists for the requested key.
var ErrNotFound = errors.New("itinerary not found")

// Store is a BadgerDB-backed itinerary store.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// New opens the store at the configured path, or in memory when configured
// so. The caller owns Close.
func New(cfg *config.ItineraryStoreConfig) (*Store, error) {
	log := logging.With().Str("component", "itinerary_store").Logger()

	opts := badger.DefaultOptions(cfg.Path).
		WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").
			WithInMemory(true).
			WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open itinerary store: %w", err)
	}

	log.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).
		Msg("itinerary store ready")
	return &Store{db: db, log: log}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert writes the itinerary under its parameter key. It reports whether a
// new record was created as opposed to replacing an existing one. The
// featured index entry is kept in the same transaction, so listings never
// see a half-written state.
func (s *Store) Upsert(ctx context.Context, it *models.Itinerary) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := json.Marshal(it)
	if err != nil {
		return false, fmt.Errorf("marshal itinerary: %w", err)
	}

	key := []byte(itineraryKeyPrefix + it.Key())
	featuredKey := []byte(featuredKeyPrefix + it.Key())
	created := false

	err = s.db.Update(func(txn *badger.Txn) error {
		_, getErr := txn.Get(key)
		switch {
		case errors.Is(getErr, badger.ErrKeyNotFound):
			created = true
		case getErr != nil:
			return fmt.Errorf("check existing itinerary: %w", getErr)
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set itinerary: %w", err)
		}

		if it.IsFeatured {
			if err := txn.Set(featuredKey, key); err != nil {
				return fmt.Errorf("set featured index: %w", err)
			}
			return nil
		}
		if err := txn.Delete(featuredKey); err != nil {
			return fmt.Errorf("clear featured index: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// GetByKey retrieves the itinerary stored under the given parameter key.
func (s *Store) GetByKey(ctx context.Context, key string) (*models.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var it models.Itinerary
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(itineraryKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get itinerary: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &it)
		})
	})
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// List returns all stored itineraries. limit 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]models.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Itinerary
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itineraryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var record models.Itinerary
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("decode itinerary: %w", err)
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListFeatured returns itineraries flagged as featured, via the featured
// index. limit 0 means no limit.
func (s *Store) ListFeatured(ctx context.Context, limit int) ([]models.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Itinerary
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(featuredKeyPrefix)
		idx := txn.NewIterator(opts)
		defer idx.Close()

		for idx.Rewind(); idx.Valid(); idx.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var target []byte
			err := idx.Item().Value(func(val []byte) error {
				target = append([]byte(nil), val...)
				return nil
			})
			if err != nil {
				return fmt.Errorf("read featured index: %w", err)
			}

			item, err := txn.Get(target)
			if errors.Is(err, badger.ErrKeyNotFound) {
				// Stale index entry; skip rather than fail the listing.
				s.log.Warn().Str("key", string(target)).Msg("featured index points at missing itinerary")
				continue
			}
			if err != nil {
				return fmt.Errorf("get featured itinerary: %w", err)
			}
			var record models.Itinerary
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("decode featured itinerary: %w", err)
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the itinerary and any featured index entry for the key.
// Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(itineraryKeyPrefix + key)); err != nil {
			return fmt.Errorf("delete itinerary: %w", err)
		}
		if err := txn.Delete([]byte(featuredKeyPrefix + key)); err != nil {
			return fmt.Errorf("delete featured index: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored itineraries.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(itineraryKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
