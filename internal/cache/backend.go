// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package cache memoizes expensive loads over a pluggable byte store.
//
// Backends store opaque bytes under string keys with a TTL (zero means no
// expiry). Memoizer layers typed, JSON-encoded values on top and is the only
// thing the rest of the module talks to:
//
//	backend, _ := cache.NewBackend(ctx, &cfg.Cache)
//	m := cache.NewMemoizer[models.Dataset](backend, cfg.Cache.CacheTimeout(), "dataset")
//	load := m.Memoize(repo.loadForKey)
//	ds, err := load(ctx, "2024-05-01")
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/logging"
)

// KeyPrefix namespaces every key written by this module.
const KeyPrefix = "opsboard:"

// Backend is a byte store with per-entry TTL. Implementations must be safe
// for concurrent use.
type Backend interface {
	// Name identifies the backend in metrics and logs.
	Name() string

	// Get returns the stored value. A missing or expired key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases the backend's resources.
	Close() error
}

// NewBackend builds the backend selected by cfg.Type. It returns (nil, nil)
// for "none", which NewMemoizer turns into a pass-through.
//
// An unreachable Redis is not fatal: the process logs the failure and keeps
// running on the in-process memory backend.
func NewBackend(ctx context.Context, cfg *config.CacheConfig) (Backend, error) {
	switch cfg.Type {
	case config.CacheNone:
		return nil, nil //nolint:nilnil // nil backend selects pass-through memoization
	case config.CacheMemory, "":
		return NewMemoryBackend(), nil
	case config.CacheRedis:
		rb, err := NewRedisBackend(ctx, cfg.RedisURL)
		if err != nil {
			logging.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
			return NewMemoryBackend(), nil
		}
		return rb, nil
	case config.CacheBadger:
		bb, err := OpenBadgerBackend(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open badger cache: %w", err)
		}
		return bb, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
