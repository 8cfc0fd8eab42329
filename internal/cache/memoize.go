// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
)

// Loader produces the value for key.
type Loader[T any] func(ctx context.Context, key string) (T, error)

// Memoizer wraps a Loader so repeated calls with the same key reuse a stored
// value until it expires.
type Memoizer[T any] interface {
	Memoize(loader Loader[T]) Loader[T]
}

// NewMemoizer returns a memoizer over backend. A nil backend yields a
// pass-through whose Memoize returns the loader unchanged.
//
// timeout is fixed for the memoizer's lifetime; zero stores without expiry.
// Keys are stored as "opsboard:<namespace>:<key>".
func NewMemoizer[T any](backend Backend, timeout time.Duration, namespace string) Memoizer[T] {
	if backend == nil {
		return passthrough[T]{}
	}
	return &memoizer[T]{
		backend: backend,
		timeout: timeout,
		prefix:  KeyPrefix + namespace + ":",
	}
}

type passthrough[T any] struct{}

func (passthrough[T]) Memoize(loader Loader[T]) Loader[T] {
	return loader
}

type memoizer[T any] struct {
	backend Backend
	timeout time.Duration
	prefix  string
}

// Memoize returns a Loader that consults the backend first. Errors from the
// loader are returned and never stored. Backend read, write and decode
// failures are logged and degrade to calling the loader.
//
// Concurrent first calls for the same key may each run the loader.
func (m *memoizer[T]) Memoize(loader Loader[T]) Loader[T] {
	log := logging.WithComponent("cache")
	name := m.backend.Name()

	return func(ctx context.Context, key string) (T, error) {
		fullKey := m.prefix + key

		raw, ok, err := m.backend.Get(ctx, fullKey)
		switch {
		case err != nil:
			metrics.CacheErrors.WithLabelValues(name, "get").Inc()
			log.Warn().Err(err).Str("key", fullKey).Msg("Cache read failed, loading directly")
		case ok:
			var v T
			decodeErr := json.Unmarshal(raw, &v)
			if decodeErr == nil {
				metrics.RecordCacheLookup(name, true)
				return v, nil
			}
			metrics.CacheErrors.WithLabelValues(name, "decode").Inc()
			log.Warn().Err(decodeErr).Str("key", fullKey).Msg("Cached value is corrupt, reloading")
		}
		metrics.RecordCacheLookup(name, false)

		v, err := loader(ctx, key)
		if err != nil {
			return v, err
		}

		encoded, err := json.Marshal(v)
		if err != nil {
			metrics.CacheErrors.WithLabelValues(name, "encode").Inc()
			log.Warn().Err(err).Str("key", fullKey).Msg("Value not cacheable")
			return v, nil
		}
		if err := m.backend.Set(ctx, fullKey, encoded, m.timeout); err != nil {
			metrics.CacheErrors.WithLabelValues(name, "set").Inc()
			log.Warn().Err(err).Str("key", fullKey).Msg("Cache write failed")
		}
		return v, nil
	}
}
