// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/tomtom215/opsboard/internal/cache"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
	"github.com/tomtom215/opsboard/internal/models"
)

// sampleSeed fixes the row-cap sample so the same upstream data always yields
// the same capped dataset.
const sampleSeed = 1

// CacheNamespace is the memoizer namespace for dataset snapshots.
const CacheNamespace = "dataset"

// DayKey returns the cache key for the calendar day of now (YYYY-MM-DD).
func DayKey(now time.Time) string {
	return now.Format(models.DateLayout)
}

// ForceKey returns a key unique to the current second, which bypasses any
// value cached under the day key.
func ForceKey(now time.Time) string {
	return DayKey(now) + "__" + strconv.FormatInt(now.Unix(), 10)
}

// Repository is the single entry point for dataset access.
type Repository struct {
	provider Provider
	maxRows  int
	now      func() time.Time
	load     cache.Loader[models.Dataset]
}

// NewRepository wires provider through memoizer. now may be nil.
func NewRepository(provider Provider, memoizer cache.Memoizer[models.Dataset], maxRows int, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	r := &Repository{
		provider: provider,
		maxRows:  maxRows,
		now:      now,
	}
	r.load = memoizer.Memoize(func(ctx context.Context, _ string) (models.Dataset, error) {
		return r.LoadUncached(ctx)
	})
	return r
}

// ProviderName reports the active provider.
func (r *Repository) ProviderName() string {
	return r.provider.Name()
}

// LoadUncached loads from the provider, caps to maxRows with a seeded sample,
// normalizes dates and recomputes profit.
func (r *Repository) LoadUncached(ctx context.Context) (models.Dataset, error) {
	start := time.Now()
	name := r.provider.Name()

	ds, err := r.provider.Load(ctx)
	if err != nil {
		metrics.RecordDatasetLoad(name, time.Since(start), 0, 0, err)
		logging.Ctx(ctx).Error().Err(err).Str("provider", name).Msg("Dataset load failed")
		return nil, err
	}

	dropped := 0
	if r.maxRows > 0 && len(ds) > r.maxRows {
		dropped = len(ds) - r.maxRows
		ds = sampleRows(ds, r.maxRows, sampleSeed)
	}
	ds.NormalizeDates()
	ds.RecomputeProfit()

	metrics.RecordDatasetLoad(name, time.Since(start), len(ds), dropped, nil)
	logging.Ctx(ctx).Info().
		Str("provider", name).
		Int("rows", len(ds)).
		Int("dropped", dropped).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")
	return ds, nil
}

// LoadCached returns the snapshot for key, loading it on the first call.
// The returned dataset may be shared; callers outside this package use GetData.
func (r *Repository) LoadCached(ctx context.Context, key string) (models.Dataset, error) {
	return r.load(ctx, key)
}

// GetData returns a private copy of the snapshot for forceKey, or for
// today's day key when forceKey is empty.
func (r *Repository) GetData(ctx context.Context, forceKey string) (models.Dataset, error) {
	key := forceKey
	if key == "" {
		key = DayKey(r.now())
	}
	ds, err := r.LoadCached(ctx, key)
	if err != nil {
		return nil, err
	}
	return ds.Clone(), nil
}

// Warm loads today's snapshot so the first request does not pay for it.
// It returns the snapshot size.
func (r *Repository) Warm(ctx context.Context) (int, error) {
	ds, err := r.LoadCached(ctx, r.Today())
	if err != nil {
		return 0, err
	}
	return len(ds), nil
}

// Today returns the day key for the repository clock.
func (r *Repository) Today() string {
	return DayKey(r.now())
}

// NewForceKey returns a force key for the repository clock.
func (r *Repository) NewForceKey() string {
	return ForceKey(r.now())
}

// sampleRows returns k rows chosen uniformly without replacement using a
// partial Fisher-Yates shuffle over row indices.
func sampleRows(ds models.Dataset, k int, seed uint64) models.Dataset {
	rng := rand.New(rand.NewPCG(seed, seed))
	idx := make([]int, len(ds))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	out := make(models.Dataset, k)
	for i := 0; i < k; i++ {
		out[i] = ds[idx[i]]
	}
	return out
}
