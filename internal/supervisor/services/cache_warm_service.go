// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/opsboard/internal/logging"
)

// Warmer loads today's dataset snapshot into the cache.
// Satisfied by *datasource.Repository.
type Warmer interface {
	Warm(ctx context.Context) (int, error)
}

// CacheWarmService fills the snapshot cache at startup. A failed load is
// returned so the supervisor retries it with backoff; after a successful load
// the service retires with suture.ErrDoNotRestart.
type CacheWarmService struct {
	warmer  Warmer
	timeout time.Duration
	name    string
}

// NewCacheWarmService wraps warmer. timeout bounds a single load attempt;
// zero means no bound beyond the supervisor context.
func NewCacheWarmService(warmer Warmer, timeout time.Duration) *CacheWarmService {
	return &CacheWarmService{warmer: warmer, timeout: timeout, name: "cache-warm"}
}

// Serve implements suture.Service.
func (c *CacheWarmService) Serve(ctx context.Context) error {
	loadCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := c.warmer.Warm(loadCtx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("cache warm failed: %w", err)
	}

	logging.Info().Int("rows", rows).Dur("duration", time.Since(start)).Msg("Dataset cache warmed")
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for supervisor logs.
func (c *CacheWarmService) String() string {
	return c.name
}
