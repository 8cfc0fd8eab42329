// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/opsboard/internal/logging"
)

// Defaults for BadgerGCService.
const (
	DefaultGCInterval     = 5 * time.Minute
	DefaultGCDiscardRatio = 0.5
)

// GarbageCollector reclaims value-log space.
// Satisfied by *cache.BadgerBackend.
type GarbageCollector interface {
	RunGC(discardRatio float64) (int, error)
}

// BadgerGCService runs value-log GC on a fixed interval. Daily snapshots are
// rewritten under new keys, so without GC the log only grows. GC errors are
// logged and do not stop the service.
type BadgerGCService struct {
	gc           GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewBadgerGCService wraps gc. Non-positive values select the defaults.
func NewBadgerGCService(gc GarbageCollector, interval time.Duration, discardRatio float64) *BadgerGCService {
	if interval <= 0 {
		interval = DefaultGCInterval
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = DefaultGCDiscardRatio
	}
	return &BadgerGCService{
		gc:           gc,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "badger-gc",
	}
}

// Serve implements suture.Service.
func (b *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rewritten, err := b.gc.RunGC(b.discardRatio)
			if err != nil {
				logging.Warn().Err(err).Msg("Badger value log GC failed")
				continue
			}
			if rewritten > 0 {
				logging.Debug().Int("files", rewritten).Msg("Badger value log GC reclaimed space")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (b *BadgerGCService) String() string {
	return b.name
}
