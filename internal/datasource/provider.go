// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package datasource loads analytics facts and hands out daily snapshots.
//
// A Provider produces a raw Dataset from one backend (synthetic generator,
// REST API or SQL database). The Repository sits on top of the configured
// provider: it caps row counts, normalizes dates, recomputes profit, caches
// the result per day and returns a private copy to every caller.
package datasource

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/models"
)

// Provider names as reported by Name and used as metric labels.
const (
	NameSynthetic = "SYNTHETIC"
	NameREST      = "REST"
	NameSQL       = "SQL"
)

// Provider loads the full raw dataset from one backend.
type Provider interface {
	Name() string
	Load(ctx context.Context) (models.Dataset, error)
}

// Options carries collaborators that tests replace. Zero values select the
// production defaults.
type Options struct {
	// Now is the clock used to anchor synthetic dates.
	Now func() time.Time

	// HTTPClient is used by the REST provider.
	HTTPClient *http.Client
}

func (o Options) now() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

// NewProvider selects a provider from DATA_SOURCE (case-insensitive).
// Unknown modes fall back to synthetic data.
func NewProvider(cfg *config.Config, opts Options) Provider {
	synthetic := NewSyntheticProvider(cfg.Data.MaxRows, cfg.Data.Seed, opts.now())

	switch strings.ToUpper(strings.TrimSpace(cfg.Data.Source)) {
	case NameREST:
		return NewRESTProvider(&cfg.Data, opts.HTTPClient, synthetic)
	case NameSQL:
		return NewSQLProvider(&cfg.Data, synthetic)
	default:
		return synthetic
	}
}
