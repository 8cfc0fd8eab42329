// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tomtom215/opsboard/internal/models"
)

// Synthetic vocabularies.
var (
	SyntheticProducts = []string{"Alpha", "Beta", "Gamma", "Delta"}
	SyntheticRegions  = []string{"APAC", "EMEA", "AMER", "India"}
	SyntheticSystems  = []string{"Payments", "CoreBanking", "DataLake", "API-Gateway", "Mobile", "Web"}
	SyntheticTeams    = []string{"Platform", "Retail", "Corporate", "Data", "Integration"}
	SyntheticOwners   = []string{"alice", "bob", "carol", "dave", "erin"}
)

const (
	syntheticDays = 91

	revenueMean  = 100000
	revenueSD    = 25000
	revenueFloor = 1000
	costMean     = 60000
	costSD       = 15000
	costFloor    = 500
)

// SyntheticProvider generates a deterministic demo dataset. For a fixed seed,
// row count and calendar day the output is identical on every call.
type SyntheticProvider struct {
	rows int
	seed uint64
	now  func() time.Time
}

// NewSyntheticProvider creates a generator for rows rows.
func NewSyntheticProvider(rows int, seed uint64, now func() time.Time) *SyntheticProvider {
	if now == nil {
		now = time.Now
	}
	return &SyntheticProvider{rows: rows, seed: seed, now: now}
}

// Name implements Provider.
func (p *SyntheticProvider) Name() string { return NameSynthetic }

// Load implements Provider. Dates are drawn from the 91 days ending today;
// profit is left for the repository.
func (p *SyntheticProvider) Load(ctx context.Context) (models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(p.seed, p.seed))
	first := models.DateOf(p.now()).AddDays(-(syntheticDays - 1))

	ds := make(models.Dataset, p.rows)
	for i := range ds {
		ds[i] = models.Record{
			Date:    first.AddDays(rng.IntN(syntheticDays)),
			Product: pick(rng, SyntheticProducts),
			Region:  pick(rng, SyntheticRegions),
			System:  pick(rng, SyntheticSystems),
			Team:    pick(rng, SyntheticTeams),
			Owner:   pick(rng, SyntheticOwners),
			Status:  pickStatus(rng),
			Revenue: math.Max(rng.NormFloat64()*revenueSD+revenueMean, revenueFloor),
			Cost:    math.Max(rng.NormFloat64()*costSD+costMean, costFloor),
			Profit:  math.NaN(),
		}
	}
	return ds, nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// pickStatus draws Green/Amber/Red with weights 0.7/0.2/0.1.
func pickStatus(rng *rand.Rand) models.Status {
	u := rng.Float64()
	switch {
	case u < 0.7:
		return models.StatusGreen
	case u < 0.9:
		return models.StatusAmber
	default:
		return models.StatusRed
	}
}
