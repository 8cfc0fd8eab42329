// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/opsboard/internal/models"
)

// fixedNow is the clock shared by datasource tests.
var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// stubProvider returns a fixed dataset and counts calls.
type stubProvider struct {
	mu    sync.Mutex
	calls int
	data  models.Dataset
	err   error
}

func (p *stubProvider) Name() string { return "STUB" }

func (p *stubProvider) Load(_ context.Context) (models.Dataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.data.Clone(), nil
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func makeRows(n int) models.Dataset {
	ds := make(models.Dataset, n)
	start := models.NewDate(2026, time.January, 1)
	for i := range ds {
		ds[i] = models.Record{
			Date:    start.AddDays(i % 60),
			Product: "Alpha",
			Region:  "EMEA",
			System:  "Payments",
			Team:    "Platform",
			Owner:   "alice",
			Status:  models.StatusGreen,
			Revenue: float64(1000 + i),
			Cost:    float64(400 + i),
		}
	}
	return ds
}
