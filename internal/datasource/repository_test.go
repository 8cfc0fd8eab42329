// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/opsboard/internal/cache"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/models"
)

func newTestRepository(t *testing.T, p Provider, maxRows int) *Repository {
	t.Helper()
	backend := cache.NewMemoryBackend()
	t.Cleanup(func() { _ = backend.Close() })
	memo := cache.NewMemoizer[models.Dataset](backend, time.Hour, CacheNamespace)
	return NewRepository(p, memo, maxRows, clock)
}

func TestDayKeyAndForceKey(t *testing.T) {
	if got := DayKey(fixedNow); got != "2026-03-15" {
		t.Errorf("DayKey() = %q, want %q", got, "2026-03-15")
	}
	want := "2026-03-15__" + "1773570600"
	if got := ForceKey(fixedNow); got != want {
		t.Errorf("ForceKey() = %q, want %q", got, want)
	}
}

func TestRepository_CapsDeterministically(t *testing.T) {
	p := &stubProvider{data: makeRows(100)}
	repo := newTestRepository(t, p, 10)

	a, err := repo.LoadUncached(context.Background())
	if err != nil {
		t.Fatalf("LoadUncached() error = %v", err)
	}
	b, err := repo.LoadUncached(context.Background())
	if err != nil {
		t.Fatalf("LoadUncached() error = %v", err)
	}

	if len(a) != 10 {
		t.Fatalf("len(LoadUncached()) = %d, want 10", len(a))
	}
	seen := map[float64]bool{}
	for i := range a {
		if a[i].Revenue != b[i].Revenue {
			t.Errorf("row %d differs between loads: %v vs %v", i, a[i].Revenue, b[i].Revenue)
		}
		if seen[a[i].Revenue] {
			t.Errorf("row with revenue %v sampled twice", a[i].Revenue)
		}
		seen[a[i].Revenue] = true
		if a[i].Revenue < 1000 || a[i].Revenue > 1099 {
			t.Errorf("sampled row revenue %v not from source", a[i].Revenue)
		}
	}
}

func TestRepository_NoCapBelowLimit(t *testing.T) {
	p := &stubProvider{data: makeRows(5)}
	repo := newTestRepository(t, p, 10)

	ds, err := repo.LoadUncached(context.Background())
	if err != nil {
		t.Fatalf("LoadUncached() error = %v", err)
	}
	if len(ds) != 5 {
		t.Errorf("len(LoadUncached()) = %d, want 5", len(ds))
	}
	for i := range ds {
		if ds[i].Revenue != float64(1000+i) {
			t.Errorf("row %d reordered without capping", i)
		}
	}
}

func TestRepository_RecomputesProfit(t *testing.T) {
	rows := makeRows(3)
	rows[0].Profit = 999999
	rows[1].Cost = math.NaN()
	p := &stubProvider{data: rows}
	repo := newTestRepository(t, p, 0)

	ds, err := repo.LoadUncached(context.Background())
	if err != nil {
		t.Fatalf("LoadUncached() error = %v", err)
	}
	if ds[0].Profit != ds[0].Revenue-ds[0].Cost {
		t.Errorf("profit = %v, want revenue-cost %v", ds[0].Profit, ds[0].Revenue-ds[0].Cost)
	}
	if !math.IsNaN(ds[1].Profit) {
		t.Errorf("profit with null cost = %v, want NaN", ds[1].Profit)
	}
}

func TestRepository_GetDataMemoizesPerKey(t *testing.T) {
	p := &stubProvider{data: makeRows(4)}
	repo := newTestRepository(t, p, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.GetData(ctx, ""); err != nil {
			t.Fatalf("GetData() error = %v", err)
		}
	}
	if p.Calls() != 1 {
		t.Errorf("provider calls after three same-day reads = %d, want 1", p.Calls())
	}

	if _, err := repo.GetData(ctx, repo.NewForceKey()); err != nil {
		t.Fatalf("GetData(force) error = %v", err)
	}
	if p.Calls() != 2 {
		t.Errorf("provider calls after forced refresh = %d, want 2", p.Calls())
	}
}

func TestRepository_WarmFillsTodaysSnapshot(t *testing.T) {
	p := &stubProvider{data: makeRows(5)}
	repo := newTestRepository(t, p, 0)
	ctx := context.Background()

	n, err := repo.Warm(ctx)
	if err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Warm() = %d, want 5", n)
	}
	if _, err := repo.GetData(ctx, ""); err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	if p.Calls() != 1 {
		t.Errorf("provider calls after warm and read = %d, want 1", p.Calls())
	}
}

func TestRepository_GetDataReturnsPrivateCopy(t *testing.T) {
	p := &stubProvider{data: makeRows(2)}
	repo := newTestRepository(t, p, 0)
	ctx := context.Background()

	first, err := repo.GetData(ctx, "")
	if err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	first[0].Product = "mutated"
	first[0].Revenue = -1

	second, err := repo.GetData(ctx, "")
	if err != nil {
		t.Fatalf("GetData() error = %v", err)
	}
	if second[0].Product != "Alpha" || second[0].Revenue != 1000 {
		t.Errorf("GetData() row 0 = %+v, caller mutation leaked", second[0])
	}
}

func TestRepository_ErrorsAreNotCached(t *testing.T) {
	p := &stubProvider{err: errors.New("upstream unavailable")}
	repo := newTestRepository(t, p, 0)
	ctx := context.Background()

	if _, err := repo.GetData(ctx, ""); err == nil {
		t.Fatal("GetData() should surface the provider error")
	}

	p.mu.Lock()
	p.err = nil
	p.data = makeRows(1)
	p.mu.Unlock()

	ds, err := repo.GetData(ctx, "")
	if err != nil {
		t.Fatalf("GetData() after recovery error = %v", err)
	}
	if len(ds) != 1 {
		t.Errorf("len(GetData()) = %d, want 1", len(ds))
	}
	if p.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", p.Calls())
	}
}

func TestRepository_PassthroughWithoutBackend(t *testing.T) {
	p := &stubProvider{data: makeRows(1)}
	repo := NewRepository(p, cache.NewMemoizer[models.Dataset](nil, 0, CacheNamespace), 0, clock)

	for i := 0; i < 2; i++ {
		if _, err := repo.GetData(context.Background(), ""); err != nil {
			t.Fatalf("GetData() error = %v", err)
		}
	}
	if p.Calls() != 2 {
		t.Errorf("provider calls without cache = %d, want 2", p.Calls())
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"SYNTHETIC", NameSynthetic},
		{"rest", NameREST},
		{" Sql ", NameSQL},
		{"kafka", NameSynthetic},
		{"", NameSynthetic},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			cfg := &config.Config{Data: config.DataConfig{Source: tt.source, MaxRows: 10, Seed: 42}}
			if got := NewProvider(cfg, Options{Now: clock}).Name(); got != tt.want {
				t.Errorf("NewProvider(%q).Name() = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
