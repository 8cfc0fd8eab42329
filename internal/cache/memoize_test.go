// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/opsboard/internal/config"
)

type payload struct {
	Rows []int  `json:"rows"`
	Tag  string `json:"tag"`
}

func countingLoader(calls *int32) Loader[payload] {
	return func(_ context.Context, key string) (payload, error) {
		n := atomic.AddInt32(calls, 1)
		return payload{Rows: []int{int(n)}, Tag: key}, nil
	}
}

func TestMemoizeOncePerKey(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	var calls int32
	load := NewMemoizer[payload](backend, time.Hour, "dataset").Memoize(countingLoader(&calls))
	ctx := context.Background()

	first, err := load(ctx, "2024-05-01")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	second, _ := load(ctx, "2024-05-01")
	if calls != 1 {
		t.Errorf("loader calls = %d, want 1", calls)
	}
	if first.Rows[0] != second.Rows[0] || second.Tag != "2024-05-01" {
		t.Errorf("cached value = %+v, want %+v", second, first)
	}

	if _, err := load(ctx, "2024-05-01__1714550000"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("loader calls after new key = %d, want 2", calls)
	}

	if _, ok, _ := backend.Get(ctx, "opsboard:dataset:2024-05-01"); !ok {
		t.Error("value not stored under opsboard:dataset:<key>")
	}
}

func TestMemoizeDoesNotCacheErrors(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	var calls int32
	boom := errors.New("provider down")
	load := NewMemoizer[payload](backend, time.Hour, "dataset").Memoize(
		func(context.Context, string) (payload, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return payload{}, boom
			}
			return payload{Tag: "ok"}, nil
		})

	if _, err := load(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("first load() error = %v, want %v", err, boom)
	}
	got, err := load(context.Background(), "k")
	if err != nil || got.Tag != "ok" {
		t.Errorf("second load() = %+v, %v; want retry to succeed", got, err)
	}
	if calls != 2 {
		t.Errorf("loader calls = %d, want 2", calls)
	}
}

func TestMemoizePassthrough(t *testing.T) {
	var calls int32
	load := NewMemoizer[payload](nil, time.Hour, "dataset").Memoize(countingLoader(&calls))

	for i := 0; i < 3; i++ {
		if _, err := load(context.Background(), "same"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Errorf("loader calls = %d, want 3 without a backend", calls)
	}
}

type brokenBackend struct{ sets int32 }

func (b *brokenBackend) Name() string { return "broken" }
func (b *brokenBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}
func (b *brokenBackend) Set(context.Context, string, []byte, time.Duration) error {
	atomic.AddInt32(&b.sets, 1)
	return errors.New("connection reset")
}
func (b *brokenBackend) Close() error { return nil }

func TestMemoizeDegradesOnBackendFailure(t *testing.T) {
	var calls int32
	b := &brokenBackend{}
	load := NewMemoizer[payload](b, time.Hour, "dataset").Memoize(countingLoader(&calls))

	got, err := load(context.Background(), "k")
	if err != nil {
		t.Fatalf("load() error = %v, want backend failure to be absorbed", err)
	}
	if got.Tag != "k" || calls != 1 || b.sets != 1 {
		t.Errorf("load() = %+v, calls %d, sets %d", got, calls, b.sets)
	}
}

func TestMemoizeReloadsCorruptValue(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()
	ctx := context.Background()
	_ = backend.Set(ctx, "opsboard:dataset:k", []byte("{not json"), 0)

	var calls int32
	load := NewMemoizer[payload](backend, 0, "dataset").Memoize(countingLoader(&calls))
	if _, err := load(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("loader calls = %d, want 1", calls)
	}
	if _, err := load(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("loader calls after repair = %d, want 1", calls)
	}
}

func TestNewBackend(t *testing.T) {
	ctx := context.Background()

	none, err := NewBackend(ctx, &config.CacheConfig{Type: config.CacheNone})
	if err != nil || none != nil {
		t.Errorf("NewBackend(none) = %v, %v; want nil, nil", none, err)
	}

	mem, err := NewBackend(ctx, &config.CacheConfig{Type: config.CacheMemory})
	if err != nil || mem.Name() != "memory" {
		t.Fatalf("NewBackend(memory) = %v, %v", mem, err)
	}
	_ = mem.Close()

	fallback, err := NewBackend(ctx, &config.CacheConfig{Type: config.CacheRedis, RedisURL: "redis://127.0.0.1:1/0"})
	if err != nil {
		t.Fatalf("NewBackend(unreachable redis) error = %v, want fallback", err)
	}
	if fallback.Name() != "memory" {
		t.Errorf("fallback backend = %s, want memory", fallback.Name())
	}
	_ = fallback.Close()

	bdg, err := NewBackend(ctx, &config.CacheConfig{Type: config.CacheBadger, Dir: t.TempDir()})
	if err != nil || bdg.Name() != "badger" {
		t.Fatalf("NewBackend(badger) = %v, %v", bdg, err)
	}
	_ = bdg.Close()

	if _, err := NewBackend(ctx, &config.CacheConfig{Type: "memcached"}); err == nil {
		t.Error("NewBackend(memcached) error = nil, want error")
	}
}
