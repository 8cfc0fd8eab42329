// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadger(t *testing.T) *BadgerBackend {
	t.Helper()
	b, err := NewBadgerBackend(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("NewBadgerBackend() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerBackendGetSet(t *testing.T) {
	b := newTestBadger(t)
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = ok %v, err %v; want miss", ok, err)
	}

	if err := b.Set(ctx, "k", []byte(`{"a":1}`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set(no ttl) error = %v", err)
	}

	got, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || string(got) != `{"a":1}` {
		t.Errorf("Get(k) = %q, %v, %v", got, ok, err)
	}
	if _, ok, _ := b.Get(ctx, "forever"); !ok {
		t.Error("Get(forever) missed")
	}
	if b.Name() != "badger" {
		t.Errorf("Name() = %q, want badger", b.Name())
	}
}

func TestBadgerBackendRunGCInMemory(t *testing.T) {
	b := newTestBadger(t)
	n, err := b.RunGC(DefaultGCDiscardRatio)
	if err != nil {
		t.Errorf("RunGC() error = %v, want nil", err)
	}
	if n != 0 {
		t.Errorf("RunGC() = %d, want 0", n)
	}
}

func TestOpenBadgerBackendOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b, err := OpenBadgerBackend(dir)
	if err != nil {
		t.Fatalf("OpenBadgerBackend() error = %v", err)
	}
	if err := b.Set(ctx, "persisted", []byte("yes"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerBackend(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "persisted")
	if err != nil || !ok || string(got) != "yes" {
		t.Errorf("Get(persisted) after reopen = %q, %v, %v", got, ok, err)
	}
}
