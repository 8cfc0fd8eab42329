// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/opsboard/internal/metrics"
)

const memoryCleanupInterval = 5 * time.Minute

// entry is a stored value. A zero expiresAt never expires.
type entry struct {
	data      []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryBackend is a thread-safe in-process TTL map. A janitor goroutine
// removes expired entries every five minutes until Close is called.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryBackend creates a memory backend and starts its janitor.
func NewMemoryBackend() *MemoryBackend {
	return newMemoryBackend(time.Now, memoryCleanupInterval)
}

func newMemoryBackend(now func() time.Time, interval time.Duration) *MemoryBackend {
	m := &MemoryBackend{
		entries: make(map[string]entry),
		now:     now,
		stop:    make(chan struct{}),
	}
	go m.cleanupLoop(interval)
	return m
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Get returns a copy of the stored bytes. Expired entries are removed on read.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if e.expired(m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		metrics.CacheEvictions.WithLabelValues(m.Name()).Inc()
		return nil, false, nil
	}

	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true, nil
}

// Set stores a copy of value.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	size := len(m.entries)
	m.mu.Unlock()

	metrics.CacheSize.WithLabelValues(m.Name()).Set(float64(size))
	return nil
}

// Close stops the janitor. The stored entries stay readable.
func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryBackend) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes expired entries and returns how many it dropped.
func (m *MemoryBackend) cleanup() int {
	now := m.now()
	m.mu.Lock()
	evictions := 0
	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
			evictions++
		}
	}
	size := len(m.entries)
	m.mu.Unlock()

	if evictions > 0 {
		metrics.CacheEvictions.WithLabelValues(m.Name()).Add(float64(evictions))
	}
	metrics.CacheSize.WithLabelValues(m.Name()).Set(float64(size))
	return evictions
}
