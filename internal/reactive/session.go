// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package reactive

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
)

// ErrNotStarted is returned by Set before Start has succeeded.
var ErrNotStarted = errors.New("reactive: session not started")

// Snapshot is the complete signal state after one update.
type Snapshot struct {
	Version uint64
	Values  Values
	Changed []string
}

// Session holds the signal values of one client. Updates are serialized and
// either publish every output of the update or none of them.
type Session struct {
	graph *Graph

	mu      sync.Mutex
	values  Values
	version uint64
	started bool
}

// NewSession creates an empty session over g.
func (g *Graph) NewSession() *Session {
	return &Session{graph: g, values: make(Values)}
}

// Start seeds the session with initial input values and runs the initial pass.
func (s *Session) Start(ctx context.Context, initial Values) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := maps.Clone(s.values)
	changed := make(map[string]bool, len(initial))
	for k, v := range initial {
		staged[k] = v
		changed[k] = true
	}
	if err := s.graph.run(ctx, staged, changed, true); err != nil {
		return Snapshot{}, err
	}
	s.started = true
	return s.publish(staged, changed), nil
}

// Set applies input changes and recomputes every binding they trigger.
// Values equal to the current ones still count as changes.
func (s *Session) Set(ctx context.Context, changes Values) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return Snapshot{}, ErrNotStarted
	}

	staged := maps.Clone(s.values)
	changed := make(map[string]bool, len(changes))
	for k, v := range changes {
		staged[k] = v
		changed[k] = true
	}
	if err := s.graph.run(ctx, staged, changed, false); err != nil {
		return Snapshot{}, err
	}
	return s.publish(staged, changed), nil
}

// Get returns the current value of signal.
func (s *Session) Get(signal string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[signal]
	return v, ok
}

// Snapshot returns the last published state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Version: s.version, Values: maps.Clone(s.values)}
}

// publish must be called with mu held.
func (s *Session) publish(staged Values, changed map[string]bool) Snapshot {
	s.values = staged
	s.version++

	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	slices.Sort(names)
	return Snapshot{Version: s.version, Values: maps.Clone(staged), Changed: names}
}
