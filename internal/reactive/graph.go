// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package reactive implements a small dependency graph of named signals.
//
// A Binding reads some signals and writes others. Trigger dependencies cause
// the binding to run when they change; state dependencies are read but never
// cause a run. Bindings execute synchronously in a fixed topological order and
// a session publishes all outputs of one update as a single snapshot, so no
// consumer ever observes a partially recomputed state.
package reactive

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Values maps signal names to values.
type Values map[string]interface{}

type noUpdate struct{}

// NoUpdate may be returned as an output value to leave that output unchanged
// and keep it from triggering downstream bindings.
var NoUpdate interface{} = noUpdate{}

// Dependency is one signal read by a binding.
type Dependency struct {
	Signal  string
	Trigger bool
}

// Input declares a triggering dependency.
func Input(signal string) Dependency {
	return Dependency{Signal: signal, Trigger: true}
}

// State declares a dependency that is read but does not trigger.
func State(signal string) Dependency {
	return Dependency{Signal: signal}
}

// ComputeFunc maps the current dependency values to output values.
type ComputeFunc func(ctx context.Context, in Values) (Values, error)

// Binding is one node of the graph.
type Binding struct {
	Name    string
	Deps    []Dependency
	Outputs []string
	Compute ComputeFunc

	// PreventInitial skips the binding on the initial pass unless one of its
	// triggers is produced by another binding during that pass.
	PreventInitial bool
}

// Graph errors.
var (
	ErrDuplicateOutput = errors.New("reactive: signal has more than one producer")
	ErrCycle           = errors.New("reactive: dependency cycle")
	ErrInvalidBinding  = errors.New("reactive: invalid binding")
)

// BindingError wraps a failure returned by a binding's ComputeFunc.
type BindingError struct {
	Binding string
	Err     error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding %s: %v", e.Binding, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }

// Graph is an immutable, validated set of bindings.
type Graph struct {
	bindings []Binding
	order    []int
	producer map[string]int
}

// NewGraph validates bindings and fixes their execution order. Ties between
// independent bindings are broken by declaration order.
func NewGraph(bindings ...Binding) (*Graph, error) {
	g := &Graph{
		bindings: bindings,
		producer: make(map[string]int),
	}
	for i, b := range bindings {
		if b.Name == "" || b.Compute == nil || len(b.Outputs) == 0 {
			return nil, fmt.Errorf("%w: %q needs a name, outputs and a compute function", ErrInvalidBinding, b.Name)
		}
		for _, out := range b.Outputs {
			if prev, ok := g.producer[out]; ok {
				return nil, fmt.Errorf("%w: %s written by %s and %s", ErrDuplicateOutput, out, bindings[prev].Name, b.Name)
			}
			g.producer[out] = i
		}
	}

	order, err := g.topoSort()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// topoSort orders bindings so every producer runs before its consumers.
func (g *Graph) topoSort() ([]int, error) {
	n := len(g.bindings)
	indegree := make([]int, n)
	consumers := make([][]int, n)

	for i, b := range g.bindings {
		seen := make(map[int]bool)
		for _, dep := range b.Deps {
			p, ok := g.producer[dep.Signal]
			if !ok || seen[p] {
				continue
			}
			if p == i {
				return nil, fmt.Errorf("%w: %s reads its own output %s", ErrCycle, b.Name, dep.Signal)
			}
			seen[p] = true
			consumers[p] = append(consumers[p], i)
			indegree[i]++
		}
	}

	order := make([]int, 0, n)
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	for len(ready) > 0 {
		slices.Sort(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, c := range consumers[next] {
			indegree[c]--
			if indegree[c] == 0 {
				ready = append(ready, c)
			}
		}
	}
	if len(order) != n {
		return nil, ErrCycle
	}
	return order, nil
}

// Order returns binding names in execution order.
func (g *Graph) Order() []string {
	names := make([]string, len(g.order))
	for i, idx := range g.order {
		names[i] = g.bindings[idx].Name
	}
	return names
}

// Produced reports whether signal is written by some binding.
func (g *Graph) Produced(signal string) bool {
	_, ok := g.producer[signal]
	return ok
}

// run recomputes the graph over values in place. changed holds the signals
// that changed before the run; it is extended with every output written.
func (g *Graph) run(ctx context.Context, values Values, changed map[string]bool, initial bool) error {
	produced := make(map[string]bool)

	for _, idx := range g.order {
		b := &g.bindings[idx]
		if !g.shouldRun(b, changed, produced, initial) {
			continue
		}

		in := make(Values, len(b.Deps))
		for _, dep := range b.Deps {
			in[dep.Signal] = values[dep.Signal]
		}

		out, err := b.Compute(ctx, in)
		if err != nil {
			return &BindingError{Binding: b.Name, Err: err}
		}
		for _, name := range b.Outputs {
			v, ok := out[name]
			if _, skip := v.(noUpdate); !ok || skip {
				continue
			}
			values[name] = v
			changed[name] = true
			produced[name] = true
		}
	}
	return nil
}

func (g *Graph) shouldRun(b *Binding, changed, produced map[string]bool, initial bool) bool {
	if initial && !b.PreventInitial {
		return true
	}
	for _, dep := range b.Deps {
		if !dep.Trigger {
			continue
		}
		if initial && produced[dep.Signal] {
			return true
		}
		if !initial && changed[dep.Signal] {
			return true
		}
	}
	return false
}
