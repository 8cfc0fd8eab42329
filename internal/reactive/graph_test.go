// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package reactive

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

// counter records how often each binding ran.
type counter struct {
	mu   sync.Mutex
	runs map[string]int
}

func (c *counter) hit(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.runs == nil {
		c.runs = make(map[string]int)
	}
	c.runs[name]++
}

func (c *counter) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs[name]
}

// pipeline: load(refresh; state user) -> data; view(data, factor) -> result;
// export(click; state result) -> file.
func newPipeline(t *testing.T, c *counter) *Graph {
	t.Helper()
	g, err := NewGraph(
		Binding{
			Name:    "view",
			Deps:    []Dependency{Input("data"), Input("factor")},
			Outputs: []string{"result"},
			Compute: func(_ context.Context, in Values) (Values, error) {
				c.hit("view")
				data, _ := in["data"].(int)
				factor, _ := in["factor"].(int)
				return Values{"result": data * factor}, nil
			},
			PreventInitial: true,
		},
		Binding{
			Name:    "load",
			Deps:    []Dependency{Input("refresh"), State("user")},
			Outputs: []string{"data"},
			Compute: func(_ context.Context, in Values) (Values, error) {
				c.hit("load")
				n, _ := in["refresh"].(int)
				return Values{"data": 10 + n}, nil
			},
		},
		Binding{
			Name:    "export",
			Deps:    []Dependency{Input("click"), State("result")},
			Outputs: []string{"file"},
			Compute: func(_ context.Context, in Values) (Values, error) {
				c.hit("export")
				if n, _ := in["click"].(int); n == 0 {
					return Values{"file": NoUpdate}, nil
				}
				return Values{"file": in["result"]}, nil
			},
			PreventInitial: true,
		},
	)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	return g
}

func TestNewGraph_TopologicalOrder(t *testing.T) {
	g := newPipeline(t, &counter{})
	want := []string{"load", "view", "export"}
	if got := g.Order(); !reflect.DeepEqual(got, want) {
		t.Errorf("Order() = %v, want %v", got, want)
	}
	if !g.Produced("result") || g.Produced("factor") {
		t.Error("Produced() misreports producers")
	}
}

func TestNewGraph_Errors(t *testing.T) {
	noop := func(context.Context, Values) (Values, error) { return nil, nil }

	tests := []struct {
		name     string
		bindings []Binding
		want     error
	}{
		{
			name: "duplicate output",
			bindings: []Binding{
				{Name: "a", Outputs: []string{"x"}, Compute: noop},
				{Name: "b", Outputs: []string{"x"}, Compute: noop},
			},
			want: ErrDuplicateOutput,
		},
		{
			name: "cycle",
			bindings: []Binding{
				{Name: "a", Deps: []Dependency{Input("y")}, Outputs: []string{"x"}, Compute: noop},
				{Name: "b", Deps: []Dependency{Input("x")}, Outputs: []string{"y"}, Compute: noop},
			},
			want: ErrCycle,
		},
		{
			name: "self loop",
			bindings: []Binding{
				{Name: "a", Deps: []Dependency{State("x")}, Outputs: []string{"x"}, Compute: noop},
			},
			want: ErrCycle,
		},
		{
			name:     "missing compute",
			bindings: []Binding{{Name: "a", Outputs: []string{"x"}}},
			want:     ErrInvalidBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraph(tt.bindings...); !errors.Is(err, tt.want) {
				t.Errorf("NewGraph() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSession_InitialPass(t *testing.T) {
	c := &counter{}
	s := newPipeline(t, c).NewSession()

	snap, err := s.Start(context.Background(), Values{"refresh": 0, "factor": 2, "click": 0, "user": "ann"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if snap.Values["data"] != 10 || snap.Values["result"] != 20 {
		t.Errorf("Start() values = %v, want data=10 result=20", snap.Values)
	}
	if _, ok := snap.Values["file"]; ok {
		t.Error("export ran on the initial pass without a producer trigger")
	}
	if c.get("view") != 1 {
		t.Errorf("view runs = %d, want 1 (triggered by load output)", c.get("view"))
	}
	if c.get("export") != 0 {
		t.Errorf("export runs = %d, want 0", c.get("export"))
	}
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
}

func TestSession_SetRecomputesDownstreamOnly(t *testing.T) {
	c := &counter{}
	s := newPipeline(t, c).NewSession()
	ctx := context.Background()
	if _, err := s.Start(ctx, Values{"refresh": 0, "factor": 2, "click": 0}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	snap, err := s.Set(ctx, Values{"factor": 3})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if snap.Values["result"] != 30 {
		t.Errorf("result = %v, want 30", snap.Values["result"])
	}
	if c.get("load") != 1 {
		t.Errorf("load runs = %d, want 1; factor must not reload data", c.get("load"))
	}
	if !reflect.DeepEqual(snap.Changed, []string{"factor", "result"}) {
		t.Errorf("Changed = %v, want [factor result]", snap.Changed)
	}

	// State dependencies never trigger.
	if _, err := s.Set(ctx, Values{"user": "bob"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if c.get("load") != 1 {
		t.Errorf("load runs after state change = %d, want 1", c.get("load"))
	}

	snap, err = s.Set(ctx, Values{"refresh": 1})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if snap.Values["data"] != 11 || snap.Values["result"] != 33 {
		t.Errorf("after refresh values = %v, want data=11 result=33", snap.Values)
	}

	snap, err = s.Set(ctx, Values{"click": 1})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if snap.Values["file"] != 33 {
		t.Errorf("file = %v, want 33", snap.Values["file"])
	}
}

func TestSession_FailedUpdateIsNotPublished(t *testing.T) {
	boom := errors.New("boom")
	g, err := NewGraph(
		Binding{
			Name:    "first",
			Deps:    []Dependency{Input("in")},
			Outputs: []string{"a"},
			Compute: func(_ context.Context, in Values) (Values, error) {
				return Values{"a": in["in"]}, nil
			},
		},
		Binding{
			Name:    "second",
			Deps:    []Dependency{Input("a")},
			Outputs: []string{"b"},
			Compute: func(_ context.Context, in Values) (Values, error) {
				if in["a"] == "bad" {
					return nil, boom
				}
				return Values{"b": in["a"]}, nil
			},
		},
	)
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}

	s := g.NewSession()
	ctx := context.Background()
	if _, err := s.Start(ctx, Values{"in": "good"}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	_, err = s.Set(ctx, Values{"in": "bad"})
	var berr *BindingError
	if !errors.As(err, &berr) || berr.Binding != "second" || !errors.Is(err, boom) {
		t.Fatalf("Set() error = %v, want BindingError from second wrapping boom", err)
	}

	snap := s.Snapshot()
	if snap.Values["a"] != "good" || snap.Values["in"] != "good" {
		t.Errorf("Snapshot() = %v, want the state before the failed update", snap.Values)
	}
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
}

func TestSession_SetBeforeStart(t *testing.T) {
	s := newPipeline(t, &counter{}).NewSession()
	if _, err := s.Set(context.Background(), Values{"factor": 1}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Set() error = %v, want ErrNotStarted", err)
	}
}
