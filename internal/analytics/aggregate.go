// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"math"
	"sort"

	"github.com/tomtom215/opsboard/internal/models"
)

// GroupedSeries holds per-group revenue, cost and profit. The slices are
// aligned with Keys, which are in ascending order.
type GroupedSeries struct {
	Dimension string    `json:"dimension"`
	Keys      []string  `json:"keys"`
	Revenue   []float64 `json:"revenue"`
	Cost      []float64 `json:"cost"`
	Profit    []float64 `json:"profit"`
}

// Len returns the number of groups.
func (g GroupedSeries) Len() int { return len(g.Keys) }

// TimeSeries is profit per calendar date in ascending date order.
type TimeSeries struct {
	Dates  []string  `json:"dates"`
	Profit []float64 `json:"profit"`
}

// NamedCounts is one series of a stacked chart.
type NamedCounts struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

// StackedSeries holds one count series per status aligned on Categories.
type StackedSeries struct {
	Categories []string      `json:"categories"`
	Series     []NamedCounts `json:"series"`
}

// CountSeries is a row count per label.
type CountSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// accumulator sums one amount column, ignoring nulls.
type accumulator struct {
	sum float64
	n   int
}

func (a *accumulator) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	a.sum += v
	a.n++
}

func (a accumulator) result(mode AggMode) float64 {
	if mode == AggMean {
		if a.n == 0 {
			return math.NaN()
		}
		return a.sum / float64(a.n)
	}
	return a.sum
}

type groupAcc struct {
	revenue, cost, profit accumulator
}

// Aggregate groups ds by the named dimension and combines revenue, cost and
// profit with mode. Rows with an empty key are left out. A mean over a group
// whose values are all null is NaN; the matching sum is 0.
func Aggregate(ds models.Dataset, dimension string, mode AggMode) GroupedSeries {
	groups := make(map[string]*groupAcc)
	for i := range ds {
		key, ok := ds[i].Dimension(dimension)
		if !ok || key == "" {
			continue
		}
		g := groups[key]
		if g == nil {
			g = &groupAcc{}
			groups[key] = g
		}
		g.revenue.add(ds[i].Revenue)
		g.cost.add(ds[i].Cost)
		g.profit.add(ds[i].Profit)
	}

	keys := sortedKeys(groups)
	out := GroupedSeries{
		Dimension: dimension,
		Keys:      keys,
		Revenue:   make([]float64, len(keys)),
		Cost:      make([]float64, len(keys)),
		Profit:    make([]float64, len(keys)),
	}
	for i, k := range keys {
		g := groups[k]
		out.Revenue[i] = g.revenue.result(mode)
		out.Cost[i] = g.cost.result(mode)
		out.Profit[i] = g.profit.result(mode)
	}
	return out
}

// Trend sums profit per date. Rows without a date are left out.
func Trend(ds models.Dataset) TimeSeries {
	totals := make(map[string]*accumulator)
	for i := range ds {
		if ds[i].Date.IsZero() {
			continue
		}
		key := ds[i].Date.String()
		acc := totals[key]
		if acc == nil {
			acc = &accumulator{}
			totals[key] = acc
		}
		acc.add(ds[i].Profit)
	}

	dates := sortedKeys(totals)
	out := TimeSeries{Dates: dates, Profit: make([]float64, len(dates))}
	for i, d := range dates {
		out.Profit[i] = totals[d].sum
	}
	return out
}

// SystemHealth counts rows per system and status. Each status in
// models.Statuses order gets a series with one value per system, zero filled.
func SystemHealth(ds models.Dataset) StackedSeries {
	statuses := models.Statuses()
	counts := make(map[string][]int)
	for i := range ds {
		r := &ds[i]
		if r.System == "" {
			continue
		}
		idx := statusIndex(r.Status)
		if idx < 0 {
			continue
		}
		c := counts[r.System]
		if c == nil {
			c = make([]int, len(statuses))
			counts[r.System] = c
		}
		c[idx]++
	}

	systems := sortedKeys(counts)
	out := StackedSeries{Categories: systems, Series: make([]NamedCounts, len(statuses))}
	for s, status := range statuses {
		values := make([]int, len(systems))
		for i, sys := range systems {
			values[i] = counts[sys][s]
		}
		out.Series[s] = NamedCounts{Name: string(status), Values: values}
	}
	return out
}

// WorkloadByTeam counts rows per team in team order.
func WorkloadByTeam(ds models.Dataset) CountSeries {
	counts := make(map[string]int)
	for i := range ds {
		if ds[i].Team != "" {
			counts[ds[i].Team]++
		}
	}

	teams := sortedKeys(counts)
	out := CountSeries{Labels: teams, Values: make([]int, len(teams))}
	for i, t := range teams {
		out.Values[i] = counts[t]
	}
	return out
}

func statusIndex(s models.Status) int {
	for i, status := range models.Statuses() {
		if s == status {
			return i
		}
	}
	return -1
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
