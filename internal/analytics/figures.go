// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"math"
	"strings"
)

const chartBackground = "white"

// Trace is one plotted series. Null Y values are rendered as JSON null.
type Trace struct {
	Type string        `json:"type"`
	Mode string        `json:"mode,omitempty"`
	Name string        `json:"name"`
	X    []string      `json:"x"`
	Y    []interface{} `json:"y"`
}

// Layout is the chart layout.
type Layout struct {
	Title        string `json:"title,omitempty"`
	BarMode      string `json:"barmode,omitempty"`
	PaperBgColor string `json:"paper_bgcolor"`
	PlotBgColor  string `json:"plot_bgcolor"`
}

// Figure is a complete chart payload.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Figures holds the four dashboard charts.
type Figures struct {
	RevenueByDimension Figure `json:"rev-by-dim-graph"`
	ProfitTrend        Figure `json:"trend-graph"`
	SystemHealth       Figure `json:"system-health-graph"`
	TeamWorkload       Figure `json:"team-workload-graph"`
}

// EmptyFigure is a chart with no traces.
func EmptyFigure() Figure {
	return Figure{Data: []Trace{}, Layout: layout("", "")}
}

// EmptyFigures returns four empty charts.
func EmptyFigures() Figures {
	return Figures{
		RevenueByDimension: EmptyFigure(),
		ProfitTrend:        EmptyFigure(),
		SystemHealth:       EmptyFigure(),
		TeamWorkload:       EmptyFigure(),
	}
}

// RevenueCostFigure draws grouped revenue and cost bars.
func RevenueCostFigure(g GroupedSeries) Figure {
	return Figure{
		Data: []Trace{
			{Type: "bar", Name: "Revenue", X: g.Keys, Y: floats(g.Revenue)},
			{Type: "bar", Name: "Cost", X: g.Keys, Y: floats(g.Cost)},
		},
		Layout: layout("Revenue/Cost by "+capitalize(g.Dimension), "group"),
	}
}

// TrendFigure draws profit over time.
func TrendFigure(ts TimeSeries) Figure {
	return Figure{
		Data:   []Trace{{Type: "scatter", Mode: "lines+markers", Name: "Profit", X: ts.Dates, Y: floats(ts.Profit)}},
		Layout: layout("Profit Trend", ""),
	}
}

// SystemHealthFigure draws stacked status counts per system.
func SystemHealthFigure(s StackedSeries) Figure {
	traces := make([]Trace, len(s.Series))
	for i, series := range s.Series {
		traces[i] = Trace{Type: "bar", Name: series.Name, X: s.Categories, Y: ints(series.Values)}
	}
	return Figure{Data: traces, Layout: layout("System Health", "stack")}
}

// WorkloadFigure draws rows per team.
func WorkloadFigure(c CountSeries) Figure {
	return Figure{
		Data:   []Trace{{Type: "bar", Name: "Rows", X: c.Labels, Y: ints(c.Values)}},
		Layout: layout("Workload by Team", ""),
	}
}

func layout(title, barMode string) Layout {
	return Layout{
		Title:        title,
		BarMode:      barMode,
		PaperBgColor: chartBackground,
		PlotBgColor:  chartBackground,
	}
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func floats(values []float64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[i] = v
	}
	return out
}

func ints(values []int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
