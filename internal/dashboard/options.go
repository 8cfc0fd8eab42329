// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package dashboard

import (
	"slices"
	"time"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/models"
)

// Control ranges.
const (
	DefaultRangeDays = 30
	DatePickerDays   = 365
	MinProfitMin     = -100000
	MinProfitMax     = 200000
	MinProfitStep    = 1000
	defaultSelection = 2
)

// Choice is one option of a select control.
type Choice struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slider describes a numeric range control.
type Slider struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Options are the choices offered by the controls.
type Options struct {
	Products  []string `json:"products"`
	Regions   []string `json:"regions"`
	Systems   []string `json:"systems"`
	Teams     []string `json:"teams"`
	GroupBy   []Choice `json:"groupby"`
	Agg       []Choice `json:"agg"`
	MinProfit Slider   `json:"min_profit"`
	DateMin   string   `json:"date_min"`
	DateMax   string   `json:"date_max"`
}

var groupByLabels = map[string]string{
	models.ColumnDate:    "By Date",
	models.ColumnProduct: "By Product",
	models.ColumnRegion:  "By Region",
	models.ColumnSystem:  "By System",
	models.ColumnTeam:    "By Team",
	models.ColumnStatus:  "By Status",
}

// BuildOptions derives control options from ds. Null values are not offered.
func BuildOptions(ds models.Dataset, now time.Time) Options {
	today := models.DateOf(now)

	groupBy := make([]Choice, len(analytics.GroupByOptions))
	for i, dim := range analytics.GroupByOptions {
		groupBy[i] = Choice{Label: groupByLabels[dim], Value: dim}
	}

	return Options{
		Products: distinct(ds, models.ColumnProduct),
		Regions:  distinct(ds, models.ColumnRegion),
		Systems:  distinct(ds, models.ColumnSystem),
		Teams:    distinct(ds, models.ColumnTeam),
		GroupBy:  groupBy,
		Agg: []Choice{
			{Label: "Sum", Value: string(analytics.AggSum)},
			{Label: "Average", Value: string(analytics.AggMean)},
		},
		MinProfit: Slider{Min: MinProfitMin, Max: MinProfitMax, Step: MinProfitStep},
		DateMin:   today.AddDays(-DatePickerDays).String(),
		DateMax:   today.String(),
	}
}

// DefaultControls is the initial control state: the last 30 days, the first
// two products and regions, a zero profit floor, summed by date.
func DefaultControls(opts Options, now time.Time) analytics.Controls {
	today := models.DateOf(now)
	minProfit := 0.0
	return analytics.Controls{
		StartDate: today.AddDays(-DefaultRangeDays).String(),
		EndDate:   today.String(),
		Products:  head(opts.Products, defaultSelection),
		Regions:   head(opts.Regions, defaultSelection),
		MinProfit: &minProfit,
		Agg:       string(analytics.DefaultAgg),
		GroupBy:   analytics.DefaultGroupBy,
	}
}

func distinct(ds models.Dataset, column string) []string {
	seen := make(map[string]struct{})
	for i := range ds {
		if v, ok := ds[i].Dimension(column); ok && v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func head(values []string, n int) analytics.StringList {
	if len(values) < n {
		n = len(values)
	}
	return analytics.StringList(slices.Clone(values[:n]))
}
