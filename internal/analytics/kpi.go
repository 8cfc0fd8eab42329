// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"math"
	"strconv"

	"github.com/tomtom215/opsboard/internal/models"
)

// EmptyKPI is shown in every KPI card when there is nothing to summarize.
const EmptyKPI = "—"

// KPIs are the headline figures for a filtered dataset.
type KPIs struct {
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Profit     float64 `json:"profit"`
	RedSystems int     `json:"red_systems"`
}

// ComputeKPIs totals revenue, cost and profit, skipping null amounts, and
// counts distinct systems reporting Red on exactly referenceDate.
func ComputeKPIs(ds models.Dataset, referenceDate models.Date) KPIs {
	var k KPIs
	red := make(map[string]struct{})

	for i := range ds {
		r := &ds[i]
		k.Revenue += skipNaN(r.Revenue)
		k.Cost += skipNaN(r.Cost)
		k.Profit += skipNaN(r.Profit)

		if r.Status == models.StatusRed && r.System != "" && r.Date.Equal(referenceDate) {
			red[r.System] = struct{}{}
		}
	}
	k.RedSystems = len(red)
	return k
}

// KPIText is the rendered form of KPIs.
type KPIText struct {
	Revenue    string `json:"kpi_rev"`
	Cost       string `json:"kpi_cost"`
	Profit     string `json:"kpi_profit"`
	RedSystems string `json:"kpi_red"`
}

// Format renders the KPI cards.
func (k KPIs) Format() KPIText {
	return KPIText{
		Revenue:    FormatKPI(k.Revenue),
		Cost:       FormatKPI(k.Cost),
		Profit:     FormatKPI(k.Profit),
		RedSystems: strconv.Itoa(k.RedSystems),
	}
}

// EmptyKPIText renders every card as EmptyKPI.
func EmptyKPIText() KPIText {
	return KPIText{Revenue: EmptyKPI, Cost: EmptyKPI, Profit: EmptyKPI, RedSystems: EmptyKPI}
}

func skipNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
