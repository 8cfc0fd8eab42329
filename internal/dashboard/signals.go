// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package dashboard binds the dashboard controls to the analytics engine.
//
// Each client session owns a reactive graph with three bindings:
//
//	data-store   refresh-btn.n_clicks (state: claims-store.data)
//	             -> data-store.data, data-store.status
//	update-viz   data-store.data + every filter control
//	             -> kpi-*, *-graph, detail-table.data, debug-msg.children
//	export-csv   export-btn.n_clicks (state: detail-table.data)
//	             -> download-data.data
//
// Signal names follow the component-id.property convention of the web client.
package dashboard

// Input signals.
const (
	SignalClaims        = "claims-store.data"
	SignalStartDate     = "date-range.start_date"
	SignalEndDate       = "date-range.end_date"
	SignalProducts      = "product-dd.value"
	SignalRegions       = "region-dd.value"
	SignalSystems       = "system-dd.value"
	SignalTeams         = "team-dd.value"
	SignalMinProfit     = "min-profit-slider.value"
	SignalOwnerQuery    = "search-owner.value"
	SignalAgg           = "agg-radio.value"
	SignalGroupBy       = "groupby-dd.value"
	SignalRefreshClicks = "refresh-btn.n_clicks"
	SignalExportClicks  = "export-btn.n_clicks"
)

// Store signals.
const (
	SignalData       = "data-store.data"
	SignalDataStatus = "data-store.status"
)

// Output signals.
const (
	OutputKPIRevenue   = "kpi-rev.children"
	OutputKPICost      = "kpi-cost.children"
	OutputKPIProfit    = "kpi-profit.children"
	OutputKPIRed       = "kpi-red.children"
	OutputRevenueGraph = "rev-by-dim-graph.figure"
	OutputTrendGraph   = "trend-graph.figure"
	OutputHealthGraph  = "system-health-graph.figure"
	OutputTeamGraph    = "team-workload-graph.figure"
	OutputTable        = "detail-table.data"
	OutputDebug        = "debug-msg.children"
	OutputDownload     = "download-data.data"
)

// controlSignals are the filter inputs of update-viz in binding order.
var controlSignals = []string{
	SignalStartDate, SignalEndDate, SignalProducts, SignalRegions, SignalSystems,
	SignalTeams, SignalMinProfit, SignalOwnerQuery, SignalAgg, SignalGroupBy,
}

var vizOutputs = []string{
	OutputKPIRevenue, OutputKPICost, OutputKPIProfit, OutputKPIRed,
	OutputRevenueGraph, OutputTrendGraph, OutputHealthGraph, OutputTeamGraph,
	OutputTable, OutputDebug,
}
