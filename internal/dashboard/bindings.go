// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package dashboard

import (
	"context"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/models"
	"github.com/tomtom215/opsboard/internal/reactive"
)

func (d *Dashboard) bindings() []reactive.Binding {
	vizDeps := []reactive.Dependency{reactive.Input(SignalData)}
	for _, s := range controlSignals {
		vizDeps = append(vizDeps, reactive.Input(s))
	}
	vizDeps = append(vizDeps, reactive.State(SignalDataStatus), reactive.State(SignalClaims))

	return []reactive.Binding{
		{
			Name:    "data-store",
			Deps:    []reactive.Dependency{reactive.Input(SignalRefreshClicks), reactive.State(SignalClaims)},
			Outputs: []string{SignalData, SignalDataStatus},
			Compute: d.loadData,
		},
		{
			Name:           "update-viz",
			Deps:           vizDeps,
			Outputs:        vizOutputs,
			Compute:        d.updateViz,
			PreventInitial: true,
		},
		{
			Name:           "export-csv",
			Deps:           []reactive.Dependency{reactive.Input(SignalExportClicks), reactive.State(OutputTable)},
			Outputs:        []string{OutputDownload},
			Compute:        d.exportCSV,
			PreventInitial: true,
		},
	}
}

// loadData fills the data store on first render and on every refresh click.
func (d *Dashboard) loadData(ctx context.Context, in reactive.Values) (reactive.Values, error) {
	claims, _ := in[SignalClaims].(*auth.Claims)

	forceKey := ""
	if clicks, _ := in[SignalRefreshClicks].(int); clicks > 0 {
		forceKey = d.source.NewForceKey()
	}

	ds, status, err := d.Load(ctx, claims, forceKey)
	if err != nil {
		return nil, err
	}
	return reactive.Values{SignalData: ds, SignalDataStatus: status}, nil
}

func (d *Dashboard) updateViz(ctx context.Context, in reactive.Values) (reactive.Values, error) {
	ds, _ := in[SignalData].(models.Dataset)
	status, _ := in[SignalDataStatus].(string)
	claims, _ := in[SignalClaims].(*auth.Claims)

	out := d.render(ctx, TransportWebSocket, claims, ds, controlsFromValues(in), status)
	return reactive.Values{
		OutputKPIRevenue:   out.KPIs.Revenue,
		OutputKPICost:      out.KPIs.Cost,
		OutputKPIProfit:    out.KPIs.Profit,
		OutputKPIRed:       out.KPIs.RedSystems,
		OutputRevenueGraph: out.Figures.RevenueByDimension,
		OutputTrendGraph:   out.Figures.ProfitTrend,
		OutputHealthGraph:  out.Figures.SystemHealth,
		OutputTeamGraph:    out.Figures.TeamWorkload,
		OutputTable:        out.Table,
		OutputDebug:        out.Message,
	}, nil
}

// exportCSV only produces a file once the button has been clicked.
func (d *Dashboard) exportCSV(_ context.Context, in reactive.Values) (reactive.Values, error) {
	if clicks, _ := in[SignalExportClicks].(int); clicks <= 0 {
		return reactive.Values{OutputDownload: reactive.NoUpdate}, nil
	}
	rows, _ := in[OutputTable].(models.Dataset)
	dl, err := d.Export(rows, TransportWebSocket)
	if err != nil {
		return nil, err
	}
	return reactive.Values{OutputDownload: dl}, nil
}

func controlsToValues(c analytics.Controls) reactive.Values {
	return reactive.Values{
		SignalStartDate:  c.StartDate,
		SignalEndDate:    c.EndDate,
		SignalProducts:   c.Products,
		SignalRegions:    c.Regions,
		SignalSystems:    c.Systems,
		SignalTeams:      c.Teams,
		SignalMinProfit:  c.MinProfit,
		SignalOwnerQuery: c.OwnerQuery,
		SignalAgg:        c.Agg,
		SignalGroupBy:    c.GroupBy,
	}
}

func controlsFromValues(in reactive.Values) analytics.Controls {
	var c analytics.Controls
	c.StartDate, _ = in[SignalStartDate].(string)
	c.EndDate, _ = in[SignalEndDate].(string)
	c.Products, _ = in[SignalProducts].(analytics.StringList)
	c.Regions, _ = in[SignalRegions].(analytics.StringList)
	c.Systems, _ = in[SignalSystems].(analytics.StringList)
	c.Teams, _ = in[SignalTeams].(analytics.StringList)
	c.MinProfit, _ = in[SignalMinProfit].(*float64)
	c.OwnerQuery, _ = in[SignalOwnerQuery].(string)
	c.Agg, _ = in[SignalAgg].(string)
	c.GroupBy, _ = in[SignalGroupBy].(string)
	return c
}
