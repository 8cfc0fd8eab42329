// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/models"
)

// InvalidFiltersPrefix starts the status line when controls fail validation.
const InvalidFiltersPrefix = "Invalid filters: "

// Outputs are the rendered values of every bound output except the download.
type Outputs struct {
	KPIs    analytics.KPIText `json:"kpis"`
	Figures analytics.Figures `json:"figures"`
	Table   models.Dataset    `json:"table"`
	Message string            `json:"message"`

	// FilterError is set when the controls were rejected.
	FilterError string `json:"filter_error,omitempty"`
}

// EmptyOutputs is the placeholder state: dashes, blank charts, no rows.
func EmptyOutputs(message string) Outputs {
	return Outputs{
		KPIs:    analytics.EmptyKPIText(),
		Figures: analytics.EmptyFigures(),
		Table:   models.Dataset{},
		Message: message,
	}
}

// Render computes every output for ds under controls. An empty dataset yields
// EmptyOutputs. Invalid controls also yield EmptyOutputs, with the reason in
// Message and FilterError; the returned error is then an
// *analytics.ValidationError for callers that want to count it.
func Render(ds models.Dataset, c analytics.Controls, status string, now time.Time) (Outputs, error) {
	if len(ds) == 0 {
		return EmptyOutputs(status), nil
	}

	spec, err := analytics.ParseControls(c)
	if err != nil {
		out := EmptyOutputs(InvalidFiltersPrefix + err.Error())
		out.FilterError = err.Error()
		var verr *analytics.ValidationError
		if errors.As(err, &verr) {
			return out, verr
		}
		return out, err
	}

	rows := analytics.Filter(ds, spec)
	kpis := analytics.ComputeKPIs(rows, spec.ReferenceDate(now))

	return Outputs{
		KPIs: kpis.Format(),
		Figures: analytics.Figures{
			RevenueByDimension: analytics.RevenueCostFigure(analytics.Aggregate(rows, spec.GroupBy, spec.Agg)),
			ProfitTrend:        analytics.TrendFigure(analytics.Trend(rows)),
			SystemHealth:       analytics.SystemHealthFigure(analytics.SystemHealth(rows)),
			TeamWorkload:       analytics.WorkloadFigure(analytics.WorkloadByTeam(rows)),
		},
		Table:   rows,
		Message: status,
	}, nil
}

// StatusMessage describes the loaded dataset.
func StatusMessage(rows int, source string, claims *auth.Claims) string {
	role := auth.RoleDeveloper
	team := ""
	if claims != nil {
		role = claims.Role
		team = claims.Team
	}
	msg := fmt.Sprintf("Rows available: %d | Source: %s | Role: %s", rows, source, role)
	if team != "" {
		msg += " | Team: " + team
	}
	return msg
}
