// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package analytics turns a dataset snapshot and a filter specification into the
values the dashboard renders.

The pipeline for one recompute is:

	spec, err := analytics.ParseControls(controls)   // *ValidationError on bad input
	rows := analytics.Filter(ds, spec)
	kpis := analytics.ComputeKPIs(rows, spec.ReferenceDate(now))
	grouped := analytics.Aggregate(rows, spec.GroupBy, spec.Agg)
	trend := analytics.Trend(rows)
	health := analytics.SystemHealth(rows)
	workload := analytics.WorkloadByTeam(rows)

Every function is pure: inputs are never modified and an empty dataset yields
empty, well-shaped results rather than an error. Figure builders render these
results as chart payloads and WriteCSV renders the filtered rows for export.

Null markers from the models package are respected throughout: NaN amounts are
skipped by sums and means, and rows with an empty grouping key are left out of
grouped views.
*/
package analytics
