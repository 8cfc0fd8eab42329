// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package models defines the dashboard's row model.

A Record is one day of one product in one region, run by one system and team.
Amounts may be null; null is carried as NaN in memory and as JSON null on
the wire. Dates are calendar days with no time or zone (Date), and may
also be null.

Key types:

  - Record: a single fact row with revenue, cost and derived profit
  - Dataset: an ordered slice of Records with copy and filter helpers
  - Date: a calendar day that scans from SQL and round-trips as YYYY-MM-DD
  - Status: Green, Amber or Red system health

Column names (ColumnDate, ColumnProduct, ...) are shared by providers, the
aggregation engine and the CSV export. ExportColumns fixes the export order.
*/
package models
