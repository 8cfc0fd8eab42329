// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
	"github.com/tomtom215/opsboard/internal/models"
	"github.com/tomtom215/opsboard/internal/reactive"
)

// Transports used as metric labels.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
	TransportCLI       = "cli"
)

// DataSource hands out private dataset snapshots.
type DataSource interface {
	GetData(ctx context.Context, forceKey string) (models.Dataset, error)
	NewForceKey() string
	ProviderName() string
}

// Gate applies row-level security and region visibility for a caller.
type Gate interface {
	Narrow(ctx context.Context, claims *auth.Claims, ds models.Dataset) models.Dataset
	KPIsVisible(role auth.Role) bool
}

// Download is a file produced by an explicit export.
type Download struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// Dashboard wires data access, RBAC and rendering. It is safe for concurrent
// use; per-client state lives in Sessions.
type Dashboard struct {
	source DataSource
	gate   Gate
	now    func() time.Time
	graph  *reactive.Graph
}

// New builds the dashboard and its binding graph. now may be nil.
func New(source DataSource, gate Gate, now func() time.Time) (*Dashboard, error) {
	if now == nil {
		now = time.Now
	}
	d := &Dashboard{source: source, gate: gate, now: now}

	graph, err := reactive.NewGraph(d.bindings()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard bindings: %w", err)
	}
	d.graph = graph
	return d, nil
}

// Now returns the dashboard clock.
func (d *Dashboard) Now() time.Time { return d.now() }

// ProviderName names the configured data source.
func (d *Dashboard) ProviderName() string { return d.source.ProviderName() }

// Load returns the caller's narrowed dataset and its status line. A non-empty
// forceKey bypasses the daily snapshot.
func (d *Dashboard) Load(ctx context.Context, claims *auth.Claims, forceKey string) (models.Dataset, string, error) {
	ds, err := d.source.GetData(ctx, forceKey)
	if err != nil {
		return nil, "", err
	}
	ds = d.gate.Narrow(ctx, claims, ds)
	return ds, StatusMessage(len(ds), d.source.ProviderName(), claims), nil
}

// Refresh loads a fresh snapshot under a new force key.
func (d *Dashboard) Refresh(ctx context.Context, claims *auth.Claims) (models.Dataset, string, error) {
	return d.Load(ctx, claims, d.source.NewForceKey())
}

// Evaluate loads today's data for claims and renders it under controls.
// Invalid controls are not an error; they produce the empty state. KPI cards
// are blanked for roles that may not see them.
func (d *Dashboard) Evaluate(ctx context.Context, claims *auth.Claims, c analytics.Controls) (Outputs, error) {
	ds, status, err := d.Load(ctx, claims, "")
	if err != nil {
		return Outputs{}, err
	}
	return d.render(ctx, TransportHTTP, claims, ds, c, status), nil
}

// Export renders rows as a CSV download named for today.
func (d *Dashboard) Export(rows models.Dataset, transport string) (*Download, error) {
	content, err := analytics.ExportCSV(rows)
	if err != nil {
		return nil, err
	}
	metrics.Exports.WithLabelValues(transport).Inc()
	return &Download{
		Filename:    analytics.ExportFilename(d.now()),
		ContentType: analytics.CSVContentType,
		Content:     string(content),
	}, nil
}

func (d *Dashboard) render(ctx context.Context, transport string, claims *auth.Claims, ds models.Dataset, c analytics.Controls, status string) Outputs {
	start := time.Now()
	out, err := Render(ds, c, status, d.now())
	if !d.gate.KPIsVisible(claims.GetRole()) {
		out.KPIs = analytics.EmptyKPIText()
	}

	result := "ok"
	if err != nil {
		result = "invalid_filters"
		logging.Ctx(ctx).Debug().Err(err).Msg("Rejected dashboard controls")
	}
	metrics.RecordDashboardComputation(transport, result, time.Since(start))
	return out
}
