// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package dashboard

import (
	"context"
	"sync"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/models"
	"github.com/tomtom215/opsboard/internal/reactive"
)

// Update is what a session publishes after one change.
type Update struct {
	Version  uint64    `json:"version"`
	Outputs  Outputs   `json:"outputs"`
	Download *Download `json:"download,omitempty"`
}

// Session is the reactive state of one client.
type Session struct {
	state  *reactive.Session
	claims *auth.Claims

	mu            sync.Mutex
	refreshClicks int
	exportClicks  int
}

// NewSession creates a session for claims. Call Start before anything else.
func (d *Dashboard) NewSession(claims *auth.Claims) *Session {
	return &Session{state: d.graph.NewSession(), claims: claims}
}

// Start loads the dataset and renders the initial outputs for controls.
func (s *Session) Start(ctx context.Context, controls analytics.Controls) (*Update, error) {
	initial := controlsToValues(controls)
	initial[SignalClaims] = s.claims
	initial[SignalRefreshClicks] = 0
	initial[SignalExportClicks] = 0

	snap, err := s.state.Start(ctx, initial)
	if err != nil {
		return nil, err
	}
	return updateFromSnapshot(snap, false), nil
}

// SetControls applies new control values.
func (s *Session) SetControls(ctx context.Context, controls analytics.Controls) (*Update, error) {
	snap, err := s.state.Set(ctx, controlsToValues(controls))
	if err != nil {
		return nil, err
	}
	return updateFromSnapshot(snap, false), nil
}

// Refresh reloads the dataset under a forced key and re-renders.
func (s *Session) Refresh(ctx context.Context) (*Update, error) {
	s.mu.Lock()
	s.refreshClicks++
	clicks := s.refreshClicks
	s.mu.Unlock()

	snap, err := s.state.Set(ctx, reactive.Values{SignalRefreshClicks: clicks})
	if err != nil {
		return nil, err
	}
	return updateFromSnapshot(snap, false), nil
}

// Export renders the current table as CSV.
func (s *Session) Export(ctx context.Context) (*Update, error) {
	s.mu.Lock()
	s.exportClicks++
	clicks := s.exportClicks
	s.mu.Unlock()

	snap, err := s.state.Set(ctx, reactive.Values{SignalExportClicks: clicks})
	if err != nil {
		return nil, err
	}
	return updateFromSnapshot(snap, true), nil
}

// Claims returns the identity the session was created for.
func (s *Session) Claims() *auth.Claims { return s.claims }

// Rows returns the session's current dataset.
func (s *Session) Rows() models.Dataset {
	v, _ := s.state.Get(SignalData)
	ds, _ := v.(models.Dataset)
	return ds
}

func updateFromSnapshot(snap reactive.Snapshot, withDownload bool) *Update {
	v := snap.Values
	u := &Update{Version: snap.Version}

	u.Outputs.KPIs.Revenue, _ = v[OutputKPIRevenue].(string)
	u.Outputs.KPIs.Cost, _ = v[OutputKPICost].(string)
	u.Outputs.KPIs.Profit, _ = v[OutputKPIProfit].(string)
	u.Outputs.KPIs.RedSystems, _ = v[OutputKPIRed].(string)
	u.Outputs.Figures.RevenueByDimension, _ = v[OutputRevenueGraph].(analytics.Figure)
	u.Outputs.Figures.ProfitTrend, _ = v[OutputTrendGraph].(analytics.Figure)
	u.Outputs.Figures.SystemHealth, _ = v[OutputHealthGraph].(analytics.Figure)
	u.Outputs.Figures.TeamWorkload, _ = v[OutputTeamGraph].(analytics.Figure)
	u.Outputs.Table, _ = v[OutputTable].(models.Dataset)
	u.Outputs.Message, _ = v[OutputDebug].(string)

	if withDownload {
		u.Download, _ = v[OutputDownload].(*Download)
	}
	return u
}
