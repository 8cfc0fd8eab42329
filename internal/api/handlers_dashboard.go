// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/opsboard/internal/analytics"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/models"
)

// SessionInfo is the bootstrap payload of the web client.
type SessionInfo struct {
	Title      string             `json:"title"`
	Claims     *auth.Claims       `json:"claims"`
	Visibility authz.Visibility   `json:"visibility"`
	Options    dashboard.Options  `json:"options"`
	Defaults   analytics.Controls `json:"defaults"`
	Status     string             `json:"status"`
}

// DataResponse carries the caller's narrowed dataset.
type DataResponse struct {
	Rows      models.Dataset `json:"rows"`
	Count     int            `json:"count"`
	Status    string         `json:"status"`
	Refreshed bool           `json:"refreshed"`
}

// Session returns everything the client needs to draw the controls: the
// caller's identity, visible regions, control options and initial values.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	c := claims(r)

	ds, status, err := h.dash.Load(r.Context(), c, "")
	if err != nil {
		rw.LoadError(err)
		return
	}

	now := h.dash.Now()
	opts := dashboard.BuildOptions(ds, now)
	rw.Success(SessionInfo{
		Title:      h.config.App.Title,
		Claims:     c,
		Visibility: h.gate.Views(c.GetRole()),
		Options:    opts,
		Defaults:   dashboard.DefaultControls(opts, now),
		Status:     status,
	})
}

// Data returns today's rows for the caller. With refresh=true the snapshot
// is reloaded under a forced key and connected clients are told.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			rw.BadRequest("refresh must be a boolean")
			return
		}
		refresh = v
	}

	var (
		ds     models.Dataset
		status string
		err    error
	)
	if refresh {
		ds, status, err = h.dash.Refresh(r.Context(), claims(r))
	} else {
		ds, status, err = h.dash.Load(r.Context(), claims(r), "")
	}
	if err != nil {
		rw.LoadError(err)
		return
	}

	if refresh {
		logging.Ctx(r.Context()).Info().Int("rows", len(ds)).Msg("Dataset refreshed on request")
		if h.wsHub != nil {
			h.wsHub.BroadcastDatasetRefreshed(len(ds), h.dash.ProviderName())
		}
	}

	rw.Success(DataResponse{Rows: ds, Count: len(ds), Status: status, Refreshed: refresh})
}

// Dashboard renders every bound output for the Controls in the body.
// Rejected controls are not an error: the response carries the empty state
// and the reason in outputs.message.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	controls, err := decodeControlsBody(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	out, err := h.dash.Evaluate(r.Context(), claims(r), controls)
	if err != nil {
		rw.LoadError(err)
		return
	}
	rw.Success(out)
}

// OverviewView is the executive tab.
type OverviewView struct {
	KPIs               analytics.KPIText `json:"kpis"`
	RevenueByDimension analytics.Figure  `json:"rev-by-dim-graph"`
	ProfitTrend        analytics.Figure  `json:"trend-graph"`
	Message            string            `json:"message"`
}

// SystemHealthView is the architecture tab.
type SystemHealthView struct {
	KPIs         analytics.KPIText `json:"kpis"`
	SystemHealth analytics.Figure  `json:"system-health-graph"`
	TeamWorkload analytics.Figure  `json:"team-workload-graph"`
	Message      string            `json:"message"`
}

// DetailView is the developer tab.
type DetailView struct {
	Table   models.Dataset `json:"detail-table"`
	Message string         `json:"message"`
}

// evaluate reads controls from the request and renders them. It writes the
// error response itself and reports false on failure.
func (h *Handler) evaluate(rw *ResponseWriter, r *http.Request) (dashboard.Outputs, bool) {
	controls, err := controlsFromRequest(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return dashboard.Outputs{}, false
	}
	out, err := h.dash.Evaluate(r.Context(), claims(r), controls)
	if err != nil {
		rw.LoadError(err)
		return dashboard.Outputs{}, false
	}
	return out, true
}

// OverviewTab renders the KPI cards, revenue breakdown and profit trend.
func (h *Handler) OverviewTab(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	out, ok := h.evaluate(rw, r)
	if !ok {
		return
	}
	rw.Success(OverviewView{
		KPIs:               out.KPIs,
		RevenueByDimension: out.Figures.RevenueByDimension,
		ProfitTrend:        out.Figures.ProfitTrend,
		Message:            out.Message,
	})
}

// SystemHealthTab renders the KPI cards, status counts and team workload.
func (h *Handler) SystemHealthTab(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	out, ok := h.evaluate(rw, r)
	if !ok {
		return
	}
	rw.Success(SystemHealthView{
		KPIs:         out.KPIs,
		SystemHealth: out.Figures.SystemHealth,
		TeamWorkload: out.Figures.TeamWorkload,
		Message:      out.Message,
	})
}

// DetailTab renders the filtered rows.
func (h *Handler) DetailTab(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	out, ok := h.evaluate(rw, r)
	if !ok {
		return
	}
	rw.Success(DetailView{Table: out.Table, Message: out.Message})
}

// Export streams the filtered rows as a CSV attachment. Controls come from
// the query for GET and from the JSON body for POST. Rejected controls are
// a 400 here, since an attachment cannot carry the reason.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	out, ok := h.evaluate(rw, r)
	if !ok {
		return
	}
	if out.FilterError != "" {
		rw.ValidationError(dashboard.InvalidFiltersPrefix+out.FilterError, nil)
		return
	}

	dl, err := h.dash.Export(out.Table, dashboard.TransportHTTP)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("CSV export failed")
		rw.InternalError("Failed to export data")
		return
	}

	w.Header().Set("Content-Type", dl.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+dl.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(dl.Content)); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to write CSV export")
	}
}
