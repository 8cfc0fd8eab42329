// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/logging"
	ws "github.com/tomtom215/opsboard/internal/websocket"
)

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade
//   - handlers_health.go: health and static assets
//   - handlers_dashboard.go: session, data, dashboard, views and export
type Handler struct {
	config    *config.Config
	dash      *dashboard.Dashboard
	gate      *authz.Gate
	wsHub     *ws.Hub
	origins   *ChiMiddleware
	startTime time.Time
}

// NewHandler creates the API handler. wsHub may be nil, in which case
// /api/v1/ws answers 503 and refreshes are not broadcast.
//
//	handler := api.NewHandler(cfg, dash, gate, hub, chiMw)
//	router := api.NewRouter(handler, authMiddleware, gate, chiMw)
//	srv := &http.Server{Handler: router.SetupChi()}
func NewHandler(cfg *config.Config, dash *dashboard.Dashboard, gate *authz.Gate, wsHub *ws.Hub, origins *ChiMiddleware) *Handler {
	if origins == nil {
		origins = NewChiMiddleware(nil)
	}
	return &Handler{
		config:    cfg,
		dash:      dash,
		gate:      gate,
		wsHub:     wsHub,
		origins:   origins,
		startTime: time.Now(),
	}
}

// claims returns the identity attached by the auth middleware.
func claims(r *http.Request) *auth.Claims {
	c, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return nil
	}
	return c
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin rejects upgrades without an Origin header or from an
// origin outside CORS_ORIGINS. Browsers always send Origin on upgrades.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	if h.origins.AllowsOrigin(origin) {
		return true
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// WebSocket upgrades the connection and starts a reactive dashboard session
// for the authenticated caller.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	session := ws.NewDashboardSession(h.dash.NewSession(claims(r)), h.dash.ProviderName(), h.wsHub)
	ws.NewClient(h.wsHub, conn, session).Start(r.Context())
}
