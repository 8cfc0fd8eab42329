// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/middleware"
)

// Router wires handlers, authentication and RBAC into a chi mux.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	gate          *authz.Gate
	chiMiddleware *ChiMiddleware
}

// NewRouter creates the router and installs the envelope 401 writer on mw.
func NewRouter(handler *Handler, mw *auth.Middleware, gate *authz.Gate, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	mw.SetErrorWriter(WriteAuthError)
	return &Router{
		handler:       handler,
		middleware:    mw,
		gate:          gate,
		chiMiddleware: chiMw,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed()
	})

	// Unauthenticated endpoints.
	r.With(router.chiMiddleware.RateLimitCustom(RateLimitHealth)).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", h.Index)
	r.Handle("/assets/*", h.Assets())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(router.middleware.Authenticate)

		r.Get("/session", h.Session)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Gzip)
			r.Get("/data", h.Data)
			r.Post("/dashboard", h.Dashboard)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitExport))
			r.Use(middleware.Gzip)
			r.Get("/export", h.Export)
			r.Post("/export", h.Export)
		})

		// Per-tab renderings, each gated by its view object.
		r.Route("/views", func(r chi.Router) {
			r.Use(middleware.Gzip)
			r.With(router.gate.Authorize(authz.ObjectOverview, WriteForbidden)).Get("/overview", h.OverviewTab)
			r.With(router.gate.Authorize(authz.ObjectSystemHealth, WriteForbidden)).Get("/system-health", h.SystemHealthTab)
			r.With(router.gate.Authorize(authz.ObjectDetail, WriteForbidden)).Get("/detail", h.DetailTab)
		})

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).Get("/ws", h.WebSocket)
	})

	return r
}
