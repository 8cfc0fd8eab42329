// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package authz

import (
	"net/http"

	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/logging"
)

// DeniedWriter renders a 403 response.
type DeniedWriter func(w http.ResponseWriter, r *http.Request, object string)

// Authorize returns chi middleware that requires read access to object.
// It must run after auth.Middleware.Authenticate. denied may be nil.
func (g *Gate) Authorize(object string, denied DeniedWriter) func(http.Handler) http.Handler {
	if denied == nil {
		denied = func(w http.ResponseWriter, _ *http.Request, _ string) {
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				denied(w, r, object)
				return
			}
			if !g.Can(claims.Role, object) {
				logging.Ctx(r.Context()).Info().
					Str("role", string(claims.Role)).
					Str("object", object).
					Msg("Access denied")
				denied(w, r, object)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
