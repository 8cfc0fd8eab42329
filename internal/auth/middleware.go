// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/metrics"
)

// TokenCookie is read when no Authorization header is present. Browsers
// cannot set headers on WebSocket upgrades, so the UI stores the token here.
const TokenCookie = "token"

// ErrorWriter renders an authentication failure. The API layer installs its
// envelope writer; the default writes a minimal JSON body.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err *AuthError)

// Middleware attaches Claims to every request it lets through.
type Middleware struct {
	validator *Validator
	disabled  bool
	now       func() time.Time
	onError   ErrorWriter
}

// NewMiddleware creates the authentication middleware. When disabled is true
// the validator may be nil and every request gets DefaultClaims.
func NewMiddleware(validator *Validator, disabled bool) *Middleware {
	return &Middleware{
		validator: validator,
		disabled:  disabled,
		now:       time.Now,
		onError:   writeAuthError,
	}
}

// SetErrorWriter replaces the 401 renderer.
func (m *Middleware) SetErrorWriter(fn ErrorWriter) {
	if fn != nil {
		m.onError = fn
	}
}

// Authenticate is chi-compatible middleware. Failures never fall back to the
// default identity; they end the request with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.Resolve(r)
		if err != nil {
			metrics.AuthAttempts.WithLabelValues(err.Reason).Inc()
			logging.Ctx(r.Context()).Warn().
				Str("reason", err.Reason).
				Str("path", r.URL.Path).
				Msg("Authentication failed")
			m.onError(w, r, err)
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		ctx = logging.ContextWithSubject(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Resolve returns the claims for r without writing a response.
func (m *Middleware) Resolve(r *http.Request) (*Claims, *AuthError) {
	if m.disabled {
		metrics.AuthAttempts.WithLabelValues("disabled").Inc()
		return DefaultClaims(m.now()), nil
	}

	token, authErr := extractToken(r)
	if authErr != nil {
		return nil, authErr
	}

	claims, err := m.validator.Validate(token)
	if err != nil {
		if ae, ok := err.(*AuthError); ok { //nolint:errorlint // Validate returns *AuthError unwrapped
			return nil, ae
		}
		return nil, &AuthError{Reason: ReasonMalformedToken, Err: err}
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	metrics.AuthRoles.WithLabelValues(string(claims.Role)).Inc()
	return claims, nil
}

func extractToken(r *http.Request) (string, *AuthError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
			return cookie.Value, nil
		}
		return "", &AuthError{Reason: ReasonMissingHeader, Err: ErrMissingToken}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", &AuthError{Reason: ReasonMalformedHeader, Err: ErrMalformedHeader}
	}
	return strings.TrimSpace(parts[1]), nil
}

func writeAuthError(w http.ResponseWriter, _ *http.Request, err *AuthError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    "UNAUTHORIZED",
			"message": "Authentication required",
			"details": map[string]string{"reason": err.Reason},
		},
	})
}
