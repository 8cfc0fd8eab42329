// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Failure reasons carried by AuthError.
const (
	ReasonMissingHeader    = "missing_header"
	ReasonMalformedHeader  = "malformed_header"
	ReasonInvalidSignature = "invalid_signature"
	ReasonExpired          = "expired"
	ReasonMalformedToken   = "malformed_token"
	ReasonInvalidIssuer    = "invalid_issuer"
	ReasonInvalidAudience  = "invalid_audience"
)

var (
	// ErrMissingToken is wrapped when no credentials were presented.
	ErrMissingToken = errors.New("missing bearer token")

	// ErrMalformedHeader is wrapped when Authorization is not "Bearer <token>".
	ErrMalformedHeader = errors.New("authorization header must be 'Bearer <token>'")
)

// AuthError is returned for every authentication failure.
//
//nolint:revive // auth.AuthError is the established name across handlers
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "authentication failed: " + e.Reason
	}
	return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// classify maps a jwt/v5 parse error to a failure reason.
func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ReasonInvalidIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ReasonInvalidAudience
	default:
		return ReasonMalformedToken
	}
}
