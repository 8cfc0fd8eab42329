// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tomtom215/opsboard/internal/config"
)

// tokenClaims is the wire form. Role and team are decoded loosely because
// identity providers do not agree on their types.
type tokenClaims struct {
	Name string      `json:"name,omitempty"`
	Role interface{} `json:"role,omitempty"`
	Team interface{} `json:"team,omitempty"`
	jwt.RegisteredClaims
}

// Validator verifies HS256 bearer tokens.
type Validator struct {
	secret []byte
	parser *jwt.Parser
}

// NewValidator creates a Validator from the auth configuration. now may be nil.
func NewValidator(cfg *config.AuthConfig, now func() time.Time) (*Validator, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}

	return &Validator{
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}, nil
}

// Validate verifies the token and returns normalized claims.
// All failures are *AuthError.
func (v *Validator) Validate(tokenString string) (*Claims, error) {
	tc := &tokenClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, tc, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, &AuthError{Reason: classify(err), Err: err}
	}
	if !token.Valid {
		return nil, &AuthError{Reason: ReasonMalformedToken, Err: errors.New("token is not valid")}
	}

	claims := &Claims{
		Subject: tc.Subject,
		Name:    tc.Name,
		Role:    normalizeRoleClaim(tc.Role),
	}
	if team, ok := tc.Team.(string); ok {
		claims.Team = team
	}
	if tc.ExpiresAt != nil {
		claims.Expiry = tc.ExpiresAt.Time
	}
	return claims, nil
}

// Issuer mints tokens accepted by a Validator with the same configuration.
// Used by development tooling; production tokens come from the identity provider.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewIssuer creates an Issuer from the auth configuration.
func NewIssuer(cfg *config.AuthConfig) (*Issuer, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required but was empty")
	}
	return &Issuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}, nil
}

// Mint signs a token for the given identity valid for ttl. A negative ttl
// produces an already expired token.
func (i *Issuer) Mint(subject, name, role, team string, ttl time.Duration) (string, error) {
	now := i.now()
	tc := &tokenClaims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if team != "" {
		tc.Team = team
	}
	if i.audience != "" {
		tc.Audience = jwt.ClaimStrings{i.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
