// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package auth validates bearer tokens and turns them into normalized Claims.
//
// Every caller ends up with exactly one of three canonical roles. Tokens carry
// free-form role names from the identity provider; NormalizeRole maps the known
// aliases and sends everything else to Developer, the least privileged role.
package auth

import (
	"context"
	"time"
)

// Role is a canonical dashboard role.
type Role string

// Canonical roles.
const (
	RoleCIO       Role = "CIO"
	RoleArchitect Role = "Architect"
	RoleDeveloper Role = "Developer"
)

// Roles returns the canonical roles in display order.
func Roles() []Role {
	return []Role{RoleCIO, RoleArchitect, RoleDeveloper}
}

// roleAliases is matched exactly and case-sensitively.
var roleAliases = map[string]Role{
	"CIO":                     RoleCIO,
	"ChiefInformationOfficer": RoleCIO,
	"Architect":               RoleArchitect,
	"EnterpriseArchitect":     RoleArchitect,
	"SystemArchitect":         RoleArchitect,
	"SolutionArchitect":       RoleArchitect,
	"Developer":               RoleDeveloper,
	"Engineer":                RoleDeveloper,
}

// NormalizeRole maps a raw role claim to its canonical role.
// Unknown, empty and differently-cased values map to Developer.
func NormalizeRole(raw string) Role {
	if role, ok := roleAliases[raw]; ok {
		return role
	}
	return RoleDeveloper
}

// normalizeRoleClaim accepts the decoded JSON value of the role claim.
// Non-string values (numbers, arrays, objects) map to Developer.
func normalizeRoleClaim(v interface{}) Role {
	s, ok := v.(string)
	if !ok {
		return RoleDeveloper
	}
	return NormalizeRole(s)
}

// Claims is the validated, normalized identity of a caller.
type Claims struct {
	Subject string    `json:"sub"`
	Name    string    `json:"name"`
	Role    Role      `json:"role"`
	Team    string    `json:"team"`
	Expiry  time.Time `json:"exp"`
}

// GetRole returns the caller's role. Nil claims are treated as a Developer.
func (c *Claims) GetRole() Role {
	if c == nil {
		return RoleDeveloper
	}
	return c.Role
}

// Default identity used only when authentication is disabled.
const (
	DefaultSubject = "devuser@example.com"
	DefaultName    = "Dev User"
	DefaultTeam    = "Platform"
)

// DefaultClaims returns the development identity: a Developer on the Platform
// team, expiring one hour after now.
func DefaultClaims(now time.Time) *Claims {
	return &Claims{
		Subject: DefaultSubject,
		Name:    DefaultName,
		Role:    NormalizeRole(string(RoleDeveloper)),
		Team:    DefaultTeam,
		Expiry:  now.Add(time.Hour),
	}
}

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok && claims != nil
}
