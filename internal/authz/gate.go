// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package authz

import (
	"context"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/models"
)

// Objects checked by the gate.
const (
	ObjectOverview     = "view:overview"
	ObjectSystemHealth = "view:system-health"
	ObjectDetail       = "view:detail"
	ObjectKPIs         = "region:kpi"
	ObjectAllData      = "dataset:all"
)

// Tab identifiers for the default active tab.
const (
	TabOverview     = "cio"
	TabArchitecture = "arch"
	TabDeveloper    = "dev"
)

// Visibility lists the dashboard regions a role may use.
type Visibility struct {
	Overview     bool   `json:"overview"`
	SystemHealth bool   `json:"system_health"`
	Detail       bool   `json:"detail"`
	KPIs         bool   `json:"kpis"`
	ActiveTab    string `json:"active_tab"`
}

// Gate answers view and data-scope questions for a role.
type Gate struct {
	enforcer *casbin.SyncedEnforcer
}

// NewGate loads the Casbin model and policy named in cfg, or the embedded ones.
func NewGate(cfg *config.AuthConfig) (*Gate, error) {
	enforcer, err := newEnforcer(cfg.CasbinModelPath, cfg.CasbinPolicyPath)
	if err != nil {
		return nil, err
	}
	return &Gate{enforcer: enforcer}, nil
}

// Can reports whether role may read object. Enforcer errors deny.
func (g *Gate) Can(role auth.Role, object string) bool {
	start := time.Now()
	allowed, err := g.enforcer.Enforce(string(role), object, ActionRead)
	if err != nil {
		AuthzErrorsTotal.Inc()
		logging.Error().Err(err).Str("role", string(role)).Str("object", object).Msg("Authorization check failed")
		return false
	}
	RecordAuthzDecision(string(role), object, allowed, time.Since(start))
	return allowed
}

// Views returns the regions visible to role. The active tab is the first
// visible one of overview, architecture and detail.
func (g *Gate) Views(role auth.Role) Visibility {
	v := Visibility{
		Overview:     g.Can(role, ObjectOverview),
		SystemHealth: g.Can(role, ObjectSystemHealth),
		Detail:       g.Can(role, ObjectDetail),
		KPIs:         g.KPIsVisible(role),
	}
	switch {
	case v.Overview:
		v.ActiveTab = TabOverview
	case v.SystemHealth:
		v.ActiveTab = TabArchitecture
	default:
		v.ActiveTab = TabDeveloper
	}
	return v
}

// KPIsVisible reports whether role may see the KPI cards.
func (g *Gate) KPIsVisible(role auth.Role) bool {
	return g.Can(role, ObjectKPIs)
}

// Narrow applies row-level security. Roles with dataset:all, and callers
// without a team claim, get ds unchanged; everyone else gets only their team's
// rows as a new dataset.
func (g *Gate) Narrow(ctx context.Context, claims *auth.Claims, ds models.Dataset) models.Dataset {
	role := auth.RoleDeveloper
	team := ""
	if claims != nil {
		role = claims.Role
		team = claims.Team
	}

	if g.Can(role, ObjectAllData) {
		AuthzNarrowedTotal.WithLabelValues("unrestricted").Inc()
		return ds
	}
	if team == "" {
		AuthzNarrowedTotal.WithLabelValues("no_team").Inc()
		logging.Ctx(ctx).Warn().
			Str("role", string(role)).
			Msg("No team claim for restricted role, serving unnarrowed dataset")
		return ds
	}

	AuthzNarrowedTotal.WithLabelValues("team").Inc()
	return ds.Where(func(r *models.Record) bool { return r.Team == team })
}
