// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package authz decides what each dashboard role may see.
//
// Decisions are made by a Casbin enforcer over a small RBAC model:
//
//	[request_definition]
//	r = sub, obj, act
//
//	[policy_definition]
//	p = sub, obj, act
//
//	[role_definition]
//	g = _, _
//
//	[matchers]
//	m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act
//
// Subjects are the normalized roles from package auth. Objects name either a
// dashboard region or a data scope:
//
//	view:overview        CIO overview tab
//	view:system-health   architecture tab
//	view:detail          row-level detail tab
//	region:kpi           KPI summary cards
//	dataset:all          unnarrowed dataset
//
// The model and policy are embedded; CASBIN_MODEL_PATH and CASBIN_POLICY_PATH
// replace them with files.
//
// # Row-level narrowing
//
// A role without dataset:all only sees rows of its own team. A caller with no
// team claim is not narrowed at all; the gate logs a warning when that happens.
package authz
