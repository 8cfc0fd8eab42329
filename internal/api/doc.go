// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package api serves the dashboard over HTTP with a chi router.

Routes:

	GET  /health                  liveness, unauthenticated
	GET  /metrics                 Prometheus exposition, unauthenticated
	GET  /                        web client
	GET  /assets/*                embedded static files
	GET  /api/v1/session          identity, visible regions, control options and defaults
	GET  /api/v1/data             narrowed rows; ?refresh=true forces a reload
	POST /api/v1/dashboard        Controls in, every bound output back
	GET  /api/v1/export           CSV attachment (controls in the query)
	POST /api/v1/export           CSV attachment (controls in the body)
	GET  /api/v1/views/overview       executive tab (view:overview)
	GET  /api/v1/views/system-health  architecture tab (view:system-health)
	GET  /api/v1/views/detail         developer tab (view:detail)
	GET  /api/v1/ws               reactive session over WebSocket

Everything under /api/v1 requires a bearer token (or the token cookie) unless
DISABLE_AUTH is set. JSON responses use the APIResponse envelope:

	{"success":true,"data":{...},"meta":{"request_id":"...","timestamp":"...","duration_ms":3}}
	{"success":false,"error":{"code":"EXTERNAL_SERVICE_FAILED","message":"..."},"meta":{...}}

A data provider failure is reported as 502 EXTERNAL_SERVICE_FAILED. Invalid
dashboard controls are not an HTTP error on /api/v1/dashboard; the outputs
carry the empty state and an "Invalid filters: ..." message instead. Roles
without the region:kpi permission always get "—" in the KPI cards.
*/
package api
