// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package websocket serves reactive dashboard sessions over gorilla/websocket.

Each connection is a Client with its own read and write goroutines. Inbound
messages are handed to a Handler, normally a DashboardSession, and its replies
go back to the same client only. The Hub tracks every connected client and
fans out server-wide notices such as dataset_refreshed.

Client messages:

	{"type":"controls","data":{"start_date":"2026-01-01","agg":"mean",...}}
	{"type":"refresh"}
	{"type":"export"}
	{"type":"ping"}

Server messages:

	{"type":"outputs","data":{"version":3,"outputs":{...}}}
	{"type":"download","data":{"filename":"dashboard_export_2026-03-15.csv",...}}
	{"type":"error","data":{"code":"EXTERNAL_SERVICE_FAILED","message":"..."}}
	{"type":"pong","data":null}
	{"type":"dataset_refreshed","data":{"timestamp":"...","rows":7000,"source":"synthetic"}}

The first controls message starts the session and renders the initial
outputs. Refresh and export before that are answered with an error.

The hub runs under the supervisor via RunWithContext; cancelling the context
closes every client.
*/
package websocket
