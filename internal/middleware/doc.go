// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

/*
Package middleware provides HTTP instrumentation and response compression.

Both middlewares have the chi signature func(http.Handler) http.Handler and
are mounted by the router in internal/api:

	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.Gzip).Get("/data", h.Data)

PrometheusMetrics labels requests with the chi route pattern
(for example "/api/v1/data") rather than the raw path, so label cardinality
stays bounded. Requests that match no route are labelled "unmatched".

Gzip compresses responses for clients that send Accept-Encoding: gzip.
WebSocket upgrades pass through untouched.
*/
package middleware
