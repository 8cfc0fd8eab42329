// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts decisions by role, object and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "authz_decisions_total",
			Help:      "Total number of authorization decisions",
		},
		[]string{"role", "object", "decision"},
	)

	// AuthzDecisionDuration tracks enforcement latency.
	AuthzDecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "opsboard",
			Name:      "authz_decision_duration_seconds",
			Help:      "Duration of authorization decisions in seconds",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// AuthzErrorsTotal counts enforcer failures (not denials).
	AuthzErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "authz_errors_total",
			Help:      "Total number of authorization errors",
		},
	)

	// AuthzNarrowedTotal counts dataset narrowing outcomes.
	AuthzNarrowedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsboard",
			Name:      "authz_dataset_narrowing_total",
			Help:      "Dataset narrowing decisions by outcome",
		},
		[]string{"outcome"}, // "unrestricted", "team", "no_team"
	)
)

// RecordAuthzDecision records one enforcement.
func RecordAuthzDecision(role, object string, allowed bool, duration time.Duration) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	AuthzDecisionsTotal.WithLabelValues(role, object, decision).Inc()
	AuthzDecisionDuration.Observe(duration.Seconds())
}
