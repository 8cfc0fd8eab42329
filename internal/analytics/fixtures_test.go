// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"time"

	"github.com/tomtom215/opsboard/internal/models"
)

func day(d int) models.Date {
	return models.NewDate(2025, time.January, d)
}

func floatPtr(v float64) *float64 { return &v }

// threeRows is the reference dataset used across the engine tests.
func threeRows() models.Dataset {
	return models.Dataset{
		{Date: day(1), Product: "A", Region: "EMEA", System: "Core", Team: "Data", Owner: "alice", Status: models.StatusGreen, Revenue: 100, Cost: 60, Profit: 40},
		{Date: day(2), Product: "B", Region: "APAC", System: "Web", Team: "Platform", Owner: "bob", Status: models.StatusRed, Revenue: 50, Cost: 80, Profit: -30},
		{Date: day(3), Product: "A", Region: "EMEA", System: "Core", Team: "Data", Owner: "carol", Status: models.StatusAmber, Revenue: 70, Cost: 20, Profit: 50},
	}
}
