// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/opsboard/internal/models"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2025, time.January, 15, 18, 4, 5, 0, time.UTC)
	if got := ExportFilename(now); got != "dashboard_export_2025-01-15.csv" {
		t.Errorf("ExportFilename() = %q, want dashboard_export_2025-01-15.csv", got)
	}
}

func TestExportCSV(t *testing.T) {
	ds := threeRows()[:2]
	ds = append(ds, models.Record{Date: day(9), Product: "C, Ltd", Status: models.StatusAmber, Revenue: 1.5, Cost: math.NaN(), Profit: math.NaN()})

	b, err := ExportCSV(ds)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	want := []string{
		"date,product,region,system,team,owner,status,revenue,cost,profit",
		"2025-01-01,A,EMEA,Core,Data,alice,Green,100,60,40",
		"2025-01-02,B,APAC,Web,Platform,bob,Red,50,80,-30",
		`2025-01-09,"C, Ltd",,,,,Amber,1.5,,`,
	}
	if len(lines) != len(want) {
		t.Fatalf("ExportCSV() produced %d lines, want %d:\n%s", len(lines), len(want), b)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestExportCSV_Empty(t *testing.T) {
	b, err := ExportCSV(models.Dataset{})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if string(b) != "date,product,region,system,team,owner,status,revenue,cost,profit\n" {
		t.Errorf("ExportCSV(empty) = %q, want header only", b)
	}
}
