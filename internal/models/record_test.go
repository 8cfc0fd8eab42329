// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package models

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso date", "2025-01-02", "2025-01-02", false},
		{"rfc3339 timestamp", "2025-01-02T23:59:00Z", "2025-01-02", false},
		{"date picker timestamp", "2025-01-02T00:00:00", "2025-01-02", false},
		{"surrounding whitespace", "  2025-03-04 ", "2025-03-04", false},
		{"empty", "", "", true},
		{"garbage", "yesterday", "", true},
		{"impossible day", "2025-02-30", "", true},
		{"sql timestamp", "2025-01-02 08:30:00", "2025-01-02", false},
		{"fractional seconds", "2025-01-02T08:30:00.250", "2025-01-02", false},
		{"trailing junk", "2025-01-02garbage", "", true},
		{"trailing junk after time", "2025-01-02T00:00:00xyz", "", true},
		{"date and a space", "2025-01-02 x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got.String(), tt.want)
			}
		})
	}
}

func TestDateOfStripsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2025, 6, 1, 23, 30, 0, 0, loc)

	got := DateOf(ts)
	if got.String() != "2025-06-01" {
		t.Errorf("DateOf() = %s, want 2025-06-01", got)
	}
	if !got.Equal(NewDate(2025, time.June, 1)) {
		t.Error("DateOf() should equal NewDate for the same calendar day")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2025, 1, 3, 15, 4, 5, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time) error = %v", err)
	}
	if d.String() != "2025-01-03" {
		t.Errorf("Scan(time.Time) = %s, want 2025-01-03", d)
	}

	if err := d.Scan([]byte("2025-01-04")); err != nil {
		t.Fatalf("Scan([]byte) error = %v", err)
	}
	if d.String() != "2025-01-04" {
		t.Errorf("Scan([]byte) = %s, want 2025-01-04", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error = %v", err)
	}
	if !d.IsZero() {
		t.Error("Scan(nil) should produce the zero date")
	}

	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestRecordJSONNullMarkers(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"date":"2025-01-01","product":"A","revenue":100}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if r.Product != "A" {
		t.Errorf("Product = %q, want A", r.Product)
	}
	if r.Region != "" {
		t.Errorf("Region = %q, want empty null marker", r.Region)
	}
	if !math.IsNaN(r.Cost) {
		t.Errorf("Cost = %v, want NaN null marker", r.Cost)
	}

	r.ComputeProfit()
	if !math.IsNaN(r.Profit) {
		t.Errorf("Profit = %v, want NaN when cost is missing", r.Profit)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), `"cost":null`) {
		t.Errorf("Marshal() = %s, want cost rendered as null", out)
	}
	if !strings.Contains(string(out), `"date":"2025-01-01"`) {
		t.Errorf("Marshal() = %s, want ISO date", out)
	}
}

func TestDatasetCloneIsIndependent(t *testing.T) {
	original := Dataset{
		{Team: "Data", Revenue: 10, Cost: 4},
		{Team: "Platform", Revenue: 20, Cost: 5},
	}

	clone := original.Clone()
	clone[0].Team = "Retail"
	clone[1].Revenue = 0

	if original[0].Team != "Data" {
		t.Errorf("original[0].Team = %q, want Data", original[0].Team)
	}
	if original[1].Revenue != 20 {
		t.Errorf("original[1].Revenue = %v, want 20", original[1].Revenue)
	}

	if Dataset(nil).Clone() != nil {
		t.Error("Clone() of nil dataset should be nil")
	}
}

func TestDatasetRecomputeProfit(t *testing.T) {
	ds := Dataset{
		{Revenue: 100, Cost: 60, Profit: 999},
		{Revenue: 50, Cost: 80},
	}
	ds.RecomputeProfit()

	for i, r := range ds {
		if r.Profit != r.Revenue-r.Cost {
			t.Errorf("row %d: Profit = %v, want %v", i, r.Profit, r.Revenue-r.Cost)
		}
	}
}

func TestRecordDimension(t *testing.T) {
	r := Record{Date: NewDate(2025, time.January, 2), Product: "B", Status: StatusRed}

	if v, ok := r.Dimension(ColumnDate); !ok || v != "2025-01-02" {
		t.Errorf("Dimension(date) = %q, %v", v, ok)
	}
	if v, ok := r.Dimension(ColumnStatus); !ok || v != "Red" {
		t.Errorf("Dimension(status) = %q, %v", v, ok)
	}
	if _, ok := r.Dimension(ColumnRevenue); ok {
		t.Error("Dimension(revenue) should not be a categorical dimension")
	}
}
