// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package models

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Status is the health status of a system on a given day.
type Status string

// Status values, in the order charts stack them.
const (
	StatusGreen Status = "Green"
	StatusAmber Status = "Amber"
	StatusRed   Status = "Red"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusGreen, StatusAmber, StatusRed}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusGreen, StatusAmber, StatusRed:
		return true
	default:
		return false
	}
}

// Column names of the fact schema. Providers must supply every column except profit.
const (
	ColumnDate    = "date"
	ColumnProduct = "product"
	ColumnRegion  = "region"
	ColumnSystem  = "system"
	ColumnTeam    = "team"
	ColumnOwner   = "owner"
	ColumnStatus  = "status"
	ColumnRevenue = "revenue"
	ColumnCost    = "cost"
	ColumnProfit  = "profit"
)

// ProviderColumns lists the columns a provider returns, in schema order.
var ProviderColumns = []string{
	ColumnDate, ColumnProduct, ColumnRegion, ColumnSystem, ColumnTeam,
	ColumnOwner, ColumnStatus, ColumnRevenue, ColumnCost,
}

// ExportColumns lists every column including the derived profit.
var ExportColumns = append(append([]string{}, ProviderColumns...), ColumnProfit)

// Record is one analytics fact row.
//
// Missing upstream values are carried as null markers: "" for strings,
// NaN for amounts and the zero Date for dates.
type Record struct {
	Date    Date    `json:"date" db:"date"`
	Product string  `json:"product" db:"product"`
	Region  string  `json:"region" db:"region"`
	System  string  `json:"system" db:"system"`
	Team    string  `json:"team" db:"team"`
	Owner   string  `json:"owner" db:"owner"`
	Status  Status  `json:"status" db:"status"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Cost    float64 `json:"cost" db:"cost"`
	Profit  float64 `json:"profit" db:"-"`
}

// ComputeProfit sets Profit to Revenue - Cost.
func (r *Record) ComputeProfit() {
	r.Profit = r.Revenue - r.Cost
}

// Dimension returns the categorical value of the named column.
// The date column is rendered as YYYY-MM-DD. ok is false for unknown or numeric columns.
func (r *Record) Dimension(name string) (value string, ok bool) {
	switch name {
	case ColumnDate:
		return r.Date.String(), true
	case ColumnProduct:
		return r.Product, true
	case ColumnRegion:
		return r.Region, true
	case ColumnSystem:
		return r.System, true
	case ColumnTeam:
		return r.Team, true
	case ColumnOwner:
		return r.Owner, true
	case ColumnStatus:
		return string(r.Status), true
	default:
		return "", false
	}
}

// Strings renders the record in ExportColumns order. Null amounts render empty.
func (r *Record) Strings() []string {
	return []string{
		r.Date.String(),
		r.Product,
		r.Region,
		r.System,
		r.Team,
		r.Owner,
		string(r.Status),
		formatAmount(r.Revenue),
		formatAmount(r.Cost),
		formatAmount(r.Profit),
	}
}

func formatAmount(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// recordJSON is the wire form of Record with nullable amounts.
type recordJSON struct {
	Date    Date     `json:"date"`
	Product *string  `json:"product"`
	Region  *string  `json:"region"`
	System  *string  `json:"system"`
	Team    *string  `json:"team"`
	Owner   *string  `json:"owner"`
	Status  *string  `json:"status"`
	Revenue *float64 `json:"revenue"`
	Cost    *float64 `json:"cost"`
	Profit  *float64 `json:"profit"`
}

// MarshalJSON implements json.Marshaler, rendering NaN amounts as null.
func (r Record) MarshalJSON() ([]byte, error) {
	status := string(r.Status)
	return json.Marshal(recordJSON{
		Date:    r.Date,
		Product: &r.Product,
		Region:  &r.Region,
		System:  &r.System,
		Team:    &r.Team,
		Owner:   &r.Owner,
		Status:  &status,
		Revenue: nullableAmount(r.Revenue),
		Cost:    nullableAmount(r.Cost),
		Profit:  nullableAmount(r.Profit),
	})
}

// UnmarshalJSON implements json.Unmarshaler. Absent or null columns decode to
// their null markers so partial upstream schemas never fail decoding.
func (r *Record) UnmarshalJSON(data []byte) error {
	var wire recordJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Record{
		Date:    wire.Date,
		Product: derefString(wire.Product),
		Region:  derefString(wire.Region),
		System:  derefString(wire.System),
		Team:    derefString(wire.Team),
		Owner:   derefString(wire.Owner),
		Status:  Status(derefString(wire.Status)),
		Revenue: derefAmount(wire.Revenue),
		Cost:    derefAmount(wire.Cost),
		Profit:  derefAmount(wire.Profit),
	}
	return nil
}

func nullableAmount(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func derefAmount(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
