// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/opsboard/internal/models"
	"github.com/tomtom215/opsboard/internal/validation"
)

// AggMode selects how grouped values are combined.
type AggMode string

// Aggregation modes.
const (
	AggSum  AggMode = "sum"
	AggMean AggMode = "mean"
)

// Defaults applied when a control is left empty.
const (
	DefaultAgg     = AggSum
	DefaultGroupBy = models.ColumnDate
)

// GroupByOptions lists the dimensions a chart may be grouped by, in menu order.
var GroupByOptions = []string{
	models.ColumnDate, models.ColumnProduct, models.ColumnRegion,
	models.ColumnSystem, models.ColumnTeam, models.ColumnStatus,
}

// StringList is a multi-select value. It accepts a JSON array, a single string
// or null; null and "" mean no selection.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = many
	return nil
}

// Controls is the raw state of the dashboard controls as sent by a client.
type Controls struct {
	StartDate  string     `json:"start_date" validate:"omitempty,isodate"`
	EndDate    string     `json:"end_date" validate:"omitempty,isodate"`
	Products   StringList `json:"products"`
	Regions    StringList `json:"regions"`
	Systems    StringList `json:"systems"`
	Teams      StringList `json:"teams"`
	MinProfit  *float64   `json:"min_profit" validate:"omitempty,gte=-1000000000000,lte=1000000000000"`
	OwnerQuery string     `json:"owner_query" validate:"max=200"`
	Agg        string     `json:"agg" validate:"omitempty,oneof=sum mean"`
	GroupBy    string     `json:"groupby" validate:"omitempty,oneof=date product region system team status"`
}

// FilterSpec is a validated set of filters and chart choices. Zero values mean
// "no restriction".
type FilterSpec struct {
	Start      models.Date
	End        models.Date
	Products   []string
	Regions    []string
	Systems    []string
	Teams      []string
	MinProfit  *float64
	OwnerQuery string // trimmed and lower-cased
	Agg        AggMode
	GroupBy    string
}

// ReferenceDate is the day used for same-day KPIs: the end of the range, or
// the calendar day of now when the range is open.
func (s FilterSpec) ReferenceDate(now time.Time) models.Date {
	if !s.End.IsZero() {
		return s.End
	}
	return models.DateOf(now)
}

// ValidationError reports controls that cannot be turned into a FilterSpec.
// Callers recover by rendering the empty state.
type ValidationError struct {
	Message string
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseControls validates c and returns the equivalent FilterSpec.
func ParseControls(c Controls) (FilterSpec, error) {
	if verr := validation.ValidateStruct(&c); verr != nil {
		return FilterSpec{}, &ValidationError{Message: verr.Error(), Details: verr.Details()}
	}

	start, err := parseOptionalDate(c.StartDate)
	if err != nil {
		return FilterSpec{}, &ValidationError{Message: "start_date: " + err.Error()}
	}
	end, err := parseOptionalDate(c.EndDate)
	if err != nil {
		return FilterSpec{}, &ValidationError{Message: "end_date: " + err.Error()}
	}

	spec := FilterSpec{
		Start:      start,
		End:        end,
		Products:   nonEmpty(c.Products),
		Regions:    nonEmpty(c.Regions),
		Systems:    nonEmpty(c.Systems),
		Teams:      nonEmpty(c.Teams),
		MinProfit:  c.MinProfit,
		OwnerQuery: strings.ToLower(strings.TrimSpace(c.OwnerQuery)),
		Agg:        AggMode(c.Agg),
		GroupBy:    c.GroupBy,
	}
	if spec.Agg == "" {
		spec.Agg = DefaultAgg
	}
	if spec.GroupBy == "" {
		spec.GroupBy = DefaultGroupBy
	}
	return spec, nil
}

func parseOptionalDate(s string) (models.Date, error) {
	if s == "" {
		return models.Date{}, nil
	}
	return models.ParseDate(s)
}

func nonEmpty(l StringList) []string {
	if len(l) == 0 {
		return nil
	}
	return []string(l)
}
