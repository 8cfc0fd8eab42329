// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"slices"
	"strings"

	"github.com/tomtom215/opsboard/internal/models"
)

// predicate reports whether a row passes one filter.
type predicate func(r *models.Record) bool

// Filter returns the rows of ds matching spec as a new dataset.
//
// Predicates apply in a fixed order: start date, end date, product, region,
// system, team, owner substring, minimum profit. A predicate whose spec field
// is empty is skipped. Rows with a null date never pass a date bound, rows
// with a null owner never match an owner query and rows with a null profit
// never pass a profit threshold.
func Filter(ds models.Dataset, spec FilterSpec) models.Dataset {
	preds := predicates(spec)
	return ds.Where(func(r *models.Record) bool {
		for _, keep := range preds {
			if !keep(r) {
				return false
			}
		}
		return true
	})
}

func predicates(spec FilterSpec) []predicate {
	var preds []predicate

	if start := spec.Start; !start.IsZero() {
		preds = append(preds, func(r *models.Record) bool {
			return !r.Date.IsZero() && !r.Date.Before(start)
		})
	}
	if end := spec.End; !end.IsZero() {
		preds = append(preds, func(r *models.Record) bool {
			return !r.Date.IsZero() && !r.Date.After(end)
		})
	}
	if len(spec.Products) > 0 {
		preds = append(preds, memberOf(spec.Products, func(r *models.Record) string { return r.Product }))
	}
	if len(spec.Regions) > 0 {
		preds = append(preds, memberOf(spec.Regions, func(r *models.Record) string { return r.Region }))
	}
	if len(spec.Systems) > 0 {
		preds = append(preds, memberOf(spec.Systems, func(r *models.Record) string { return r.System }))
	}
	if len(spec.Teams) > 0 {
		preds = append(preds, memberOf(spec.Teams, func(r *models.Record) string { return r.Team }))
	}
	if q := strings.ToLower(strings.TrimSpace(spec.OwnerQuery)); q != "" {
		preds = append(preds, func(r *models.Record) bool {
			return r.Owner != "" && strings.Contains(strings.ToLower(r.Owner), q)
		})
	}
	if spec.MinProfit != nil {
		minProfit := *spec.MinProfit
		preds = append(preds, func(r *models.Record) bool {
			return r.Profit >= minProfit
		})
	}
	return preds
}

func memberOf(values []string, field func(*models.Record) string) predicate {
	return func(r *models.Record) bool {
		return slices.Contains(values, field(r))
	}
}
