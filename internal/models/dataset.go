// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package models

// Dataset is an unordered collection of fact rows sharing the Record schema.
type Dataset []Record

// Clone returns an independent copy. Records hold only value fields,
// so a shallow element copy is a deep copy.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// RecomputeProfit sets Profit = Revenue - Cost on every row in place.
func (d Dataset) RecomputeProfit() {
	for i := range d {
		d[i].ComputeProfit()
	}
}

// NormalizeDates truncates every row's date to its calendar day in place.
func (d Dataset) NormalizeDates() {
	for i := range d {
		if !d[i].Date.IsZero() {
			d[i].Date = DateOf(d[i].Date.Time())
		}
	}
}

// Where returns the rows for which keep reports true, as a new Dataset.
func (d Dataset) Where(keep func(*Record) bool) Dataset {
	out := make(Dataset, 0, len(d))
	for i := range d {
		if keep(&d[i]) {
			out = append(out, d[i])
		}
	}
	return out
}
