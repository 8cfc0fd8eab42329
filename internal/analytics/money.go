// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"math"
	"strconv"
	"strings"
)

var moneyUnits = []string{"", "K", "M", "B"}

// FormatMoney renders x compactly: it divides by 1000 while |x| >= 1000,
// advancing through "", K, M, B and stopping at T, then rounds to a whole
// number with thousands separators. Exact halves round toward zero.
//
//	FormatMoney(12300)         == "12K"
//	FormatMoney(12900)         == "13K"
//	FormatMoney(1500000000)    == "1B"
//	FormatMoney(2500000000000) == "2T"
func FormatMoney(x float64) string {
	for _, unit := range moneyUnits {
		if math.Abs(x) < 1000 {
			return groupThousands(roundHalfTowardZero(x)) + unit
		}
		x /= 1000
	}
	return groupThousands(roundHalfTowardZero(x)) + "T"
}

// FormatKPI prefixes FormatMoney with a dollar sign.
func FormatKPI(x float64) string {
	return "$" + FormatMoney(x)
}

func roundHalfTowardZero(x float64) float64 {
	return math.Copysign(math.Ceil(math.Abs(x)-0.5), x)
}

func groupThousands(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 0, 64)
	}
	s := strconv.FormatFloat(math.Abs(x), 'f', 0, 64)

	var b strings.Builder
	if x < 0 {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
