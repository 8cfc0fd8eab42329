// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opsboard/internal/analytics"
)

// maxBodyBytes bounds a Controls request body.
const maxBodyBytes = 64 << 10

// Query parameter names accepted wherever controls can be given in the URL.
const (
	paramStartDate  = "start_date"
	paramEndDate    = "end_date"
	paramProducts   = "products"
	paramRegions    = "regions"
	paramSystems    = "systems"
	paramTeams      = "teams"
	paramMinProfit  = "min_profit"
	paramOwnerQuery = "owner_query"
	paramAgg        = "agg"
	paramGroupBy    = "groupby"
)

// decodeControlsBody reads Controls from a JSON body. An empty body yields
// zero Controls.
func decodeControlsBody(r *http.Request) (analytics.Controls, error) {
	var c analytics.Controls
	if r.Body == nil {
		return c, nil
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return c, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return c, errors.New("request body too large")
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("invalid controls: %w", err)
	}
	return c, nil
}

// controlsFromQuery reads Controls from URL parameters. List parameters may
// repeat or be comma separated.
//
//	?start_date=2026-01-01&products=A,B&regions=EMEA&min_profit=0&agg=mean
func controlsFromQuery(q url.Values) (analytics.Controls, error) {
	c := analytics.Controls{
		StartDate:  q.Get(paramStartDate),
		EndDate:    q.Get(paramEndDate),
		Products:   listParam(q, paramProducts),
		Regions:    listParam(q, paramRegions),
		Systems:    listParam(q, paramSystems),
		Teams:      listParam(q, paramTeams),
		OwnerQuery: q.Get(paramOwnerQuery),
		Agg:        q.Get(paramAgg),
		GroupBy:    q.Get(paramGroupBy),
	}
	if raw := strings.TrimSpace(q.Get(paramMinProfit)); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, fmt.Errorf("invalid %s: %q", paramMinProfit, raw)
		}
		c.MinProfit = &v
	}
	return c, nil
}

func listParam(q url.Values, name string) analytics.StringList {
	var out analytics.StringList
	for _, raw := range q[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// controlsFromRequest reads the body for POST and the query otherwise.
func controlsFromRequest(r *http.Request) (analytics.Controls, error) {
	if r.Method == http.MethodPost {
		return decodeControlsBody(r)
	}
	return controlsFromQuery(r.URL.Query())
}
