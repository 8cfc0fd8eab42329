// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/data", "200"))
	RecordAPIRequest("GET", "/api/v1/data", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/data", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordDatasetLoad(t *testing.T) {
	tests := []struct {
		name        string
		rows        int
		dropped     int
		err         error
		wantResult  string
		wantDropped float64
	}{
		{name: "success capped", rows: 10, dropped: 5, wantResult: "success", wantDropped: 5},
		{name: "success uncapped", rows: 3, wantResult: "success"},
		{name: "failure", err: errors.New("boom"), wantResult: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := "test-" + tt.name
			RecordDatasetLoad(provider, time.Millisecond, tt.rows, tt.dropped, tt.err)

			if got := testutil.ToFloat64(DatasetLoads.WithLabelValues(provider, tt.wantResult)); got != 1 {
				t.Errorf("dataset_loads_total{result=%s} = %v, want 1", tt.wantResult, got)
			}
			if got := testutil.ToFloat64(DatasetRowsCapped.WithLabelValues(provider)); got != tt.wantDropped {
				t.Errorf("dataset_rows_capped_total = %v, want %v", got, tt.wantDropped)
			}
			if tt.err == nil {
				if got := testutil.ToFloat64(DatasetRows.WithLabelValues(provider)); got != float64(tt.rows) {
					t.Errorf("dataset_rows = %v, want %d", got, tt.rows)
				}
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	RecordCacheLookup("unit", true)
	RecordCacheLookup("unit", false)
	RecordCacheLookup("unit", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("unit")); got != 1 {
		t.Errorf("cache_hits_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("unit")); got != 2 {
		t.Errorf("cache_misses_total = %v, want 2", got)
	}
}

func TestStartUptimeTracker(t *testing.T) {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		StartUptimeTracker(time.Now().Add(-time.Minute), time.Hour, stop)
		close(done)
	}()
	close(stop)
	<-done

	if got := testutil.ToFloat64(AppUptime); got < 60 {
		t.Errorf("app_uptime_seconds = %v, want >= 60", got)
	}
}

func TestMetricsLint(t *testing.T) {
	SetAppInfo("test")
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
