// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opsboard/internal/auth"
	"github.com/tomtom215/opsboard/internal/authz"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/dashboard"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/models"
	ws "github.com/tomtom215/opsboard/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "error", Format: "console", Output: io.Discard})
}

const (
	testSecret = "test-secret"
	testOrigin = "http://dashboard.test"
)

var testNow = time.Date(2025, time.January, 3, 12, 0, 0, 0, time.UTC)

// fakeSource serves a fixed dataset and records the keys it was asked for.
type fakeSource struct {
	mu   sync.Mutex
	data models.Dataset
	err  error
	keys []string
}

func (f *fakeSource) GetData(_ context.Context, key string) (models.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	return f.data.Clone(), nil
}

func (f *fakeSource) NewForceKey() string  { return "2025-01-03__1735905600" }
func (f *fakeSource) ProviderName() string { return "SYNTHETIC" }

func (f *fakeSource) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func sampleRows() models.Dataset {
	d := func(day int) models.Date { return models.NewDate(2025, time.January, day) }
	return models.Dataset{
		{Date: d(1), Product: "A", Region: "EMEA", System: "Core", Team: "Data", Owner: "alice", Status: models.StatusGreen, Revenue: 100, Cost: 60, Profit: 40},
		{Date: d(2), Product: "B", Region: "APAC", System: "Web", Team: "Platform", Owner: "bob", Status: models.StatusRed, Revenue: 50, Cost: 80, Profit: -30},
		{Date: d(3), Product: "A", Region: "EMEA", System: "Core", Team: "Data", Owner: "carol", Status: models.StatusRed, Revenue: 70000, Cost: 20, Profit: 69980},
	}
}

type testServer struct {
	t       *testing.T
	source  *fakeSource
	hub     *ws.Hub
	handler http.Handler
	issuer  *auth.Issuer
}

type serverOption func(*config.Config)

func withAuthDisabled() serverOption {
	return func(c *config.Config) { c.Auth.Disabled = true }
}

func withRateLimit(reqs int) serverOption {
	return func(c *config.Config) {
		c.Server.RateLimitDisabled = false
		c.Server.RateLimitReqs = reqs
	}
}

func newTestServer(t *testing.T, hub *ws.Hub, opts ...serverOption) *testServer {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Title: "Test Board"},
		Server: config.ServerConfig{
			CORSOrigins:       []string{testOrigin},
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		Auth: config.AuthConfig{JWTSecret: testSecret},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	src := &fakeSource{data: sampleRows()}
	gate, err := authz.NewGate(&cfg.Auth)
	if err != nil {
		t.Fatalf("authz.NewGate() error = %v", err)
	}
	dash, err := dashboard.New(src, gate, func() time.Time { return testNow })
	if err != nil {
		t.Fatalf("dashboard.New() error = %v", err)
	}

	validator, err := auth.NewValidator(&cfg.Auth, nil)
	if err != nil {
		t.Fatalf("auth.NewValidator() error = %v", err)
	}
	issuer, err := auth.NewIssuer(&cfg.Auth)
	if err != nil {
		t.Fatalf("auth.NewIssuer() error = %v", err)
	}

	chiMw := NewChiMiddlewareFromConfig(&cfg.Server)
	handler := NewHandler(cfg, dash, gate, hub, chiMw)
	router := NewRouter(handler, auth.NewMiddleware(validator, cfg.Auth.Disabled), gate, chiMw)

	return &testServer{t: t, source: src, hub: hub, handler: router.SetupChi(), issuer: issuer}
}

func (s *testServer) token(role, team string) string {
	s.t.Helper()
	tok, err := s.issuer.Mint("user@example.com", "Test User", role, team, time.Hour)
	if err != nil {
		s.t.Fatalf("Mint() error = %v", err)
	}
	return tok
}

// do sends a request, authenticated as role/team unless role is empty.
func (s *testServer) do(method, target, body, role, team string) *httptest.ResponseRecorder {
	s.t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(role, team))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// envelope is APIResponse with Data left raw for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false, error = %+v", env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func wantError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("success = true, want false")
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}
