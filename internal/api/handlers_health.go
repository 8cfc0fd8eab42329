// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opsboard/internal/logging"
)

//go:embed assets
var assetsFS embed.FS

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health reports liveness. It is unauthenticated and never touches the data
// source, so it stays cheap under monitoring load.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	body := HealthStatus{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339)}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("Failed to encode health response")
	}
}

// staticAssets returns the embedded asset tree rooted at assets/.
func staticAssets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return sub
}

// Assets serves /assets/*.
func (h *Handler) Assets() http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.FS(staticAssets())))
}

// Index serves the single-page client.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(staticAssets(), "index.html")
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Embedded index.html missing")
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	_, _ = w.Write(data)
}
