// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Command opsctl is the operator CLI for Opsboard: it mints and inspects
// development tokens, exports the dashboard table as CSV without a running
// server, and prints the effective configuration.
//
//	opsctl token --role CIO --sub cio@example.com
//	opsctl verify "$TOKEN"
//	opsctl export --role Developer --team Data --start 2026-01-01 --out data.csv
//	opsctl config
package main

import (
	"os"
	"time"

	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	logging.Init(logging.Config{Level: "warn", Format: "console", Output: os.Stderr})

	cli := &app{loadConfig: config.Load, now: time.Now}
	if err := newRootCmd(cli).Execute(); err != nil {
		os.Exit(1)
	}
}
