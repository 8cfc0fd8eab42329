// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned when DB_URL does not name a supported database.
var ErrUnknownDriver = errors.New("unsupported database url: expected postgres://, postgresql://, duckdb:// or a .duckdb file")

// ProviderError reports a failed load from an upstream system. The cache
// never stores a dataset when a ProviderError occurred.
type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider: %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
