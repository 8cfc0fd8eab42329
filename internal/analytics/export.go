// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/opsboard/internal/models"
)

// CSVContentType is the media type of exports.
const CSVContentType = "text/csv; charset=utf-8"

// ExportFilename names an export taken on the calendar day of now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("dashboard_export_%s.csv", now.Format(models.DateLayout))
}

// WriteCSV writes a header row followed by one line per record, with columns
// in models.ExportColumns order. Null amounts and dates are written empty.
func WriteCSV(w io.Writer, ds models.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(models.ExportColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range ds {
		if err := cw.Write(ds[i].Strings()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportCSV renders ds as CSV content.
func ExportCSV(ds models.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
