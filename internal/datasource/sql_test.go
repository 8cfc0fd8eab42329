// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/models"
)

var factColumns = []string{"date", "product", "region", "system", "team", "owner", "status", "revenue", "cost"}

func TestSQLProvider_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	day := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(FactQuery("analytics_facts"))).
		WillReturnRows(sqlmock.NewRows(factColumns).
			AddRow(day, "Alpha", "EMEA", "Payments", "Retail", "bob", "Green", 120.0, 20.0).
			AddRow("2026-03-05", "Beta", nil, "Web", "Data", "carol", "Red", 80.0, nil))

	p := NewSQLProviderWithDB(sqlx.NewDb(db, "sqlmock"), "analytics_facts", time.Second)
	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("len(Load()) = %d, want 2", len(ds))
	}

	if ds[0].Date != models.NewDate(2026, time.March, 4) {
		t.Errorf("row 0 date = %s, want 2026-03-04", ds[0].Date)
	}
	if ds[0].Profit != 100 {
		t.Errorf("row 0 profit = %v, want 100", ds[0].Profit)
	}
	if ds[1].Region != "" {
		t.Errorf("NULL region = %q, want empty", ds[1].Region)
	}
	if !math.IsNaN(ds[1].Cost) || !math.IsNaN(ds[1].Profit) {
		t.Errorf("NULL cost row = cost %v profit %v, want NaN", ds[1].Cost, ds[1].Profit)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLProvider_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(FactQuery("facts"))).WillReturnError(errors.New("relation does not exist"))

	p := NewSQLProviderWithDB(sqlx.NewDb(db, "sqlmock"), "facts", 0)
	_, err = p.Load(context.Background())

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ProviderError", err)
	}
	if pe.Provider != NameSQL {
		t.Errorf("Provider = %q, want %q", pe.Provider, NameSQL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSQLProvider_EmptyDSNFallsBack(t *testing.T) {
	p := NewSQLProvider(&config.DataConfig{SQLTable: "facts"}, NewSyntheticProvider(3, 42, clock))

	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds) != 3 {
		t.Errorf("len(Load()) = %d, want 3 synthetic rows", len(ds))
	}
}

func TestSQLProvider_UnknownDriver(t *testing.T) {
	p := NewSQLProvider(&config.DataConfig{DBURL: "mysql://localhost/db", SQLTable: "facts"}, nil)

	_, err := p.Load(context.Background())
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Load() error = %v, want ErrUnknownDriver", err)
	}
}

func TestDriverFor(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{"postgres://u:p@localhost:5432/db", "postgres", "postgres://u:p@localhost:5432/db", false},
		{"postgresql://localhost/db?sslmode=disable", "postgres", "postgresql://localhost/db?sslmode=disable", false},
		{"duckdb:///var/lib/opsboard/facts.duckdb", "duckdb", "/var/lib/opsboard/facts.duckdb", false},
		{"duckdb://", "duckdb", "", false},
		{"/data/facts.duckdb", "duckdb", "/data/facts.duckdb", false},
		{"mysql://localhost/db", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, err := DriverFor(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DriverFor(%q) error = %v, wantErr %v", tt.dsn, err, tt.wantErr)
			}
			if driver != tt.wantDriver {
				t.Errorf("DriverFor(%q) driver = %q, want %q", tt.dsn, driver, tt.wantDriver)
			}
			if source != tt.wantSource {
				t.Errorf("DriverFor(%q) source = %q, want %q", tt.dsn, source, tt.wantSource)
			}
		})
	}
}

func TestSQLProvider_DuckDB(t *testing.T) {
	db, err := sqlx.Open("duckdb", "")
	if err != nil {
		t.Fatalf("sqlx.Open(duckdb) error = %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE facts (date DATE, product VARCHAR, region VARCHAR, system VARCHAR, team VARCHAR, owner VARCHAR, status VARCHAR, revenue DOUBLE, cost DOUBLE)`,
		`INSERT INTO facts VALUES ('2026-02-01', 'Alpha', 'EMEA', 'Payments', 'Retail', 'bob', 'Green', 500, 200)`,
		`INSERT INTO facts VALUES ('2026-02-02', 'Beta', 'APAC', 'Web', 'Data', 'erin', 'Amber', 300, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Exec(%q) error = %v", stmt, err)
		}
	}

	ds, err := NewSQLProviderWithDB(db, "facts", time.Second).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("len(Load()) = %d, want 2", len(ds))
	}
	total := 0.0
	for _, r := range ds {
		if !math.IsNaN(r.Profit) {
			total += r.Profit
		}
	}
	if total != 300 {
		t.Errorf("sum of non-null profit = %v, want 300", total)
	}
}
