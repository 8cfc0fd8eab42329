// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the "postgres" driver
	"github.com/tomtom215/opsboard/internal/config"
	"github.com/tomtom215/opsboard/internal/logging"
	"github.com/tomtom215/opsboard/internal/models"
)

// factQuery projects the fact table onto the record schema. The table name is
// validated as a plain identifier by config.Validate.
const factQuery = `SELECT CAST(date AS DATE) AS date, product, region, system, team, owner, status, ` +
	`CAST(revenue AS DOUBLE PRECISION) AS revenue, CAST(cost AS DOUBLE PRECISION) AS cost FROM %s`

// FactQuery returns the SELECT issued against table.
func FactQuery(table string) string {
	return fmt.Sprintf(factQuery, table)
}

// factRow tolerates NULLs in every column.
type factRow struct {
	Date    models.Date     `db:"date"`
	Product sql.NullString  `db:"product"`
	Region  sql.NullString  `db:"region"`
	System  sql.NullString  `db:"system"`
	Team    sql.NullString  `db:"team"`
	Owner   sql.NullString  `db:"owner"`
	Status  sql.NullString  `db:"status"`
	Revenue sql.NullFloat64 `db:"revenue"`
	Cost    sql.NullFloat64 `db:"cost"`
}

func (r *factRow) record() models.Record {
	rec := models.Record{
		Date:    r.Date,
		Product: r.Product.String,
		Region:  r.Region.String,
		System:  r.System.String,
		Team:    r.Team.String,
		Owner:   r.Owner.String,
		Status:  models.Status(r.Status.String),
		Revenue: math.NaN(),
		Cost:    math.NaN(),
	}
	if r.Revenue.Valid {
		rec.Revenue = r.Revenue.Float64
	}
	if r.Cost.Valid {
		rec.Cost = r.Cost.Float64
	}
	rec.ComputeProfit()
	return rec
}

// SQLProvider reads the fact table from PostgreSQL or DuckDB.
// With no DB_URL configured it serves synthetic data instead.
type SQLProvider struct {
	dsn      string
	table    string
	timeout  time.Duration
	db       *sqlx.DB
	fallback Provider
}

// NewSQLProvider creates a provider that opens DB_URL on every load.
func NewSQLProvider(cfg *config.DataConfig, fallback Provider) *SQLProvider {
	return &SQLProvider{
		dsn:      cfg.DBURL,
		table:    cfg.SQLTable,
		timeout:  cfg.ProviderTimeout,
		fallback: fallback,
	}
}

// NewSQLProviderWithDB creates a provider over an already open handle. The
// handle is not closed by the provider.
func NewSQLProviderWithDB(db *sqlx.DB, table string, timeout time.Duration) *SQLProvider {
	return &SQLProvider{db: db, table: table, timeout: timeout, dsn: "preopened"}
}

// Name implements Provider.
func (p *SQLProvider) Name() string { return NameSQL }

// Load implements Provider.
func (p *SQLProvider) Load(ctx context.Context) (models.Dataset, error) {
	if p.dsn == "" {
		logging.Debug().Msg("DB_URL empty, serving synthetic data")
		return p.fallback.Load(ctx)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	db := p.db
	if db == nil {
		driver, source, err := DriverFor(p.dsn)
		if err != nil {
			return nil, &ProviderError{Provider: NameSQL, Op: "open", Err: err}
		}
		db, err = sqlx.ConnectContext(ctx, driver, source)
		if err != nil {
			return nil, &ProviderError{Provider: NameSQL, Op: "connect " + driver, Err: err}
		}
		defer db.Close()
	}

	var rows []factRow
	if err := db.SelectContext(ctx, &rows, FactQuery(p.table)); err != nil {
		return nil, &ProviderError{Provider: NameSQL, Op: "query " + p.table, Err: err}
	}

	ds := make(models.Dataset, len(rows))
	for i := range rows {
		ds[i] = rows[i].record()
	}
	return ds, nil
}

// DriverFor maps DB_URL to a registered driver name and its data source.
//
//	postgres://... or postgresql://...  -> "postgres", unchanged
//	duckdb:///path/to/file.duckdb       -> "duckdb", "/path/to/file.duckdb"
//	duckdb://                           -> "duckdb", "" (in-memory)
//	/path/to/file.duckdb                -> "duckdb", unchanged
func DriverFor(dsn string) (driver, source string, err error) {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(lower, "duckdb://"):
		return "duckdb", dsn[len("duckdb://"):], nil
	case strings.HasSuffix(lower, ".duckdb"):
		return "duckdb", dsn, nil
	default:
		return "", "", ErrUnknownDriver
	}
}
