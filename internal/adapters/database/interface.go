// Package database defines the interfaces the query executor runs SQL on.
package database

import (
	"context"
	"database/sql"
)

// Rows is the subset of *sql.Rows the executor needs to map a result set.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Close() error
	Err() error
}

// Querier runs a statement and returns its rows.
type Querier interface {
	// QueryRows executes a statement that may return rows. Statements
	// without RETURNING yield an empty row set.
	QueryRows(ctx context.Context, query string, args ...interface{}) (Rows, error)
}

// Execer runs statements that return no rows, such as DDL.
type Execer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SQLDialect represents a SQL dialect.
type SQLDialect string

const (
	// PostgreSQL is the only dialect the compiler emits.
	PostgreSQL SQLDialect = "postgres"
	// SQLite accepts the same $n placeholders and is used in tests.
	SQLite SQLDialect = "sqlite3"
)

// DBQuerier adapts a *sql.DB to Querier and Execer.
type DBQuerier struct {
	DB *sql.DB
}

// QueryRows implements Querier.
func (q DBQuerier) QueryRows(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Exec implements Execer.
func (q DBQuerier) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return q.DB.ExecContext(ctx, query, args...)
}

var (
	_ Querier = DBQuerier{}
	_ Execer  = DBQuerier{}
	_ Rows    = (*sql.Rows)(nil)
)
