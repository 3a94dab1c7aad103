// Package postgres opens the Postgres pool and inspects the server and its errors.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/lib/pq"
	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/core/database/pool"
)

// DriverName is the database/sql driver registered by lib/pq.
const DriverName = "postgres"

// MinServerVersion is the oldest server that supports INSERT ... ON CONFLICT.
const MinServerVersion = "9.5"

// ValidateURL checks that url is a postgres:// or postgresql:// connection URL.
func ValidateURL(url string) error {
	if _, err := pq.ParseURL(url); err != nil {
		return fmt.Errorf("invalid connection string: %w", err)
	}
	return nil
}

// Open validates the connection URL and opens a pool on it.
func Open(ctx context.Context, url string, cfg pool.Config) (*pool.Pool, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}
	return pool.Open(ctx, DriverName, url, cfg)
}

// ServerVersion asks the server for its version.
func ServerVersion(ctx context.Context, q database.Querier) (*version.Version, error) {
	rows, err := q.QueryRows(ctx, "SHOW server_version")
	if err != nil {
		return nil, fmt.Errorf("failed to query server version: %w", err)
	}
	defer rows.Close()

	var raw string
	if rows.Next() {
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan server version: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ParseServerVersion(raw)
}

// ParseServerVersion parses values such as "16.2 (Debian 16.2-1.pgdg120+2)".
func ParseServerVersion(raw string) (*version.Version, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil, errors.New("empty server version")
	}
	v, err := version.NewVersion(fields[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse server version %q: %w", raw, err)
	}
	return v, nil
}

// CheckCompatibility reports an error when v predates MinServerVersion.
func CheckCompatibility(v *version.Version) error {
	constraint, err := version.NewConstraint(">= " + MinServerVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("server version %s does not support ON CONFLICT (requires %s)", v, MinServerVersion)
	}
	return nil
}

// Postgres SQLSTATE codes the CLI reports specially.
const (
	CodeUniqueViolation     pq.ErrorCode = "23505"
	CodeForeignKeyViolation pq.ErrorCode = "23503"
	CodeUndefinedTable      pq.ErrorCode = "42P01"
	CodeUndefinedColumn     pq.ErrorCode = "42703"
)

// Code returns the SQLSTATE of a server error, or "" when err did not come
// from the server.
func Code(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// Describe formats a server error with its SQLSTATE and hint. Other errors
// are returned as their message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s %s]", pqErr.Message, pqErr.Code, pqErr.Code.Name())
	if pqErr.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(pqErr.Detail)
	}
	if pqErr.Hint != "" {
		sb.WriteString(" (hint: ")
		sb.WriteString(pqErr.Hint)
		sb.WriteString(")")
	}
	return sb.String()
}
