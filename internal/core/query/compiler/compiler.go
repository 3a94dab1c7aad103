// Package compiler implements Postgres SQL compilation from pending queries.
package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// conflictTarget is the upsert conflict column. Tables used with Upsert must
// have a single-column primary key with this name.
const conflictTarget = "id"

// SQLCompiler implements the domain.QueryCompiler interface.
type SQLCompiler struct {
	schema *Schema
}

// Option configures a SQLCompiler.
type Option func(*SQLCompiler)

// WithSchema restricts compilation to the tables and columns registered in s.
func WithSchema(s *Schema) Option {
	return func(c *SQLCompiler) {
		c.schema = s
	}
}

// NewSQLCompiler creates a new SQL compiler.
func NewSQLCompiler(opts ...Option) *SQLCompiler {
	c := &SQLCompiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles a query to SQL. It never issues I/O.
func (c *SQLCompiler) Compile(query domain.Query) (domain.SQL, error) {
	switch query.Operation {
	case domain.Select:
		return c.compileSelect(query)
	case domain.Insert:
		return c.compileInsert(query, false)
	case domain.Upsert:
		return c.compileInsert(query, true)
	case domain.Update:
		return c.compileUpdate(query)
	case domain.Delete:
		return c.compileDelete(query)
	case domain.None:
		return domain.SQL{}, domain.ErrNoOperation
	default:
		return domain.SQL{}, fmt.Errorf("unsupported operation: %s", query.Operation)
	}
}

// compileSelect compiles a SELECT query.
func (c *SQLCompiler) compileSelect(query domain.Query) (domain.SQL, error) {
	table, err := c.table(query.Table)
	if err != nil {
		return domain.SQL{}, err
	}

	columns, err := c.projection(table, query.Columns)
	if err != nil {
		return domain.SQL{}, err
	}

	var sb strings.Builder
	var args []interface{}
	argIndex := 1

	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	whereSQL, whereArgs, err := c.buildWhereClause(table, query.Filters, &argIndex)
	if err != nil {
		return domain.SQL{}, err
	}
	if whereSQL != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(whereSQL)
		args = append(args, whereArgs...)
	}

	if query.Order != nil {
		column, err := c.column(table, query.Order.Column)
		if err != nil {
			return domain.SQL{}, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(column)
		sb.WriteString(" ")
		sb.WriteString(query.Order.Direction())
	}

	if query.Single {
		sb.WriteString(" LIMIT 1")
	}

	return domain.SQL{Query: sb.String(), Args: args}, nil
}

// compileInsert compiles INSERT, and with upsert set, INSERT ... ON CONFLICT.
func (c *SQLCompiler) compileInsert(query domain.Query, upsert bool) (domain.SQL, error) {
	if len(query.Payload) == 0 {
		return domain.SQL{}, fmt.Errorf("%s: %w", query.Operation, domain.ErrMissingPayload)
	}

	table, err := c.table(query.Table)
	if err != nil {
		return domain.SQL{}, err
	}

	keys, values, err := c.payload(table, query.Payload)
	if err != nil {
		return domain.SQL{}, err
	}

	argIndex := 1
	placeholders := make([]string, len(keys))
	for i := range keys {
		placeholders[i] = placeholder(&argIndex)
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(keys, ", "),
		strings.Join(placeholders, ", "),
	)

	if upsert {
		updates := make([]string, len(keys))
		for i, key := range keys {
			updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", key, key)
		}
		sql += fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", conflictTarget, strings.Join(updates, ", "))
	}

	sql += " RETURNING *"

	return domain.SQL{Query: sql, Args: values}, nil
}

// compileUpdate compiles an UPDATE query. Payload placeholders come first,
// filter placeholders continue the numbering.
func (c *SQLCompiler) compileUpdate(query domain.Query) (domain.SQL, error) {
	if len(query.Payload) == 0 {
		return domain.SQL{}, fmt.Errorf("%s: %w", query.Operation, domain.ErrMissingPayload)
	}
	if len(query.Filters) == 0 && !query.AllowUnfiltered {
		return domain.SQL{}, fmt.Errorf("%s %s: %w", query.Operation, query.Table, domain.ErrUnfilteredMutation)
	}

	table, err := c.table(query.Table)
	if err != nil {
		return domain.SQL{}, err
	}

	keys, args, err := c.payload(table, query.Payload)
	if err != nil {
		return domain.SQL{}, err
	}

	argIndex := 1
	setClauses := make([]string, len(keys))
	for i, key := range keys {
		setClauses[i] = fmt.Sprintf("%s = %s", key, placeholder(&argIndex))
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(setClauses, ", "))

	whereSQL, whereArgs, err := c.buildWhereClause(table, query.Filters, &argIndex)
	if err != nil {
		return domain.SQL{}, err
	}
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
		args = append(args, whereArgs...)
	}

	sql += " RETURNING *"

	return domain.SQL{Query: sql, Args: args}, nil
}

// compileDelete compiles a DELETE query.
func (c *SQLCompiler) compileDelete(query domain.Query) (domain.SQL, error) {
	if len(query.Filters) == 0 && !query.AllowUnfiltered {
		return domain.SQL{}, fmt.Errorf("%s %s: %w", query.Operation, query.Table, domain.ErrUnfilteredMutation)
	}

	table, err := c.table(query.Table)
	if err != nil {
		return domain.SQL{}, err
	}

	sql := "DELETE FROM " + table

	argIndex := 1
	whereSQL, args, err := c.buildWhereClause(table, query.Filters, &argIndex)
	if err != nil {
		return domain.SQL{}, err
	}
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}

	return domain.SQL{Query: sql, Args: args}, nil
}

// buildWhereClause builds the AND-ed equality predicates.
func (c *SQLCompiler) buildWhereClause(table string, filters []domain.Filter, argIndex *int) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))

	for _, filter := range filters {
		column, err := c.column(table, filter.Column)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, fmt.Sprintf("%s = %s", column, placeholder(argIndex)))
		args = append(args, filter.Value)
	}

	return strings.Join(clauses, " AND "), args, nil
}

// projection sanitizes a comma-separated column list.
func (c *SQLCompiler) projection(table, columns string) (string, error) {
	columns = strings.TrimSpace(columns)
	if columns == "" || columns == "*" {
		return "*", nil
	}

	fragments := strings.Split(columns, ",")
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "*" {
			out = append(out, "*")
			continue
		}
		column, err := c.column(table, fragment)
		if err != nil {
			return "", err
		}
		out = append(out, column)
	}
	return strings.Join(out, ", "), nil
}

// payload returns the sanitized keys of a record in lexicographic order
// together with the matching values.
func (c *SQLCompiler) payload(table string, record domain.Record) ([]string, []interface{}, error) {
	raw := make([]string, 0, len(record))
	for key := range record {
		raw = append(raw, key)
	}
	sort.Strings(raw)

	keys := make([]string, len(raw))
	values := make([]interface{}, len(raw))
	seen := make(map[string]string, len(raw))
	for i, key := range raw {
		column, err := c.column(table, key)
		if err != nil {
			return nil, nil, err
		}
		if prev, ok := seen[column]; ok {
			return nil, nil, fmt.Errorf("%q and %q: %w", prev, key, domain.ErrDuplicateIdentifier)
		}
		seen[column] = key
		keys[i] = column
		values[i] = record[key]
	}
	return keys, values, nil
}

func (c *SQLCompiler) table(name string) (string, error) {
	table, err := identifier(name)
	if err != nil {
		return "", fmt.Errorf("table: %w", err)
	}
	if c.schema != nil {
		if err := c.schema.checkTable(table); err != nil {
			return "", err
		}
	}
	return table, nil
}

func (c *SQLCompiler) column(table, name string) (string, error) {
	column, err := identifier(name)
	if err != nil {
		return "", fmt.Errorf("column: %w", err)
	}
	if c.schema != nil {
		if err := c.schema.checkColumn(table, column); err != nil {
			return "", err
		}
	}
	return column, nil
}

// placeholder returns the next Postgres positional parameter.
func placeholder(argIndex *int) string {
	defer func() { *argIndex++ }()
	return fmt.Sprintf("$%d", *argIndex)
}

// Ensure SQLCompiler implements QueryCompiler interface.
var _ domain.QueryCompiler = (*SQLCompiler)(nil)
