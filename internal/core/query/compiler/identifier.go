package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// Sanitize strips every character outside [A-Za-z0-9_] from name.
//
// Stripping narrows the injection surface but is not a complete defense: two
// different inputs can collapse to the same identifier. Use a Schema when the
// set of tables and columns is known.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, name)
}

func identifier(name string) (string, error) {
	id := Sanitize(name)
	if id == "" {
		return "", fmt.Errorf("%q: %w", name, domain.ErrEmptyIdentifier)
	}
	return id, nil
}

// Schema is an allow-list of tables and their columns.
type Schema struct {
	tables map[string]map[string]struct{}
}

// NewSchema creates an empty schema registry.
func NewSchema() *Schema {
	return &Schema{tables: make(map[string]map[string]struct{})}
}

// Table registers a table and its columns. Registering a table twice adds
// to its column set.
func (s *Schema) Table(name string, columns ...string) *Schema {
	cols, ok := s.tables[name]
	if !ok {
		cols = make(map[string]struct{}, len(columns))
		s.tables[name] = cols
	}
	for _, col := range columns {
		cols[col] = struct{}{}
	}
	return s
}

// Has reports whether the table, and every given column of it, is registered.
func (s *Schema) Has(table string, columns ...string) bool {
	if s.checkTable(table) != nil {
		return false
	}
	for _, col := range columns {
		if s.checkColumn(table, col) != nil {
			return false
		}
	}
	return true
}

func (s *Schema) checkTable(table string) error {
	if _, ok := s.tables[table]; !ok {
		return fmt.Errorf("table %q: %w", table, domain.ErrUnknownIdentifier)
	}
	return nil
}

func (s *Schema) checkColumn(table, column string) error {
	cols, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("table %q: %w", table, domain.ErrUnknownIdentifier)
	}
	if _, ok := cols[column]; !ok {
		return fmt.Errorf("column %q of %q: %w", column, table, domain.ErrUnknownIdentifier)
	}
	return nil
}
