// Package domain contains the pending query description, the result envelope
// and the interfaces shared by the builder, compiler and executor.
package domain

import "maps"

// Query is the description of one pending CRUD operation against a table.
// It is a plain value: builders return modified copies and never mutate a
// Query that has already been handed out.
type Query struct {
	Table     string
	Operation Operation
	// Columns is the projection for SELECT. Empty or "*" selects all columns.
	Columns string
	// Filters are AND-ed equality predicates, in call order.
	Filters []Filter
	Order   *OrderBy
	// Payload holds the record for INSERT, UPSERT and UPDATE.
	Payload Record
	// Single asks for at most one row; the result is unwrapped to that row.
	Single bool
	// AllowUnfiltered permits UPDATE and DELETE without any filter.
	AllowUnfiltered bool
}

// Operation is the kind of statement a Query compiles to.
type Operation string

const (
	// None means no operation has been configured yet.
	None Operation = ""
	// Select reads rows.
	Select Operation = "SELECT"
	// Insert creates a row.
	Insert Operation = "INSERT"
	// Upsert creates a row or updates it when its id already exists.
	Upsert Operation = "UPSERT"
	// Update modifies rows.
	Update Operation = "UPDATE"
	// Delete removes rows.
	Delete Operation = "DELETE"
)

// String returns the operation name, or "NONE" for the zero value.
func (o Operation) String() string {
	if o == None {
		return "NONE"
	}
	return string(o)
}

// IsMutation reports whether the operation writes to the table.
func (o Operation) IsMutation() bool {
	switch o {
	case Insert, Upsert, Update, Delete:
		return true
	}
	return false
}

// Filter is a single column = value constraint.
type Filter struct {
	Column string
	Value  interface{}
}

// OrderBy defines sorting on one column.
type OrderBy struct {
	Column    string
	Ascending bool
}

// Direction returns the SQL keyword for the sort direction.
func (o OrderBy) Direction() string {
	if o.Ascending {
		return "ASC"
	}
	return "DESC"
}

// Record maps column names to values.
type Record map[string]interface{}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// SQL is a compiled statement with its positional arguments.
type SQL struct {
	Query string
	Args  []interface{}
}

// QueryCompiler compiles a Query into SQL.
type QueryCompiler interface {
	Compile(query Query) (SQL, error)
}
