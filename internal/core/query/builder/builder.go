// Package builder implements the fluent query builder.
//
// A Builder is a value. Every configuration method returns a new Builder and
// leaves the receiver untouched, so a partially configured builder can be
// shared and extended safely:
//
//	base := builder.ForTable("mood_entries").Select().Eq("user_id", id)
//	latest := base.Order("created_at", false).Single()
//
// Configuration never performs I/O. Executing the description is the job of
// the executor package.
package builder

import (
	"strings"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// Builder accumulates one logical CRUD operation against a table.
type Builder struct {
	query domain.Query
}

// ForTable creates a builder for the named table.
func ForTable(table string) Builder {
	return Builder{
		query: domain.Query{
			Table:   table,
			Columns: "*",
		},
	}
}

// Select sets the operation to SELECT. Each argument may itself be a
// comma-separated column list; no arguments selects all columns.
// A later call replaces the projection of an earlier one.
func (b Builder) Select(columns ...string) Builder {
	projection := strings.TrimSpace(strings.Join(columns, ","))
	if projection == "" {
		projection = "*"
	}

	q := b.clone()
	q.Operation = domain.Select
	q.Columns = projection
	return Builder{query: q}
}

// Eq adds an equality filter. Filters accumulate and are AND-ed in call order.
func (b Builder) Eq(column string, value interface{}) Builder {
	q := b.clone()
	q.Filters = append(q.Filters, domain.Filter{Column: column, Value: value})
	return Builder{query: q}
}

// Order sets the ORDER BY column and direction. The last call wins.
func (b Builder) Order(column string, ascending bool) Builder {
	q := b.clone()
	q.Order = &domain.OrderBy{Column: column, Ascending: ascending}
	return Builder{query: q}
}

// Insert sets the operation to INSERT with the given record.
func (b Builder) Insert(record domain.Record) Builder {
	return b.write(domain.Insert, record)
}

// Upsert sets the operation to INSERT ... ON CONFLICT (id) DO UPDATE.
// The target table must have a single-column primary key named id.
func (b Builder) Upsert(record domain.Record) Builder {
	return b.write(domain.Upsert, record)
}

// Update sets the operation to UPDATE with the given record.
// Pair it with at least one Eq, or call AllowUnfiltered.
func (b Builder) Update(record domain.Record) Builder {
	return b.write(domain.Update, record)
}

// Delete sets the operation to DELETE.
// Pair it with at least one Eq, or call AllowUnfiltered.
func (b Builder) Delete() Builder {
	q := b.clone()
	q.Operation = domain.Delete
	return Builder{query: q}
}

// Single limits a SELECT to one row and unwraps the result to that row or nil.
func (b Builder) Single() Builder {
	q := b.clone()
	q.Single = true
	return Builder{query: q}
}

// AllowUnfiltered permits UPDATE or DELETE to affect every row of the table.
func (b Builder) AllowUnfiltered() Builder {
	q := b.clone()
	q.AllowUnfiltered = true
	return Builder{query: q}
}

// Query returns the accumulated description. The returned value shares no
// mutable state with the builder.
func (b Builder) Query() domain.Query {
	return b.clone()
}

// Table returns the target table.
func (b Builder) Table() string {
	return b.query.Table
}

func (b Builder) write(op domain.Operation, record domain.Record) Builder {
	q := b.clone()
	q.Operation = op
	q.Payload = record.Clone()
	return Builder{query: q}
}

// clone copies the query so that appends and map writes never alias the
// receiver's backing storage.
func (b Builder) clone() domain.Query {
	q := b.query
	if b.query.Filters != nil {
		q.Filters = make([]domain.Filter, len(b.query.Filters), len(b.query.Filters)+1)
		copy(q.Filters, b.query.Filters)
	}
	if b.query.Order != nil {
		order := *b.query.Order
		q.Order = &order
	}
	q.Payload = b.query.Payload.Clone()
	return q
}
