// Package executor resolves pending queries: it compiles them, runs them on
// a Querier and maps the outcome to the result envelope.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/core/query/compiler"
	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// Executor resolves queries against one Querier. An Executor without a
// Querier is in mock mode. The Querier is owned by the caller; the executor
// never closes it.
type Executor struct {
	querier     database.Querier
	compiler    domain.QueryCompiler
	middlewares []Middleware
}

// Option configures an Executor.
type Option func(*Executor)

// WithCompiler replaces the default SQL compiler.
func WithCompiler(c domain.QueryCompiler) Option {
	return func(e *Executor) {
		e.compiler = c
	}
}

// WithMiddleware appends middlewares to the chain.
func WithMiddleware(mws ...Middleware) Option {
	return func(e *Executor) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// New creates an executor. A nil querier yields a mock executor.
func New(querier database.Querier, opts ...Option) *Executor {
	e := &Executor{
		querier:  querier,
		compiler: compiler.NewSQLCompiler(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mock creates an executor that answers every query with ErrNotConfigured
// and never performs I/O.
func Mock(opts ...Option) *Executor {
	return New(nil, opts...)
}

// Mocked reports whether the executor is in mock mode.
func (e *Executor) Mocked() bool {
	return e.querier == nil
}

// Use appends a middleware. It must not be called concurrently with Execute.
func (e *Executor) Use(mw Middleware) {
	e.middlewares = append(e.middlewares, mw)
}

// Compile returns the SQL the executor would send for q.
func (e *Executor) Compile(q domain.Query) (sql domain.SQL, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compile %s %s: %v", q.Operation, q.Table, r)
		}
	}()
	return e.compiler.Compile(q)
}

// Execute resolves q. It never panics and never returns both data and an
// error: failures of any kind end up in Result.Err.
func (e *Executor) Execute(ctx context.Context, q domain.Query) domain.Result {
	if e.Mocked() {
		return domain.Failure(domain.NewError(domain.KindConfig, domain.ErrNotConfigured))
	}

	sql, err := e.Compile(q)
	if err != nil {
		return domain.Failure(domain.NewError(domain.KindCompile, err))
	}

	event := &QueryEvent{
		Table:     q.Table,
		Operation: q.Operation,
		SQL:       sql,
	}

	var rows []domain.Record
	err = e.chain(ctx, event, func(ctx context.Context) error {
		event.Start = time.Now()
		var runErr error
		rows, runErr = e.run(ctx, sql)
		event.Duration = time.Since(event.Start)
		event.Rows = len(rows)
		event.Err = runErr
		return runErr
	})
	if err != nil {
		return domain.Failure(domain.NewError(domain.KindDriver, err))
	}

	return domain.Success(q.Single, rows)
}

// Prepare returns a memoized handle for q. Nothing runs until Await.
func (e *Executor) Prepare(q domain.Query) *Pending {
	return &Pending{executor: e, query: q}
}

func (e *Executor) chain(ctx context.Context, event *QueryEvent, final Next) error {
	next := final
	for i := len(e.middlewares) - 1; i >= 0; i-- {
		mw, inner := e.middlewares[i], next
		next = func(ctx context.Context) error {
			return mw(ctx, event, inner)
		}
	}
	return next(ctx)
}

// run sends the statement and scans every returned row into a Record.
// Driver errors are returned unwrapped.
func (e *Executor) run(ctx context.Context, sql domain.SQL) ([]domain.Record, error) {
	rows, err := e.querier.QueryRows(ctx, sql.Query, sql.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []domain.Record
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(domain.Record, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
