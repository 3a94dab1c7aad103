package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// QueryEvent describes one round trip. Start, Duration, Rows and Err are
// filled in once the statement has run, so middlewares read them after
// calling next.
type QueryEvent struct {
	Table     string
	Operation domain.Operation
	SQL       domain.SQL
	Start     time.Time
	Duration  time.Duration
	Rows      int
	Err       error
}

// Next continues the middleware chain.
type Next func(ctx context.Context) error

// Middleware wraps the database round trip of a resolution. Compilation
// failures and mock mode never reach the chain.
type Middleware func(ctx context.Context, event *QueryEvent, next Next) error

// LoggingMiddleware logs every statement at debug level and failures at warn.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(ctx context.Context, event *QueryEvent, next Next) error {
		err := next(ctx)

		attrs := []any{
			"table", event.Table,
			"operation", event.Operation.String(),
			"duration", event.Duration,
		}
		if err != nil {
			logger.WarnContext(ctx, "query failed", append(attrs, "sql", event.SQL.Query, "error", err)...)
			return err
		}
		logger.DebugContext(ctx, "query", append(attrs, "sql", event.SQL.Query, "args", len(event.SQL.Args), "rows", event.Rows)...)
		return nil
	}
}

// TimeoutMiddleware bounds each round trip by d.
func TimeoutMiddleware(d time.Duration) Middleware {
	return func(ctx context.Context, event *QueryEvent, next Next) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return next(ctx)
	}
}
