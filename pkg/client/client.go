// Package client is the entry point for querying the mood-tracking database.
//
// A Client is created once at startup. Without a connection string it runs
// in mock mode: every query resolves to
//
//	{"data": null, "error": {"message": "database not configured"}}
//
// without any network I/O, so callers can run unconfigured.
package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/adapters/database/postgres"
	"github.com/satishbabariya/moodtrack/internal/adapters/telemetry"
	"github.com/satishbabariya/moodtrack/internal/config"
	"github.com/satishbabariya/moodtrack/internal/core/database/pool"
	"github.com/satishbabariya/moodtrack/internal/core/query/builder"
	"github.com/satishbabariya/moodtrack/internal/core/query/compiler"
	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
	"github.com/satishbabariya/moodtrack/internal/core/query/executor"
)

// Re-exported query types.
type (
	Builder    = builder.Builder
	Record     = domain.Record
	Result     = domain.Result
	Error      = domain.Error
	SQL        = domain.SQL
	Pending    = executor.Pending
	Middleware = executor.Middleware
	QueryEvent = executor.QueryEvent
	Next       = executor.Next
	Schema     = compiler.Schema
)

// Re-exported sentinel errors.
var (
	ErrNotConfigured      = domain.ErrNotConfigured
	ErrNoOperation        = domain.ErrNoOperation
	ErrMissingPayload     = domain.ErrMissingPayload
	ErrUnfilteredMutation = domain.ErrUnfilteredMutation
	ErrEmptyIdentifier    = domain.ErrEmptyIdentifier
	ErrUnknownIdentifier  = domain.ErrUnknownIdentifier
)

var warnOnce sync.Once

func warnNotConfigured(logger *slog.Logger) {
	warnOnce.Do(func() {
		logger.Warn("database URL is not set, database features will not work",
			"variables", "DATABASE_URL, NEON_DATABASE_URL")
	})
}

// Client resolves queries through a shared pool.
type Client struct {
	exec *executor.Executor
	pool *pool.Pool
}

// New creates a client from cfg. A config without a database URL gives a
// mock client and logs a warning once per process. Otherwise New connects
// and fails if the database is unreachable.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	o := newOptions(opts)

	if cfg == nil || !cfg.Configured() {
		warnNotConfigured(o.logger)
		return &Client{exec: executor.Mock(o.executorOptions(cfg)...)}, nil
	}

	p, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.Pool)
	if err != nil {
		return nil, err
	}
	if o.registry != nil {
		telemetry.MustRegisterPool(o.registry, "moodtrack", p.DB())
	}

	o.logger.Debug("database connected", "url", config.MaskedURL(cfg.DatabaseURL), "source", cfg.DatabaseURLSource)

	return &Client{exec: executor.New(p, o.executorOptions(cfg)...), pool: p}, nil
}

// NewWithQuerier creates a client over an existing Querier, which the
// caller keeps ownership of. A nil querier gives a mock client.
func NewWithQuerier(q database.Querier, opts ...Option) *Client {
	o := newOptions(opts)
	if q == nil {
		return &Client{exec: executor.Mock(o.executorOptions(nil)...)}
	}
	return &Client{exec: executor.New(q, o.executorOptions(nil)...)}
}

// From starts a query against table.
func (c *Client) From(table string) Builder {
	return builder.ForTable(table)
}

// Execute resolves the query b describes.
func (c *Client) Execute(ctx context.Context, b Builder) Result {
	return c.exec.Execute(ctx, b.Query())
}

// Prepare returns a handle that resolves b once, on first Await.
func (c *Client) Prepare(b Builder) *Pending {
	return c.exec.Prepare(b.Query())
}

// Compile returns the SQL Execute would send for b.
func (c *Client) Compile(b Builder) (SQL, error) {
	return c.exec.Compile(b.Query())
}

// Use appends a middleware. Call it before the client is shared.
func (c *Client) Use(mw Middleware) {
	c.exec.Use(mw)
}

// Mocked reports whether the client is in mock mode.
func (c *Client) Mocked() bool {
	return c.exec.Mocked()
}

// Executor returns the underlying executor.
func (c *Client) Executor() *executor.Executor {
	return c.exec
}

// Pool returns the connection pool, or nil for clients that do not own one.
func (c *Client) Pool() *pool.Pool {
	return c.pool
}

// Ping checks connectivity. Mock clients return ErrNotConfigured.
func (c *Client) Ping(ctx context.Context) error {
	if c.Mocked() {
		return ErrNotConfigured
	}
	if c.pool == nil {
		return nil
	}
	return c.pool.HealthCheck(ctx)
}

// Close releases the pool the client owns.
func (c *Client) Close() error {
	if c.pool == nil {
		return nil
	}
	return c.pool.Close()
}

// NewSchema creates an empty table and column allow-list for WithSchema.
func NewSchema() *Schema {
	return compiler.NewSchema()
}

// IsNotConfigured reports whether err comes from a mock client.
func IsNotConfigured(err error) bool {
	return domain.IsNotConfigured(err)
}
