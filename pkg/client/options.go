package client

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/satishbabariya/moodtrack/internal/adapters/telemetry"
	"github.com/satishbabariya/moodtrack/internal/config"
	"github.com/satishbabariya/moodtrack/internal/core/query/compiler"
	"github.com/satishbabariya/moodtrack/internal/core/query/executor"
	"github.com/satishbabariya/moodtrack/internal/debug"
)

type options struct {
	logger      *slog.Logger
	logQueries  bool
	schema      *compiler.Schema
	registry    *prometheus.Registry
	middlewares []executor.Middleware
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the logger for warnings and query logs. Defaults to the
// process logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQueryLogging logs every statement at debug level.
func WithQueryLogging(enabled bool) Option {
	return func(o *options) {
		o.logQueries = enabled
	}
}

// WithSchema rejects queries naming tables or columns outside s.
func WithSchema(s *Schema) Option {
	return func(o *options) {
		o.schema = s
	}
}

// WithMetrics registers query and pool metrics on registry and samples them.
func WithMetrics(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithMiddleware appends middlewares to the query chain.
func WithMiddleware(mws ...Middleware) Option {
	return func(o *options) {
		o.middlewares = append(o.middlewares, mws...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = debug.Logger()
	}
	if o.registry != nil {
		telemetry.MustRegisterMetrics(o.registry)
	}
	return o
}

func (o *options) executorOptions(cfg *config.Config) []executor.Option {
	var opts []executor.Option
	if o.schema != nil {
		opts = append(opts, executor.WithCompiler(compiler.NewSQLCompiler(compiler.WithSchema(o.schema))))
	}
	if cfg != nil && cfg.QueryTimeout > 0 {
		opts = append(opts, executor.WithMiddleware(executor.TimeoutMiddleware(cfg.QueryTimeout)))
	}
	if o.logQueries {
		opts = append(opts, executor.WithMiddleware(executor.LoggingMiddleware(o.logger)))
	}
	if o.registry != nil {
		opts = append(opts, executor.WithMiddleware(telemetry.Middleware()))
	}
	return append(opts, executor.WithMiddleware(o.middlewares...))
}
