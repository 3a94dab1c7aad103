// Package telemetry samples Prometheus metrics for query resolutions.
package telemetry

import (
	"context"
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/satishbabariya/moodtrack/internal/core/query/executor"
)

// MustRegisterMetrics registers all query metrics on the given registry.
// It panics if metrics with the same name are already registered.
func MustRegisterMetrics(registry *prometheus.Registry) {
	registry.MustRegister(queryDuration, queryCounter, queryRows)
}

// MustRegisterPool registers the database/sql pool statistics of db under
// the given name.
func MustRegisterPool(registry *prometheus.Registry, name string, db *sql.DB) {
	registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

// Middleware returns an executor middleware that samples every round trip.
func Middleware() executor.Middleware {
	return func(ctx context.Context, event *executor.QueryEvent, next executor.Next) error {
		start := time.Now()
		err := next(ctx)
		SampleQuery(event.Table, event.Operation.String(), time.Since(start), event.Rows, err)
		return err
	}
}

// SampleQuery records one resolution.
func SampleQuery(table, operation string, elapsed time.Duration, rows int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	labels := prometheus.Labels{
		"table":     table,
		"operation": operation,
		"status":    status,
	}
	queryDuration.With(labels).Observe(elapsed.Seconds())
	queryCounter.With(labels).Inc()
	if err == nil {
		queryRows.With(prometheus.Labels{"table": table, "operation": operation}).Observe(float64(rows))
	}
}

var (
	queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "moodtrack_query_duration_seconds",
			Help: "Duration of a query round trip",
			// serverless Postgres adds a cold start to the first query
			Buckets: []float64{
				.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1,
				2.5, 5, 10,
			},
		},
		[]string{"table", "operation", "status"},
	)
	queryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodtrack_queries_total",
			Help: "Total of resolved queries",
		},
		[]string{"table", "operation", "status"},
	)
	queryRows = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodtrack_query_rows",
			Help:    "Rows returned by a successful query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		},
		[]string{"table", "operation"},
	)
)
