package telemetry_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/adapters/telemetry"
	"github.com/satishbabariya/moodtrack/internal/core/query/builder"
	"github.com/satishbabariya/moodtrack/internal/core/query/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingQuerier struct{ err error }

func (f failingQuerier) QueryRows(context.Context, string, ...interface{}) (database.Rows, error) {
	return nil, f.err
}

func TestRegisterMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	telemetry.MustRegisterMetrics(registry)
	assert.Panics(t, func() { telemetry.MustRegisterMetrics(registry) })
}

func TestMustRegisterPool(t *testing.T) {
	// sql.Open is lazy, so no connection is attempted here.
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	registry := prometheus.NewRegistry()
	telemetry.MustRegisterPool(registry, "moodtrack", db)

	count, err := testutil.GatherAndCount(registry, "go_sql_max_open_connections")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMiddleware_SamplesResolutions(t *testing.T) {
	registry := prometheus.NewRegistry()
	telemetry.MustRegisterMetrics(registry)

	exec := executor.New(failingQuerier{err: errors.New("connection refused")},
		executor.WithMiddleware(telemetry.Middleware()))
	result := exec.Execute(context.Background(), builder.ForTable("telemetry_probe").Select().Query())
	require.NotNil(t, result.Err)

	telemetry.SampleQuery("telemetry_probe", "SELECT", 3*time.Millisecond, 2, nil)

	expected := `
# HELP moodtrack_queries_total Total of resolved queries
# TYPE moodtrack_queries_total counter
moodtrack_queries_total{operation="SELECT",status="error",table="telemetry_probe"} 1
moodtrack_queries_total{operation="SELECT",status="ok",table="telemetry_probe"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "moodtrack_queries_total"))

	rows, err := testutil.GatherAndCount(registry, "moodtrack_query_rows")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}
