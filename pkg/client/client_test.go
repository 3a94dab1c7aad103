package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/config"
	"github.com/satishbabariya/moodtrack/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQuerier struct {
	mu      sync.Mutex
	queries []string
}

func (r *recordingQuerier) QueryRows(_ context.Context, query string, _ ...interface{}) (database.Rows, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	return emptyRows{}, nil
}

func (r *recordingQuerier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

type emptyRows struct{}

func (emptyRows) Columns() ([]string, error) { return nil, nil }
func (emptyRows) Next() bool { return false }
func (emptyRows) Scan(...interface{}) error { return nil }
func (emptyRows) Close() error { return nil }
func (emptyRows) Err() error { return nil }

func TestNew_MockModeWarnsOnce(t *testing.T) {
	client.ResetWarning()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	for i := 0; i < 3; i++ {
		c, err := client.New(context.Background(), &config.Config{}, client.WithLogger(logger))
		require.NoError(t, err)
		assert.True(t, c.Mocked())
		assert.Nil(t, c.Pool())
		assert.NoError(t, c.Close())
	}

	assert.Equal(t, 1, strings.Count(buf.String(), "database URL is not set"))
}

func TestNew_NilConfigIsMock(t *testing.T) {
	c, err := client.New(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, c.Mocked())
	assert.ErrorIs(t, c.Ping(context.Background()), client.ErrNotConfigured)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := client.New(context.Background(), &config.Config{DatabaseURL: "mysql://root@localhost/mood"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid connection string")
}

func TestClient_MockEnvelope(t *testing.T) {
	c := client.NewWithQuerier(nil)

	result := c.Execute(context.Background(), c.From("mood_entries").Select().Order("created_at", false))
	assert.True(t, client.IsNotConfigured(result.AsError()))

	out, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"error":{"message":"database not configured"}}`, string(out))
}

func TestClient_ExecuteAndPrepare(t *testing.T) {
	q := &recordingQuerier{}
	c := client.NewWithQuerier(q)
	assert.False(t, c.Mocked())
	assert.NoError(t, c.Ping(context.Background()))

	result := c.Execute(context.Background(), c.From("users").Select().Eq("id", "u1"))
	require.True(t, result.OK())
	assert.Equal(t, 1, q.count())

	pending := c.Prepare(c.From("users").Delete().Eq("id", "u1"))
	assert.Equal(t, 1, q.count())
	pending.Await(context.Background())
	pending.Await(context.Background())
	assert.Equal(t, 2, q.count())

	sql, err := c.Compile(c.From("users").Update(client.Record{"name": "Ada"}).Eq("id", "u1"))
	require.NoError(t, err)
	assert.Equal(t, "UPDATE users SET name = $1 WHERE id = $2 RETURNING *", sql.Query)
}

func TestClient_Schema(t *testing.T) {
	q := &recordingQuerier{}
	schema := client.NewSchema().Table("users", "id", "email")
	c := client.NewWithQuerier(q, client.WithSchema(schema))

	result := c.Execute(context.Background(), c.From("users").Select("password"))
	assert.ErrorIs(t, result.AsError(), client.ErrUnknownIdentifier)
	assert.Zero(t, q.count())
}

func TestClient_Middleware(t *testing.T) {
	var tables []string
	c := client.NewWithQuerier(&recordingQuerier{}, client.WithMiddleware(
		func(ctx context.Context, e *client.QueryEvent, next client.Next) error {
			tables = append(tables, e.Table)
			return next(ctx)
		}))
	c.Use(func(ctx context.Context, e *client.QueryEvent, next client.Next) error {
		tables = append(tables, "second:"+e.Table)
		return next(ctx)
	})

	c.Execute(context.Background(), c.From("appointments").Select())
	assert.Equal(t, []string{"appointments", "second:appointments"}, tables)
}

func TestClient_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := client.NewWithQuerier(&recordingQuerier{}, client.WithMetrics(registry))

	c.Execute(context.Background(), c.From("client_metrics_probe").Select())

	count, err := testutil.GatherAndCount(registry, "moodtrack_queries_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}
