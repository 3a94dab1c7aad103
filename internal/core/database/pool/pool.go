// Package pool provides the process-wide database connection pool.
package pool

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/satishbabariya/moodtrack/internal/adapters/database"
	"github.com/satishbabariya/moodtrack/internal/debug"
)

// Config holds connection pool configuration.
type Config struct {
	// MaxOpenConns is the maximum number of open connections (0 = unlimited).
	MaxOpenConns int
	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration
	// HealthCheckInterval is how often to ping the database. Zero disables the loop.
	HealthCheckInterval time.Duration
	// ConnectTimeout bounds the initial ping in Open.
	ConnectTimeout time.Duration
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     30 * time.Minute,
		ConnMaxIdleTime:     10 * time.Minute,
		HealthCheckInterval: time.Minute,
		ConnectTimeout:      10 * time.Second,
	}
}

// Pool manages the lifetime of one *sql.DB. It is opened once at startup,
// shared by every resolution and closed on shutdown.
type Pool struct {
	db     *sql.DB
	config Config

	mu              sync.RWMutex
	failedChecks    int64
	lastHealthCheck time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates a pool without contacting the database.
func New(driverName, dataSourceName string, config Config) (*Pool, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return Wrap(db, config), nil
}

// Wrap takes ownership of an already opened *sql.DB.
func Wrap(db *sql.DB, config Config) *Pool {
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pool{
		db:     db,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if config.HealthCheckInterval > 0 {
		p.wg.Add(1)
		go p.healthCheckLoop()
	}

	return p
}

// Open creates a pool and verifies connectivity within ConnectTimeout.
func Open(ctx context.Context, driverName, dataSourceName string, config Config) (*Pool, error) {
	p, err := New(driverName, dataSourceName, config)
	if err != nil {
		return nil, err
	}

	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.ConnectTimeout)
		defer cancel()
	}

	if err := p.db.PingContext(ctx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	return p, nil
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dbStats := p.db.Stats()

	return Stats{
		MaxOpenConnections: p.config.MaxOpenConns,
		OpenConnections:    dbStats.OpenConnections,
		InUse:              dbStats.InUse,
		Idle:               dbStats.Idle,
		WaitCount:          dbStats.WaitCount,
		WaitDuration:       dbStats.WaitDuration,
		MaxIdleClosed:      dbStats.MaxIdleClosed,
		MaxLifetimeClosed:  dbStats.MaxLifetimeClosed,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
	}
}

// Stats represents pool statistics.
type Stats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxLifetimeClosed  int64
	FailedHealthChecks int64
	LastHealthCheck    time.Time
}

// HealthCheck pings the database and records the outcome.
func (p *Pool) HealthCheck(ctx context.Context) error {
	p.mu.Lock()
	p.lastHealthCheck = time.Now()
	p.mu.Unlock()

	if err := p.db.PingContext(ctx); err != nil {
		p.mu.Lock()
		p.failedChecks++
		p.mu.Unlock()
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

func (p *Pool) healthCheckLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
			if err := p.HealthCheck(ctx); err != nil {
				debug.Warn("pool health check", "error", err)
			}
			cancel()
		}
	}
}

// Close stops the health-check loop and closes the database. It is safe
// to call more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		p.closeErr = p.db.Close()
	})
	return p.closeErr
}

// Exec executes a statement without returning rows.
func (p *Pool) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return p.db.ExecContext(ctx, query, args...)
}

// QueryRows executes a statement that returns rows.
func (p *Pool) QueryRows(ctx context.Context, query string, args ...interface{}) (database.Rows, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

var (
	_ database.Querier = (*Pool)(nil)
	_ database.Execer  = (*Pool)(nil)
)
