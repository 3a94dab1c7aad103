package executor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/satishbabariya/moodtrack/internal/core/query/domain"
)

// Pending is a query that resolves at most once. Every Await after the
// first returns the memoized result, including to concurrent callers.
type Pending struct {
	executor *Executor
	query    domain.Query

	once     sync.Once
	resolved atomic.Bool
	result   domain.Result
}

// Await resolves the query on first use with ctx and returns the result.
// Later calls ignore their context.
func (p *Pending) Await(ctx context.Context) domain.Result {
	p.once.Do(func() {
		p.result = p.executor.Execute(ctx, p.query)
		p.resolved.Store(true)
	})
	return p.result
}

// Resolved reports whether Await has completed.
func (p *Pending) Resolved() bool {
	return p.resolved.Load()
}

// Query returns the description the handle resolves.
func (p *Pending) Query() domain.Query {
	return p.query
}
