package dbexec

import (
	"context"
	"database/sql"
	"sync/atomic"
)

// CountingExecutor wraps an executor and counts the statements it issues.
type CountingExecutor struct {
	next    QueryExecutor
	queries atomic.Int64
	execs   atomic.Int64
}

// NewCountingExecutor wraps next with statement counters.
func NewCountingExecutor(next QueryExecutor) *CountingExecutor {
	return &CountingExecutor{next: next}
}

func (e *CountingExecutor) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	e.queries.Add(1)
	return e.next.QueryContext(ctx, query, args...)
}

func (e *CountingExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.execs.Add(1)
	return e.next.ExecContext(ctx, query, args...)
}

// Queries returns the number of QueryContext calls so far.
func (e *CountingExecutor) Queries() int64 {
	return e.queries.Load()
}

// Execs returns the number of ExecContext calls so far.
func (e *CountingExecutor) Execs() int64 {
	return e.execs.Load()
}
