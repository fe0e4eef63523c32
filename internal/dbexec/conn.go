package dbexec

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// ConnExecutor runs every statement on one connection taken from the pool.
// It is owned by a single request and must be released exactly once.
type ConnExecutor struct {
	conn *sql.Conn

	mu       sync.Mutex
	released bool
}

// Acquire borrows a dedicated connection from the pool.
func Acquire(ctx context.Context, db *sql.DB) (*ConnExecutor, error) {
	if db == nil {
		return nil, sql.ErrConnDone
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &ConnExecutor{conn: conn}, nil
}

func (e *ConnExecutor) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	if e.isReleased() {
		return nil, sql.ErrConnDone
	}
	return e.conn.QueryContext(ctx, query, args...)
}

func (e *ConnExecutor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if e.isReleased() {
		return nil, sql.ErrConnDone
	}
	return e.conn.ExecContext(ctx, query, args...)
}

// Release returns the connection to the pool. Subsequent calls are no-ops.
func (e *ConnExecutor) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.released {
		return nil
	}
	e.released = true
	return e.conn.Close()
}

func (e *ConnExecutor) isReleased() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

type executorKey struct{}

// WithExecutor stores the request's executor in the context.
func WithExecutor(ctx context.Context, executor QueryExecutor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, executorKey{}, executor)
}

// ExecutorFromContext returns the executor bound to the request, if any.
func ExecutorFromContext(ctx context.Context) (QueryExecutor, bool) {
	if ctx == nil {
		return nil, false
	}
	executor, ok := ctx.Value(executorKey{}).(QueryExecutor)
	return executor, ok && executor != nil
}
