// Package store loads row models with flat SQL through a single query executor.
package store

import (
	"context"
	"fmt"
	"math"

	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/planner"
	"eager-graphql/internal/sqlutil"
)

// Model describes how a row model maps onto its table.
type Model interface {
	TableName() string
	PrimaryKey() string
	Columns() []string
}

// Row is satisfied by a pointer to a row model that can scan itself.
type Row[M any] interface {
	*M
	Model
	ScanDest() []any
}

// Loader issues row queries on one executor, usually the request's borrowed connection.
type Loader struct {
	executor dbexec.QueryExecutor
	planner  planner.Planner
}

// NewLoader creates a loader for the given executor and dialect.
func NewLoader(executor dbexec.QueryExecutor, dialect sqlutil.Dialect) *Loader {
	return &Loader{executor: executor, planner: planner.New(dialect)}
}

// LoadAll returns every row of the model's table in primary key order.
func LoadAll[M any, P Row[M]](ctx context.Context, l *Loader) ([]M, error) {
	query, err := l.planner.PlanList(tableOf[M, P]())
	if err != nil {
		return nil, err
	}
	return queryRows[M, P](ctx, l, query)
}

// LoadPage returns the rows of a 1-based page together with the table's total row count.
func LoadPage[M any, P Row[M]](ctx context.Context, l *Loader, page, pageSize int) ([]M, int, error) {
	if page < 1 {
		return nil, 0, fmt.Errorf("page must be at least 1, got %d", page)
	}
	if pageSize < 0 {
		return nil, 0, fmt.Errorf("page size must be non-negative, got %d", pageSize)
	}
	if pageSize > 0 && page-1 > math.MaxInt/pageSize {
		return nil, 0, fmt.Errorf("page %d with size %d overflows the row offset", page, pageSize)
	}
	table := tableOf[M, P]()

	query, err := l.planner.PlanPage(table, uint64(pageSize), uint64(page-1)*uint64(pageSize))
	if err != nil {
		return nil, 0, err
	}
	rows, err := queryRows[M, P](ctx, l, query)
	if err != nil {
		return nil, 0, err
	}

	total, err := Count[M, P](ctx, l)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Count returns the number of rows in the model's table.
func Count[M any, P Row[M]](ctx context.Context, l *Loader) (int, error) {
	query, err := l.planner.PlanCount(tableOf[M, P]())
	if err != nil {
		return 0, err
	}
	rows, err := l.executor.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total int
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return total, nil
}

// ExistsAt reports whether a row exists at the given zero-based offset in primary key order.
func ExistsAt[M any, P Row[M]](ctx context.Context, l *Loader, offset int) (bool, error) {
	if offset < 0 {
		return false, fmt.Errorf("offset must be non-negative, got %d", offset)
	}
	query, err := l.planner.PlanProbe(tableOf[M, P](), uint64(offset))
	if err != nil {
		return false, err
	}
	rows, err := l.executor.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, err
	}
	return found, nil
}

// LoadByKeys returns every row whose column matches one of keys, using a single IN query.
// No keys means no query.
func LoadByKeys[M any, P Row[M], K comparable](ctx context.Context, l *Loader, column string, keys []K) ([]M, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	query, err := l.planner.PlanByKeys(tableOf[M, P](), column, args)
	if err != nil {
		return nil, err
	}
	return queryRows[M, P](ctx, l, query)
}

func tableOf[M any, P Row[M]]() planner.Table {
	var model M
	p := P(&model)
	return planner.Table{
		Name:       p.TableName(),
		PrimaryKey: p.PrimaryKey(),
		Columns:    p.Columns(),
	}
}

func queryRows[M any, P Row[M]](ctx context.Context, l *Loader, query planner.SQLQuery) ([]M, error) {
	if query.Empty() {
		return nil, nil
	}
	rows, err := l.executor.QueryContext(ctx, query.SQL, query.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []M
	for rows.Next() {
		var model M
		if err := rows.Scan(P(&model).ScanDest()...); err != nil {
			return nil, err
		}
		results = append(results, model)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
