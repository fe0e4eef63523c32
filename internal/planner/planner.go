// Package planner builds the parameterized SQL statements issued by the row loader.
// Every list plan orders by the table's primary key so paging is deterministic.
package planner

import (
	"errors"
	"fmt"

	"eager-graphql/internal/sqlutil"

	sq "github.com/Masterminds/squirrel"
)

// ErrNoPrimaryKey indicates a table description without a primary key column.
var ErrNoPrimaryKey = errors.New("no primary key")

// Table describes the columns a plan selects from.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []string
}

// SQLQuery represents a planned SQL statement with bound args.
type SQLQuery struct {
	SQL  string
	Args []interface{}
}

// Empty reports whether the plan has nothing to execute.
func (q SQLQuery) Empty() bool {
	return q.SQL == ""
}

// Planner renders plans for one SQL dialect.
type Planner struct {
	dialect sqlutil.Dialect
}

// New returns a planner for the given dialect.
func New(dialect sqlutil.Dialect) Planner {
	if dialect == "" {
		dialect = sqlutil.DialectMySQL
	}
	return Planner{dialect: dialect}
}

// Dialect returns the dialect plans are rendered in.
func (p Planner) Dialect() sqlutil.Dialect {
	return p.dialect
}

// PlanList selects every row of the table.
func (p Planner) PlanList(table Table) (SQLQuery, error) {
	builder, err := p.selectAll(table)
	if err != nil {
		return SQLQuery{}, err
	}
	return p.render(builder)
}

// PlanPage selects one window of rows.
func (p Planner) PlanPage(table Table, limit, offset uint64) (SQLQuery, error) {
	builder, err := p.selectAll(table)
	if err != nil {
		return SQLQuery{}, err
	}
	return p.render(builder.Limit(limit).Offset(offset))
}

// PlanCount counts every row of the table.
func (p Planner) PlanCount(table Table) (SQLQuery, error) {
	if table.Name == "" {
		return SQLQuery{}, fmt.Errorf("count plan requires a table name")
	}
	return p.render(sq.Select("COUNT(*)").From(p.dialect.QuoteIdentifier(table.Name)))
}

// PlanProbe selects the primary key of the single row at offset, if any.
func (p Planner) PlanProbe(table Table, offset uint64) (SQLQuery, error) {
	if table.PrimaryKey == "" {
		return SQLQuery{}, fmt.Errorf("%s: %w", table.Name, ErrNoPrimaryKey)
	}
	pk := p.dialect.QuoteIdentifier(table.PrimaryKey)
	builder := sq.Select(pk).
		From(p.dialect.QuoteIdentifier(table.Name)).
		OrderBy(pk).
		Limit(1).
		Offset(offset)
	return p.render(builder)
}

// PlanByKeys selects the rows whose column matches any of keys in one IN query.
// An empty key list yields an empty plan.
func (p Planner) PlanByKeys(table Table, column string, keys []interface{}) (SQLQuery, error) {
	if len(keys) == 0 {
		return SQLQuery{}, nil
	}
	if column == "" {
		return SQLQuery{}, fmt.Errorf("key plan requires a column")
	}
	builder, err := p.selectAll(table)
	if err != nil {
		return SQLQuery{}, err
	}
	return p.render(builder.Where(sq.Eq{p.dialect.QuoteIdentifier(column): keys}))
}

func (p Planner) selectAll(table Table) (sq.SelectBuilder, error) {
	if table.Name == "" || len(table.Columns) == 0 {
		return sq.SelectBuilder{}, fmt.Errorf("table %q has no columns", table.Name)
	}
	if table.PrimaryKey == "" {
		return sq.SelectBuilder{}, fmt.Errorf("%s: %w", table.Name, ErrNoPrimaryKey)
	}
	return sq.Select(p.quotedColumns(table.Columns)...).
		From(p.dialect.QuoteIdentifier(table.Name)).
		OrderBy(p.dialect.QuoteIdentifier(table.PrimaryKey)), nil
}

func (p Planner) render(builder sq.SelectBuilder) (SQLQuery, error) {
	query, args, err := builder.PlaceholderFormat(p.dialect.Placeholder()).ToSql()
	if err != nil {
		return SQLQuery{}, err
	}
	return SQLQuery{SQL: query, Args: args}, nil
}

func (p Planner) quotedColumns(columns []string) []string {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = p.dialect.QuoteIdentifier(col)
	}
	return quoted
}
