package graph

import (
	"testing"

	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/sqlutil"
	"eager-graphql/internal/store"
	"eager-graphql/internal/testutil/sqlitedb"
	"eager-graphql/internal/trail"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/stretchr/testify/require"
)

// trailOf parses a query and returns the trail of its first root field.
func trailOf(t *testing.T, query string) trail.Trail {
	t.Helper()

	doc, err := parser.Parse(parser.ParseParams{Source: query})
	require.NoError(t, err)

	fragments := make(map[string]ast.Definition)
	var root *ast.Field
	for _, def := range doc.Definitions {
		switch d := def.(type) {
		case *ast.OperationDefinition:
			if root == nil {
				root = d.SelectionSet.Selections[0].(*ast.Field)
			}
		case *ast.FragmentDefinition:
			fragments[d.Name.Value] = d
		}
	}
	require.NotNil(t, root)
	return trail.FromField(root, fragments, nil)
}

// newSQLiteLoader returns a loader over a fresh database and the counter of its queries.
func newSQLiteLoader(t *testing.T, maxPageSize int) (*Loader, *sqlitedb.TestDB, *dbexec.CountingExecutor) {
	t.Helper()

	testDB := sqlitedb.NewTestDB(t)
	counter := dbexec.NewCountingExecutor(dbexec.NewStandardExecutor(testDB.DB))
	return NewLoader(store.NewLoader(counter, sqlutil.DialectSQLite), maxPageSize), testDB, counter
}
