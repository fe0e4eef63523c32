package resolver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"eager-graphql/internal/cursor"
	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/sqlutil"
	"eager-graphql/internal/testutil/sqlitedb"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type fixture struct {
	schema  graphql.Schema
	db      *sqlitedb.TestDB
	counter *dbexec.CountingExecutor
}

func newFixture(t *testing.T, maxPageSize int) *fixture {
	t.Helper()

	testDB := sqlitedb.NewTestDB(t)
	counter := dbexec.NewCountingExecutor(dbexec.NewStandardExecutor(testDB.DB))
	schema, err := NewResolver(counter, sqlutil.DialectSQLite, maxPageSize).BuildGraphQLSchema()
	require.NoError(t, err)
	return &fixture{schema: schema, db: testDB, counter: counter}
}

func (f *fixture) run(t *testing.T, query string, vars map[string]interface{}) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:         f.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        context.Background(),
	})
}

// decode round-trips the result data through JSON to compare it as plain values.
func decode(t *testing.T, result *graphql.Result) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors)

	raw, err := json.Marshal(result.Data)
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &data))
	return data
}

func TestUsersQuery_ConcreteScenario(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertCountry(1, "NL")
	f.db.InsertUser(1, "Alice", 1)
	f.db.InsertUser(2, "Bob", 1)

	data := decode(t, f.run(t, `{ users { id name country { id name } } }`, nil))
	assert.Equal(t, []interface{}{
		map[string]interface{}{"id": "1", "name": "Alice", "country": map[string]interface{}{"id": "1", "name": "NL"}},
		map[string]interface{}{"id": "2", "name": "Bob", "country": map[string]interface{}{"id": "1", "name": "NL"}},
	}, data["users"])
	assert.Equal(t, int64(2), f.counter.Queries())
}

func TestUsersQuery_NullCountry(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertUser(1, "Nomad", 0)

	data := decode(t, f.run(t, `{ users { name country { name } } }`, nil))
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "Nomad", "country": nil},
	}, data["users"])
	// no keys to look up, no countries query
	assert.Equal(t, int64(1), f.counter.Queries())
}

func TestUsersQuery_EmptyTable(t *testing.T) {
	f := newFixture(t, 0)

	data := decode(t, f.run(t, `{ users { id country { id } } }`, nil))
	assert.Equal(t, []interface{}{}, data["users"])
	assert.Equal(t, int64(1), f.counter.Queries())
}

func TestUsersQuery_FragmentsAndDirectives(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertCountry(1, "NL")
	f.db.InsertUser(1, "Alice", 1)

	query := `query ($withCountry: Boolean!) {
		users { ...UserFields }
	}
	fragment UserFields on User {
		id
		country @include(if: $withCountry) { name }
	}`

	decode(t, f.run(t, query, map[string]interface{}{"withCountry": false}))
	assert.Equal(t, int64(1), f.counter.Queries())

	data := decode(t, f.run(t, query, map[string]interface{}{"withCountry": true}))
	assert.Equal(t, int64(3), f.counter.Queries())
	users := data["users"].([]interface{})
	assert.Equal(t, map[string]interface{}{"name": "NL"}, users[0].(map[string]interface{})["country"])
}

func TestCountriesQuery_NestedUsers(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertCountry(1, "NL")
	f.db.InsertCountry(2, "NO")
	f.db.InsertUser(1, "Alice", 1)
	f.db.InsertUser(2, "Bob", 2)
	f.db.InsertUser(3, "Carol", 1)

	data := decode(t, f.run(t, `{ countries { name users { name country { name } } } }`, nil))
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "NL", "users": []interface{}{
			map[string]interface{}{"name": "Alice", "country": map[string]interface{}{"name": "NL"}},
			map[string]interface{}{"name": "Carol", "country": map[string]interface{}{"name": "NL"}},
		}},
		map[string]interface{}{"name": "NO", "users": []interface{}{
			map[string]interface{}{"name": "Bob", "country": map[string]interface{}{"name": "NO"}},
		}},
	}, data["countries"])
	assert.Equal(t, int64(3), f.counter.Queries())
}

func TestUserConnections_Pages(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertUsers(5, 0)

	query := `query ($after: Cursor) {
		userConnections(first: 2, after: $after) {
			edges { cursor node { id } }
			pageInfo { startCursor endCursor hasNextPage }
			totalCount
		}
	}`

	tests := []struct {
		after   interface{}
		ids     []string
		hasNext bool
		next    string
	}{
		{after: nil, ids: []string{"1", "2"}, hasNext: true, next: "2"},
		{after: "2", ids: []string{"3", "4"}, hasNext: true, next: "3"},
		{after: "3", ids: []string{"5"}, hasNext: false, next: "4"},
	}

	for _, tt := range tests {
		data := decode(t, f.run(t, query, map[string]interface{}{"after": tt.after}))
		conn := data["userConnections"].(map[string]interface{})
		assert.Equal(t, float64(5), conn["totalCount"])

		edges := conn["edges"].([]interface{})
		require.Len(t, edges, len(tt.ids))
		for i, raw := range edges {
			edge := raw.(map[string]interface{})
			assert.Equal(t, tt.next, edge["cursor"])
			assert.Equal(t, tt.ids[i], edge["node"].(map[string]interface{})["id"])
		}

		pageInfo := conn["pageInfo"].(map[string]interface{})
		assert.Equal(t, tt.hasNext, pageInfo["hasNextPage"])
		assert.Equal(t, tt.next, pageInfo["startCursor"])
		assert.Equal(t, tt.next, pageInfo["endCursor"])
	}
}

func TestUserConnections_NoNodeSelection(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertUsers(3, 0)

	data := decode(t, f.run(t, `{ userConnections(first: 2) { edges { cursor } pageInfo { startCursor hasNextPage } totalCount } }`, nil))
	conn := data["userConnections"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, conn["edges"])
	assert.Nil(t, conn["pageInfo"].(map[string]interface{})["startCursor"])
	assert.Equal(t, true, conn["pageInfo"].(map[string]interface{})["hasNextPage"])
	assert.Equal(t, float64(3), conn["totalCount"])
}

func TestUserConnections_InvalidCursor(t *testing.T) {
	f := newFixture(t, 0)

	result := f.run(t, `{ userConnections(first: 2, after: "page-two") { totalCount } }`, nil)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, cursor.ErrInvalidCursor.Error())
	assert.Equal(t, "INVALID_CURSOR", result.Errors[0].Extensions["code"])
	assert.Equal(t, int64(0), f.counter.Queries())
}

func TestUserConnections_NegativeFirst(t *testing.T) {
	f := newFixture(t, 0)

	result := f.run(t, `{ userConnections(first: -1) { totalCount } }`, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "BAD_USER_INPUT", result.Errors[0].Extensions["code"])
}

func TestUserConnections_PageSizeCap(t *testing.T) {
	f := newFixture(t, 3)
	f.db.InsertUsers(10, 0)

	data := decode(t, f.run(t, `{ userConnections(first: 50) { edges { node { id } } pageInfo { hasNextPage } } }`, nil))
	conn := data["userConnections"].(map[string]interface{})
	assert.Len(t, conn["edges"], 3)
}

func TestNoopMutation(t *testing.T) {
	f := newFixture(t, 0)

	data := decode(t, f.run(t, `mutation { noop }`, nil))
	assert.Equal(t, true, data["noop"])
	assert.Equal(t, int64(0), f.counter.Queries())
}

func TestResolver_UsesRequestExecutor(t *testing.T) {
	f := newFixture(t, 0)
	f.db.InsertUsers(2, 0)

	requestCounter := dbexec.NewCountingExecutor(dbexec.NewStandardExecutor(f.db.DB))
	result := graphql.Do(graphql.Params{
		Schema:        f.schema,
		RequestString: `{ users { id } }`,
		Context:       dbexec.WithExecutor(context.Background(), requestCounter),
	})
	require.Empty(t, result.Errors)
	assert.Equal(t, int64(1), requestCounter.Queries())
	assert.Equal(t, int64(0), f.counter.Queries())
}

func TestResolver_AccessDeniedIsNormalized(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM `users`")).
		WillReturnError(&mysql.MySQLError{Number: 1142, Message: "SELECT command denied to user 'app'@'%' for table 'users'"})

	schema, err := NewResolver(dbexec.NewStandardExecutor(db), sqlutil.DialectMySQL, 0).BuildGraphQLSchema()
	require.NoError(t, err)

	result := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ users { id } }`, Context: context.Background()})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, errAccessDenied.Error(), result.Errors[0].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeQueryError(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, normalizeQueryError(ctx, nil))

	plain := errors.New("boom")
	assert.Same(t, plain, normalizeQueryError(ctx, plain))

	wrapped := normalizeQueryError(ctx, &mysql.MySQLError{Number: 1044})
	assert.ErrorIs(t, wrapped, errAccessDenied)

	other := &mysql.MySQLError{Number: 1064}
	assert.Equal(t, error(other), normalizeQueryError(ctx, other))

	assert.ErrorIs(t, normalizeQueryError(ctx, sql.ErrConnDone), sql.ErrConnDone)
}

func TestResolveUsers_EmitsTracingSpan(t *testing.T) {
	recorder, cleanup := installResolverSpanRecorder(t)
	defer cleanup()

	f := newFixture(t, 0)
	f.db.InsertUsers(2, 0)
	decode(t, f.run(t, `{ users { name id } }`, nil))

	span := findEndedSpanByName(recorder.Ended(), "graphql.query.users")
	require.NotNil(t, span)
	assert.Equal(t, "success", readSpanString(span.Attributes(), "graphql.resolver.outcome"))
	assert.Equal(t, []string{"id", "name"}, readSpanStringSlice(span.Attributes(), "graphql.selection"))
}

func TestResolveUserConnections_InvalidInputOutcome(t *testing.T) {
	recorder, cleanup := installResolverSpanRecorder(t)
	defer cleanup()

	f := newFixture(t, 0)
	f.run(t, `{ userConnections(first: 1, after: "x") { totalCount } }`, nil)

	span := findEndedSpanByName(recorder.Ended(), "graphql.query.userConnections")
	require.NotNil(t, span)
	assert.Equal(t, "invalid_input", readSpanString(span.Attributes(), "graphql.resolver.outcome"))
}

func installResolverSpanRecorder(t *testing.T) (*tracetest.SpanRecorder, func()) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	tp.RegisterSpanProcessor(recorder)

	oldProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	return recorder, func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(oldProvider)
	}
}

func findEndedSpanByName(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, span := range spans {
		if span.Name() == name {
			return span
		}
	}
	return nil
}

func readSpanString(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}

func readSpanStringSlice(attrs []attribute.KeyValue, key string) []string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsStringSlice()
		}
	}
	return nil
}
