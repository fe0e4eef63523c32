// Package resolver builds the executable GraphQL schema. Root resolvers read
// the query trail once, load rows and walked associations through the graph
// loader, and field resolvers only read the populated graph nodes.
package resolver

import (
	"context"

	"eager-graphql/internal/dbexec"
	"eager-graphql/internal/graph"
	"eager-graphql/internal/sqlutil"
	"eager-graphql/internal/store"

	"github.com/graphql-go/graphql"
)

// DefaultMaxPageSize caps userConnections(first:) when no limit is configured.
const DefaultMaxPageSize = 100

// Resolver resolves GraphQL fields against the database.
type Resolver struct {
	executor    dbexec.QueryExecutor
	dialect     sqlutil.Dialect
	maxPageSize int
}

// NewResolver creates a resolver. The executor is used only when the request
// context carries no borrowed connection.
func NewResolver(executor dbexec.QueryExecutor, dialect sqlutil.Dialect, maxPageSize int) *Resolver {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Resolver{
		executor:    executor,
		dialect:     dialect,
		maxPageSize: maxPageSize,
	}
}

// BuildGraphQLSchema constructs the executable schema.
func (r *Resolver) BuildGraphQLSchema() (graphql.Schema, error) {
	types := newSchemaTypes()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"users": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(types.user))),
				Description: "All users in primary key order.",
				Resolve:     r.resolveUsers,
			},
			"userConnections": &graphql.Field{
				Type:        graphql.NewNonNull(types.userConnection),
				Description: "One page of users. Pass a returned cursor as after to fetch the next page.",
				Args: graphql.FieldConfigArgument{
					"after": &graphql.ArgumentConfig{Type: types.cursor},
					"first": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.resolveUserConnections,
			},
			"countries": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(types.country))),
				Description: "All countries in primary key order.",
				Resolve:     r.resolveCountries,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"noop": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// loader returns a graph loader bound to the request's executor.
func (r *Resolver) loader(ctx context.Context) *graph.Loader {
	executor := r.executor
	if requestExecutor, ok := dbexec.ExecutorFromContext(ctx); ok {
		executor = requestExecutor
	}
	return graph.NewLoader(store.NewLoader(executor, r.dialect), r.maxPageSize)
}
