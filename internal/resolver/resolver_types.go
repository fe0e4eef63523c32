package resolver

import (
	"eager-graphql/internal/graph"
	"eager-graphql/internal/scalars"

	"github.com/graphql-go/graphql"
)

type schemaTypes struct {
	cursor         *graphql.Scalar
	user           *graphql.Object
	country        *graphql.Object
	userEdge       *graphql.Object
	pageInfo       *graphql.Object
	userConnection *graphql.Object
}

func newSchemaTypes() *schemaTypes {
	t := &schemaTypes{cursor: scalars.Cursor()}

	t.user = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: userField(func(u *graph.User) (interface{}, error) {
						return u.ID(), nil
					}),
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: userField(func(u *graph.User) (interface{}, error) {
						return u.Name(), nil
					}),
				},
				"country": &graphql.Field{
					Type:    t.country,
					Resolve: resolveUserCountry,
				},
			}
		}),
	})

	t.country = graphql.NewObject(graphql.ObjectConfig{
		Name: "Country",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: countryField(func(c *graph.Country) (interface{}, error) {
						return c.ID(), nil
					}),
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: countryField(func(c *graph.Country) (interface{}, error) {
						return c.Name(), nil
					}),
				},
				"users": &graphql.Field{
					Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.user))),
					Resolve: resolveCountryUsers,
				},
			}
		}),
	})

	t.userEdge = graphql.NewObject(graphql.ObjectConfig{
		Name: "UserEdge",
		Fields: graphql.Fields{
			"node": &graphql.Field{
				Type: graphql.NewNonNull(t.user),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					edge, ok := edgeSource(p.Source)
					if !ok || edge.Node == nil {
						return nil, nil
					}
					return edge.Node, nil
				},
			},
			"cursor": &graphql.Field{
				Type: graphql.NewNonNull(t.cursor),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					edge, ok := edgeSource(p.Source)
					if !ok {
						return nil, nil
					}
					return edge.Cursor, nil
				},
			},
		},
	})

	t.pageInfo = graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"startCursor": &graphql.Field{
				Type: t.cursor,
				Resolve: pageInfoField(func(info graph.PageInfo) interface{} {
					return optionalCursor(info.StartCursor)
				}),
			},
			"endCursor": &graphql.Field{
				Type: t.cursor,
				Resolve: pageInfoField(func(info graph.PageInfo) interface{} {
					return optionalCursor(info.EndCursor)
				}),
			},
			"hasNextPage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: pageInfoField(func(info graph.PageInfo) interface{} {
					return info.HasNextPage
				}),
			},
		},
	})

	t.userConnection = graphql.NewObject(graphql.ObjectConfig{
		Name: "UserConnection",
		Fields: graphql.Fields{
			"edges": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.userEdge))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(*graph.UserConnection)
					if !ok || conn == nil {
						return []graph.UserEdge{}, nil
					}
					return conn.Edges, nil
				},
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(t.pageInfo),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(*graph.UserConnection)
					if !ok || conn == nil {
						return nil, nil
					}
					return conn.PageInfo, nil
				},
			},
			"totalCount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					conn, ok := p.Source.(*graph.UserConnection)
					if !ok || conn == nil {
						return nil, nil
					}
					return conn.TotalCount, nil
				},
			},
		},
	})

	return t
}

func userField(fn func(*graph.User) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		u, ok := p.Source.(*graph.User)
		if !ok || u == nil {
			return nil, nil
		}
		return fn(u)
	}
}

func countryField(fn func(*graph.Country) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		c, ok := p.Source.(*graph.Country)
		if !ok || c == nil {
			return nil, nil
		}
		return fn(c)
	}
}

func pageInfoField(fn func(graph.PageInfo) interface{}) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		switch info := p.Source.(type) {
		case graph.PageInfo:
			return fn(info), nil
		case *graph.PageInfo:
			if info == nil {
				return nil, nil
			}
			return fn(*info), nil
		}
		return nil, nil
	}
}

func edgeSource(source interface{}) (graph.UserEdge, bool) {
	switch edge := source.(type) {
	case graph.UserEdge:
		return edge, true
	case *graph.UserEdge:
		if edge == nil {
			return graph.UserEdge{}, false
		}
		return *edge, true
	}
	return graph.UserEdge{}, false
}

func optionalCursor(c *string) interface{} {
	if c == nil {
		return nil
	}
	return *c
}
