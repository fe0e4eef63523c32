package resolver

import (
	"eager-graphql/internal/graph"
	"eager-graphql/internal/trail"

	"github.com/graphql-go/graphql"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func (r *Resolver) resolveUsers(p graphql.ResolveParams) (result interface{}, err error) {
	ctx, span := startResolverSpan(p.Context, "graphql.query.users",
		attribute.String("graphql.field.name", p.Info.FieldName),
	)
	defer func() {
		finishResolverSpan(span, err, outcomeFor(err))
		span.End()
	}()

	tr := walkedTrail(span, p.Info)
	users, err := r.loader(ctx).Users(ctx, tr)
	if err != nil {
		return nil, normalizeQueryError(ctx, err)
	}
	span.SetAttributes(attribute.Int("graphql.result.count", len(users)))
	return users, nil
}

func (r *Resolver) resolveCountries(p graphql.ResolveParams) (result interface{}, err error) {
	ctx, span := startResolverSpan(p.Context, "graphql.query.countries",
		attribute.String("graphql.field.name", p.Info.FieldName),
	)
	defer func() {
		finishResolverSpan(span, err, outcomeFor(err))
		span.End()
	}()

	tr := walkedTrail(span, p.Info)
	countries, err := r.loader(ctx).Countries(ctx, tr)
	if err != nil {
		return nil, normalizeQueryError(ctx, err)
	}
	span.SetAttributes(attribute.Int("graphql.result.count", len(countries)))
	return countries, nil
}

func (r *Resolver) resolveUserConnections(p graphql.ResolveParams) (result interface{}, err error) {
	ctx, span := startResolverSpan(p.Context, "graphql.query.userConnections",
		attribute.String("graphql.field.name", p.Info.FieldName),
	)
	defer func() {
		finishResolverSpan(span, err, outcomeFor(err))
		span.End()
	}()

	var after *string
	if raw, ok := p.Args["after"].(string); ok {
		after = &raw
	}
	first, _ := p.Args["first"].(int)
	span.SetAttributes(attribute.Int("graphql.args.first", first))

	tr := walkedTrail(span, p.Info)
	conn, err := r.loader(ctx).PaginateUsers(ctx, after, first, tr)
	if err != nil {
		return nil, normalizeQueryError(ctx, err)
	}
	span.SetAttributes(
		attribute.Int("graphql.result.count", len(conn.Edges)),
		attribute.Int("graphql.result.total_count", conn.TotalCount),
	)
	return conn, nil
}

func resolveUserCountry(p graphql.ResolveParams) (interface{}, error) {
	u, ok := p.Source.(*graph.User)
	if !ok || u == nil {
		return nil, nil
	}
	country, err := u.Country()
	if err != nil {
		return nil, normalizeQueryError(p.Context, err)
	}
	if country == nil {
		return nil, nil
	}
	return country, nil
}

func resolveCountryUsers(p graphql.ResolveParams) (interface{}, error) {
	c, ok := p.Source.(*graph.Country)
	if !ok || c == nil {
		return nil, nil
	}
	users, err := c.Users()
	if err != nil {
		return nil, normalizeQueryError(p.Context, err)
	}
	return users, nil
}

// walkedTrail builds the field's trail and records its top-level selection on span.
func walkedTrail(span trace.Span, info graphql.ResolveInfo) trail.Trail {
	tr := trail.FromResolveInfo(info)
	span.SetAttributes(attribute.StringSlice("graphql.selection", tr.Fields()))
	return tr
}
