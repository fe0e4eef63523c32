// Package scalars defines the custom GraphQL scalars of the schema.
package scalars

import (
	"log/slog"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// Cursor is an opaque pagination cursor, serialized as a string.
func Cursor() *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        "Cursor",
		Description: "An opaque pagination cursor.",
		Serialize: func(value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				return v
			case *string:
				if v == nil {
					return nil
				}
				return *v
			case nil:
				return nil
			default:
				slog.Default().Warn("unexpected cursor value", slog.Any("value", value))
				return nil
			}
		},
		ParseValue: func(value interface{}) interface{} {
			if s, ok := value.(string); ok {
				return s
			}
			return nil
		},
		ParseLiteral: func(valueAST ast.Value) interface{} {
			if sv, ok := valueAST.(*ast.StringValue); ok {
				return sv.Value
			}
			return nil
		},
	})
}
