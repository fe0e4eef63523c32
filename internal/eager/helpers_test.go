package eager

import (
	"eager-graphql/internal/trail"

	"github.com/graphql-go/graphql/language/ast"
)

// buildTrail returns a walked trail selecting the given leaf fields.
func buildTrail(fields ...string) trail.Trail {
	selections := make([]ast.Selection, 0, len(fields))
	for _, name := range fields {
		selections = append(selections, &ast.Field{Name: &ast.Name{Value: name}})
	}
	root := &ast.Field{
		Name:         &ast.Name{Value: "root"},
		SelectionSet: &ast.SelectionSet{Selections: selections},
	}
	return trail.FromField(root, nil, nil)
}

// buildNestedTrail returns a walked trail selecting a single chain of fields.
func buildNestedTrail(path ...string) trail.Trail {
	var inner *ast.Field
	for i := len(path) - 1; i >= 0; i-- {
		field := &ast.Field{Name: &ast.Name{Value: path[i]}}
		if inner != nil {
			field.SelectionSet = &ast.SelectionSet{Selections: []ast.Selection{inner}}
		}
		inner = field
	}
	root := &ast.Field{
		Name:         &ast.Name{Value: "root"},
		SelectionSet: &ast.SelectionSet{Selections: []ast.Selection{inner}},
	}
	return trail.FromField(root, nil, nil)
}
