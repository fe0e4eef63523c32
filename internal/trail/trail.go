// Package trail records which fields a GraphQL query walks below a resolver.
//
// A trail is built once per root field from the parsed selection set, with
// fragments expanded and @skip/@include honored. The eager loader consults it
// to decide which associations to fetch.
package trail

import (
	"sort"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// Trail is either not walked or walked with a sub-trail per selected field.
// The zero value is not walked.
type Trail struct {
	walked   bool
	children map[string]Trail
}

// NotWalked returns the trail of a field the query never selected.
func NotWalked() Trail {
	return Trail{}
}

// Leaf returns a walked trail with no selections below it.
func Leaf() Trail {
	return Trail{walked: true}
}

// Walked reports whether the query selected this field.
func (t Trail) Walked() bool {
	return t.walked
}

// Field returns the sub-trail of a child field. Fields not selected, or
// children of a trail that was not walked, are not walked.
func (t Trail) Field(name string) Trail {
	if !t.walked || t.children == nil {
		return NotWalked()
	}
	return t.children[name]
}

// Path follows nested field names, e.g. Path("edges", "node").
func (t Trail) Path(names ...string) Trail {
	current := t
	for _, name := range names {
		current = current.Field(name)
	}
	return current
}

// Fields lists the selected child field names in sorted order.
func (t Trail) Fields() []string {
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromResolveInfo builds the trail of the field being resolved. All ASTs for
// the field are merged, since one response key may be requested more than once.
func FromResolveInfo(info graphql.ResolveInfo) Trail {
	b := builder{fragments: info.Fragments, variables: info.VariableValues}
	root := Leaf()
	for _, field := range info.FieldASTs {
		root = merge(root, b.field(field))
	}
	return root
}

// FromField builds the trail for a single field AST.
func FromField(field *ast.Field, fragments map[string]ast.Definition, variables map[string]interface{}) Trail {
	b := builder{fragments: fragments, variables: variables}
	return b.field(field)
}

type builder struct {
	fragments map[string]ast.Definition
	variables map[string]interface{}
}

func (b builder) field(field *ast.Field) Trail {
	node := Leaf()
	if field == nil || field.SelectionSet == nil {
		return node
	}
	b.visit(node.ensureChildren(), field.SelectionSet.Selections)
	return node
}

func (b builder) visit(children map[string]Trail, selections []ast.Selection) {
	for _, selection := range selections {
		switch sel := selection.(type) {
		case *ast.Field:
			if sel.Name == nil || sel.Name.Value == "__typename" {
				continue
			}
			if !b.included(sel.Directives) {
				continue
			}
			name := sel.Name.Value
			children[name] = merge(children[name], b.field(sel))
		case *ast.InlineFragment:
			if sel.SelectionSet == nil || !b.included(sel.Directives) {
				continue
			}
			b.visit(children, sel.SelectionSet.Selections)
		case *ast.FragmentSpread:
			if b.fragments == nil || sel.Name == nil || !b.included(sel.Directives) {
				continue
			}
			def, ok := b.fragments[sel.Name.Value]
			if !ok {
				continue
			}
			fragment, ok := def.(*ast.FragmentDefinition)
			if !ok || fragment.SelectionSet == nil {
				continue
			}
			b.visit(children, fragment.SelectionSet.Selections)
		}
	}
}

// included evaluates @skip and @include.
func (b builder) included(directives []*ast.Directive) bool {
	for _, directive := range directives {
		if directive == nil || directive.Name == nil {
			continue
		}
		switch directive.Name.Value {
		case "skip":
			if b.directiveIf(directive) {
				return false
			}
		case "include":
			if !b.directiveIf(directive) {
				return false
			}
		}
	}
	return true
}

func (b builder) directiveIf(directive *ast.Directive) bool {
	for _, arg := range directive.Arguments {
		if arg == nil || arg.Name == nil || arg.Name.Value != "if" {
			continue
		}
		switch value := arg.Value.(type) {
		case *ast.BooleanValue:
			return value.Value
		case *ast.Variable:
			if value.Name == nil {
				return false
			}
			v, _ := b.variables[value.Name.Value].(bool)
			return v
		}
	}
	return false
}

func (t *Trail) ensureChildren() map[string]Trail {
	if t.children == nil {
		t.children = make(map[string]Trail)
	}
	return t.children
}

// merge unions two trails of the same field.
func merge(a, b Trail) Trail {
	if !a.walked {
		return b
	}
	if !b.walked {
		return a
	}
	out := Leaf()
	if len(a.children) == 0 && len(b.children) == 0 {
		return out
	}
	children := out.ensureChildren()
	for name, child := range a.children {
		children[name] = child
	}
	for name, child := range b.children {
		children[name] = merge(children[name], child)
	}
	return out
}
