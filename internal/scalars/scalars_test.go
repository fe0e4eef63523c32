package scalars

import (
	"testing"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/stretchr/testify/assert"
)

func TestCursorScalar(t *testing.T) {
	scalar := Cursor()

	assert.Equal(t, "Cursor", scalar.Name())
	assert.Equal(t, "3", scalar.Serialize("3"))

	page := "4"
	assert.Equal(t, "4", scalar.Serialize(&page))
	assert.Nil(t, scalar.Serialize((*string)(nil)))
	assert.Nil(t, scalar.Serialize(12))

	assert.Equal(t, "2", scalar.ParseValue("2"))
	assert.Nil(t, scalar.ParseValue(2))

	assert.Equal(t, "5", scalar.ParseLiteral(&ast.StringValue{Value: "5"}))
	assert.Nil(t, scalar.ParseLiteral(&ast.IntValue{Value: "5"}))
}
