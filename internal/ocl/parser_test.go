package ocl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpressionValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"number", "42"},
		{"decimal", "3.14"},
		{"string", "'hello'"},
		{"boolean", "true"},
		{"null", "null"},
		{"self", "self"},
		{"property", "self.age"},
		{"nested property", "self.address.city"},
		{"comparison", "self.age >= 18"},
		{"conjunction", "self.age >= 18 and self.age <= 75"},
		{"implies", "self.active implies self.age > 0"},
		{"xor", "self.a xor self.b"},
		{"arithmetic", "self.width * self.height > 100"},
		{"unary minus", "-self.offset < 0"},
		{"not", "not self.deleted"},
		{"parens", "(self.a or self.b) and self.c"},
		{"if expression", "if self.age >= 18 then true else false endif"},
		{"arrow size", "self.items->size() > 0"},
		{"arrow notEmpty", "self.items->notEmpty()"},
		{"arrow includes", "self.tags->includes('vip')"},
		{"arrow at", "self.items->at(1)"},
		{"forAll with iterator", "self.items->forAll(i | i.qty > 0)"},
		{"forAll implicit iterator", "self.items->forAll(qty > 0)"},
		{"exists", "self.items->exists(i | i.price > 100)"},
		{"select chained", "self.items->select(i | i.qty > 0)->size() = 2"},
		{"collect sum", "self.items->collect(i | i.qty)->sum() <= 10"},
		{"string operation", "self.name.size() > 0"},
		{"concat", "self.first.concat(self.last) <> ''"},
		{"oclIsUndefined", "self.manager.oclIsUndefined()"},
		{"null equality", "self.manager <> null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseExpression(tt.in)
			require.NoError(t, err)
			assert.NotNil(t, expr)
		})
	}
}

func TestParseExpressionInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"dangling operator", "self.age >"},
		{"unterminated string", "'abc"},
		{"unbalanced paren", "(self.a and self.b"},
		{"missing endif", "if self.a then 1 else 2"},
		{"keyword as operand", "self.age > and"},
		{"trailing input", "self.age > 1 self"},
		{"arrow without name", "self.items->()"},
		{"unknown character", "self.age # 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExpression(tt.in)
			require.Error(t, err)
			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	// implies binds loosest: a or b implies c parses as (a or b) implies c
	expr, err := ParseExpression("self.a or self.b implies self.c")
	require.NoError(t, err)
	bin, ok := expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "implies", bin.Op)

	// and binds tighter than or
	expr, err = ParseExpression("self.a or self.b and self.c")
	require.NoError(t, err)
	bin, ok = expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "or", bin.Op)

	// comparison binds tighter than and
	expr, err = ParseExpression("self.x > 1 and self.y < 2")
	require.NoError(t, err)
	bin, ok = expr.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "and", bin.Op)

	// multiplication binds tighter than addition
	expr, err = ParseExpression("1 + 2 * 3 = 7")
	require.NoError(t, err)
	bin, ok = expr.(*Binary)
	require.True(t, ok)
	require.Equal(t, "=", bin.Op)
	sum, ok := bin.Left.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", sum.Op)
}

func TestParseIteratorVariable(t *testing.T) {
	expr, err := ParseExpression("self.items->forAll(it | it.qty > 0)")
	require.NoError(t, err)
	op, ok := expr.(*CollectionOp)
	require.True(t, ok)
	assert.Equal(t, "forAll", op.Name)
	assert.Equal(t, "it", op.IterVar)
	require.NotNil(t, op.Body)

	expr, err = ParseExpression("self.items->forAll(qty > 0)")
	require.NoError(t, err)
	op, ok = expr.(*CollectionOp)
	require.True(t, ok)
	assert.Empty(t, op.IterVar)
}
