package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSyntaxBareExpression(t *testing.T) {
	mm := personMetamodel()
	person := mm.ClassByID("class-person")

	res := ValidateSyntax("self.age >= 18 and self.age <= 75", mm, person)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestValidateSyntaxFullDeclaration(t *testing.T) {
	mm := personMetamodel()
	person := mm.ClassByID("class-person")

	res := ValidateSyntax("context Person inv ValidAge: self.age >= 18", mm, person)
	assert.True(t, res.Valid)
}

func TestValidateSyntaxMalformedBody(t *testing.T) {
	mm := personMetamodel()
	person := mm.ClassByID("class-person")

	res := ValidateSyntax("self.age >=", mm, person)
	require.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, "Syntax error")
	assert.Equal(t, "self.age >=", res.Issues[0].Expression)
}

func TestValidateSyntaxMalformedDeclaration(t *testing.T) {
	mm := personMetamodel()
	person := mm.ClassByID("class-person")

	// declaration prefix present but body empty: both parses fail, one issue
	res := ValidateSyntax("context Person inv Broken:", mm, person)
	require.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
}

func TestValidateSyntaxCollections(t *testing.T) {
	mm := personMetamodel()
	order := mm.ClassByID("class-order")

	tests := []struct {
		name  string
		expr  string
		valid bool
	}{
		{"notEmpty", "self.items->notEmpty()", true},
		{"forAll", "self.items->forAll(i | i.qty > 0)", true},
		{"chained", "self.items->select(i | i.qty > 0)->size() > 1", true},
		{"missing closing paren", "self.items->notEmpty(", false},
		{"bad iterator", "self.items->forAll(|)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateSyntax(tt.expr, mm, order)
			assert.Equal(t, tt.valid, res.Valid)
		})
	}
}

func TestValidateSyntaxNilContextClass(t *testing.T) {
	mm := personMetamodel()
	// no context class given: the implicit wrap cannot name a class, so the
	// declaration fails to parse and the body-only parse decides the message
	res := ValidateSyntax("self.age >= 18", mm, nil)
	assert.False(t, res.Valid)
}
