package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func personModel() *metamodel.Model {
	return &metamodel.Model{
		ID:          "model-1",
		MetamodelID: "mm-1",
		Elements: []*metamodel.ModelElement{
			{ID: "p1", MetaClassID: "class-person", Style: map[string]any{"age": 30, "name": "Ada"}},
			{ID: "p2", MetaClassID: "class-person", Style: map[string]any{"age": 10, "name": "Kid"}},
		},
	}
}

func TestValidateSyntaxWellFormed(t *testing.T) {
	s, p := newTestService(t)
	mm := p.metamodels["mm-1"]

	res := s.ValidateSyntax("self.age >= 18 and self.age <= 75", mm, mm.ClassByID("class-person"))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestValidateSyntaxMalformed(t *testing.T) {
	s, p := newTestService(t)
	mm := p.metamodels["mm-1"]

	res := s.ValidateSyntax("self.age >= and", mm, mm.ClassByID("class-person"))
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, "Syntax error")
}

func TestValidateSyntaxScriptTokens(t *testing.T) {
	s, p := newTestService(t)
	mm := p.metamodels["mm-1"]

	res := s.ValidateSyntax("if (self.age<18) return false;", mm, mm.ClassByID("class-person"))
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0].Message, "Safety violation")
}

func TestValidateModelZeroConstraints(t *testing.T) {
	s, p := newTestService(t)
	p.models["model-1"] = personModel()

	res, err := s.ValidateModelAgainstConstraints(context.Background(), "model-1", "mm-1")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestValidateModelReportsViolations(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	p.models["model-1"] = personModel()

	_, err := s.CreateConstraint(ctx, "mm-1", ConstraintSpec{
		ContextClassID: "class-person",
		Name:           "ValidAge",
		Expression:     "self.age >= 18 and self.age <= 75",
	})
	require.NoError(t, err)

	res, err := s.ValidateModelAgainstConstraints(ctx, "model-1", "mm-1")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "p2", res.Issues[0].ElementID)
	assert.Equal(t, "ValidAge", res.Issues[0].ConstraintName)
}

func TestValidateModelSkipsInvalidConstraints(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	p.models["model-1"] = personModel()

	c, err := s.CreateConstraint(ctx, "mm-1", ConstraintSpec{
		ContextClassID: "class-person",
		Name:           "Broken",
		Expression:     "self.age >=",
	})
	require.NoError(t, err)
	require.False(t, c.IsValid)

	res, err := s.ValidateModelAgainstConstraints(ctx, "model-1", "mm-1")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateModelUnknownIDs(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	p.models["model-1"] = personModel()

	_, err := s.ValidateModelAgainstConstraints(ctx, "model-1", "mm-ghost")
	require.Error(t, err)
	assert.True(t, engine.IsRegistrationError(err))

	_, err = s.ValidateModelAgainstConstraints(ctx, "model-ghost", "mm-1")
	require.Error(t, err)
	assert.True(t, engine.IsRegistrationError(err))
}

func TestValidatePropertyUpdateHypotheticalOnly(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	model := personModel()
	p.models["model-1"] = model

	_, err := s.CreateConstraint(ctx, "mm-1", ConstraintSpec{
		ContextClassID: "class-person",
		Name:           "ValidAge",
		Expression:     "self.age >= 18 and self.age <= 75",
	})
	require.NoError(t, err)

	// proposing age=5 on a currently-valid element fails the check
	res, err := s.ValidatePropertyUpdate(ctx, "model-1", "p1", PropertyChanges{
		Attributes: map[string]any{"age": 5},
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "p1", res.Issues[0].ElementID)

	// the stored element is untouched
	assert.Equal(t, 30, model.ElementByID("p1").Style["age"])

	// proposing a fix on a currently-invalid element passes
	res, err = s.ValidatePropertyUpdate(ctx, "model-1", "p2", PropertyChanges{
		Attributes: map[string]any{"age": 25},
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 10, model.ElementByID("p2").Style["age"])
}

func TestValidatePropertyUpdateChecksOnlyTargetElement(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	p.models["model-1"] = personModel()

	_, err := s.CreateConstraint(ctx, "mm-1", ConstraintSpec{
		ContextClassID: "class-person",
		Name:           "ValidAge",
		Expression:     "self.age >= 18",
	})
	require.NoError(t, err)

	// p2 violates the constraint, but an edit to p1 only checks p1
	res, err := s.ValidatePropertyUpdate(ctx, "model-1", "p1", PropertyChanges{
		Attributes: map[string]any{"name": "Grace"},
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidatePropertyUpdateReferenceChanges(t *testing.T) {
	s, p := newTestService(t)
	ctx := context.Background()
	p.models["model-1"] = &metamodel.Model{
		ID:          "model-1",
		MetamodelID: "mm-1",
		Elements: []*metamodel.ModelElement{
			{ID: "o1", MetaClassID: "class-order"},
			{ID: "i1", MetaClassID: "class-orderitem"},
		},
	}

	_, err := s.CreateConstraint(ctx, "mm-1", ConstraintSpec{
		ContextClassID: "class-order",
		Name:           "HasItems",
		Expression:     "self.items->notEmpty()",
	})
	require.NoError(t, err)

	res, err := s.ValidatePropertyUpdate(ctx, "model-1", "o1", PropertyChanges{})
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = s.ValidatePropertyUpdate(ctx, "model-1", "o1", PropertyChanges{
		References: map[string][]string{"items": {"i1"}},
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidatePropertyUpdateUnknownElement(t *testing.T) {
	s, p := newTestService(t)
	p.models["model-1"] = personModel()

	_, err := s.ValidatePropertyUpdate(context.Background(), "model-1", "ghost", PropertyChanges{})
	require.Error(t, err)
	assert.True(t, engine.IsRegistrationError(err))
}
