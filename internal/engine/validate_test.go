package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func TestValidateModelZeroConstraints(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	model := singleElementModel(personElement("p1", 1))

	res, err := v.ValidateModel(context.Background(), model, mm, nil)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
	assert.NotNil(t, res.Issues)
}

func TestValidateModelAggregatesIssues(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		oclConstraint("con-age", "class-person", "ValidAge", "self.age >= 18 and self.age <= 75"),
	}
	model := &metamodel.Model{
		ID: "m1", MetamodelID: "mm-1",
		Elements: []*metamodel.ModelElement{
			personElement("p1", 10),
			personElement("p2", 30),
			personElement("p3", 90),
		},
	}

	res, err := v.ValidateModel(context.Background(), model, mm, constraints)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Issues, 2)
	// deterministic order: element iteration order
	assert.Equal(t, "p1", res.Issues[0].ElementID)
	assert.Equal(t, "p3", res.Issues[1].ElementID)
}

func TestValidateModelInheritedConstraints(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		oclConstraint("con-age", "class-person", "ValidAge", "self.age >= 18"),
		oclConstraint("con-salary", "class-employee", "PaidEnough", "self.salary > 0"),
	}
	model := &metamodel.Model{
		ID: "m1",
		Elements: []*metamodel.ModelElement{
			{ID: "emp1", MetaClassID: "class-employee",
				Style: map[string]any{"age": float64(5), "salary": float64(0)}},
		},
	}

	res, err := v.ValidateModel(context.Background(), model, mm, constraints)
	require.NoError(t, err)
	require.Len(t, res.Issues, 2)
	// own constraint first, then the inherited one
	assert.Equal(t, "con-salary", res.Issues[0].ConstraintID)
	assert.Equal(t, "con-age", res.Issues[1].ConstraintID)
}

func TestValidateModelSkipsInvalidConstraints(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	broken := oclConstraint("con-broken", "class-person", "Broken", "self.age >=")
	broken.IsValid = false
	broken.ErrorMessage = "parse failed at creation"

	model := singleElementModel(personElement("p1", 1))
	res, err := v.ValidateModel(context.Background(), model, mm, []*metamodel.Constraint{broken})
	require.NoError(t, err)
	// only invalid constraints registered: behaves like zero constraints
	assert.True(t, res.Valid)
}

func TestValidateModelElementFailureDoesNotAbort(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		// fails at runtime for elements without height
		oclConstraint("con-height", "class-person", "TallEnough", "self.height > 10"),
	}
	model := &metamodel.Model{
		ID: "m1",
		Elements: []*metamodel.ModelElement{
			personElement("p1", 30), // runtime failure: height unset
			{ID: "p2", MetaClassID: "class-person",
				Style: map[string]any{"age": float64(30), "height": float64(180)}},
		},
	}

	res, err := v.ValidateModel(context.Background(), model, mm, constraints)
	require.NoError(t, err)
	// p1 fails, p2 still evaluated and passes
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "p1", res.Issues[0].ElementID)
}

func TestValidateModelUnknownMetaclassSkipped(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		oclConstraint("con-age", "class-person", "ValidAge", "self.age >= 18"),
	}
	model := &metamodel.Model{
		ID: "m1",
		Elements: []*metamodel.ModelElement{
			{ID: "ghost", MetaClassID: "no-such-class"},
			personElement("p1", 30),
		},
	}

	res, err := v.ValidateModel(context.Background(), model, mm, constraints)
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateModelInheritanceCyclePropagates(t *testing.T) {
	v := NewValidator(testLogger())
	mm := &metamodel.Metamodel{
		ID: "mm-cyclic",
		Classes: []*metamodel.MetaClass{
			{ID: "a", Name: "A", SuperTypes: []string{"b"}},
			{ID: "b", Name: "B", SuperTypes: []string{"a"}},
		},
	}
	constraints := []*metamodel.Constraint{oclConstraint("c1", "a", "Rule", "true")}
	model := &metamodel.Model{
		ID:       "m1",
		Elements: []*metamodel.ModelElement{{ID: "e1", MetaClassID: "a"}},
	}

	_, err := v.ValidateModel(context.Background(), model, mm, constraints)
	require.Error(t, err)
	assert.True(t, IsRegistrationError(err))
}

func TestValidateModelCancellation(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		oclConstraint("con-age", "class-person", "ValidAge", "self.age >= 18"),
	}
	model := singleElementModel(personElement("p1", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := v.ValidateModel(ctx, model, mm, constraints)
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidateModelDeterministicIssueOrder(t *testing.T) {
	v := NewValidator(testLogger())
	mm := personMetamodel()
	constraints := []*metamodel.Constraint{
		oclConstraint("con-min", "class-person", "MinAge", "self.age >= 18"),
		oclConstraint("con-max", "class-person", "MaxAge", "self.age <= 75"),
	}
	model := singleElementModel(personElement("p1", 200))

	for i := 0; i < 5; i++ {
		res, err := v.ValidateModel(context.Background(), model, mm, constraints)
		require.NoError(t, err)
		require.Len(t, res.Issues, 1)
		assert.Equal(t, "con-max", res.Issues[0].ConstraintID)
	}
}
