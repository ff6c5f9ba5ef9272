package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func TestRegisterBuildsDescriptors(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := personMetamodel()

	require.NoError(t, reg.Register(mm))
	assert.True(t, reg.Registered("mm-1"))

	person := reg.Descriptor("mm-1", "Person")
	require.NotNil(t, person)
	assert.Equal(t, metamodel.TypeNumber, person.Attributes["age"].Type)
	assert.Equal(t, metamodel.TypeString, person.Attributes["name"].Type)

	employee := reg.Descriptor("mm-1", "Employee")
	require.NotNil(t, employee)
	assert.Equal(t, []string{"Person"}, employee.Supertypes)

	order := reg.Descriptor("mm-1", "Order")
	require.NotNil(t, order)
	assert.Equal(t, "OrderItem", order.References["items"].Target)
	assert.True(t, order.References["items"].Many)
	assert.Equal(t, "Address", order.References["shipTo"].Target)
	assert.False(t, order.References["shipTo"].Many)
}

func TestRegisterIdempotent(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := personMetamodel()

	require.NoError(t, reg.Register(mm))
	first := reg.Descriptor("mm-1", "Person")

	// second registration of the same id is a no-op
	require.NoError(t, reg.Register(mm))
	assert.Same(t, first, reg.Descriptor("mm-1", "Person"))
}

func TestRegisterSkipsDuplicateClassNames(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := &metamodel.Metamodel{
		ID: "mm-dup",
		Classes: []*metamodel.MetaClass{
			{ID: "c1", Name: "Thing", Attributes: []metamodel.MetaAttribute{{Name: "a", Type: metamodel.TypeString}}},
			{ID: "c2", Name: "Thing", Attributes: []metamodel.MetaAttribute{{Name: "b", Type: metamodel.TypeString}}},
		},
	}

	require.NoError(t, reg.Register(mm))
	desc := reg.Descriptor("mm-dup", "Thing")
	require.NotNil(t, desc)
	// first declaration wins
	assert.Contains(t, desc.Attributes, "a")
	assert.NotContains(t, desc.Attributes, "b")
}

func TestRegisterUnresolvedSuperclassFails(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := &metamodel.Metamodel{
		ID: "mm-bad",
		Classes: []*metamodel.MetaClass{
			{ID: "c1", Name: "Orphan", SuperTypes: []string{"missing"}},
		},
	}

	err := reg.Register(mm)
	require.Error(t, err)
	assert.True(t, IsRegistrationError(err))
	assert.False(t, reg.Registered("mm-bad"))
}

func TestRegisterUnresolvedReferenceTargetFails(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := &metamodel.Metamodel{
		ID: "mm-bad-ref",
		Classes: []*metamodel.MetaClass{
			{ID: "c1", Name: "Holder", References: []metamodel.MetaReference{
				{Name: "broken", TargetID: "missing", Cardinality: metamodel.Cardinality{Upper: 1}},
			}},
		},
	}

	err := reg.Register(mm)
	require.Error(t, err)
	var re *RegistrationError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeUnresolvedTarget, re.Code)
}

func TestReregisterRefreshesDescriptors(t *testing.T) {
	reg := NewTypeRegistry(testLogger())
	mm := personMetamodel()
	require.NoError(t, reg.Register(mm))

	mm.Classes[0].Attributes = append(mm.Classes[0].Attributes,
		metamodel.MetaAttribute{Name: "email", Type: metamodel.TypeString})

	// plain Register is a no-op, Reregister picks up the edit
	require.NoError(t, reg.Register(mm))
	assert.NotContains(t, reg.Descriptor("mm-1", "Person").Attributes, "email")

	require.NoError(t, reg.Reregister(mm))
	assert.Contains(t, reg.Descriptor("mm-1", "Person").Attributes, "email")
}

func TestIndependentRegistriesDoNotInterfere(t *testing.T) {
	a := NewTypeRegistry(testLogger())
	b := NewTypeRegistry(testLogger())

	require.NoError(t, a.Register(personMetamodel()))
	assert.True(t, a.Registered("mm-1"))
	assert.False(t, b.Registered("mm-1"))
}
