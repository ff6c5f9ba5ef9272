package engine

import (
	"io"
	"log/slog"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// personMetamodel builds the fixture used across the engine tests:
// Person{age:number, name:string}, Employee extends Person, and
// Order{items: OrderItem[0..*], shipTo: Address[0..1]}.
func personMetamodel() *metamodel.Metamodel {
	return &metamodel.Metamodel{
		ID: "mm-1",
		Classes: []*metamodel.MetaClass{
			{
				ID:   "class-person",
				Name: "Person",
				Attributes: []metamodel.MetaAttribute{
					{Name: "age", Type: metamodel.TypeNumber, Required: true},
					{Name: "name", Type: metamodel.TypeString},
				},
			},
			{
				ID:         "class-employee",
				Name:       "Employee",
				SuperTypes: []string{"class-person"},
				Attributes: []metamodel.MetaAttribute{
					{Name: "salary", Type: metamodel.TypeNumber},
				},
			},
			{
				ID:   "class-address",
				Name: "Address",
				Attributes: []metamodel.MetaAttribute{
					{Name: "city", Type: metamodel.TypeString},
				},
			},
			{
				ID:   "class-orderitem",
				Name: "OrderItem",
				Attributes: []metamodel.MetaAttribute{
					{Name: "qty", Type: metamodel.TypeNumber},
				},
			},
			{
				ID:   "class-order",
				Name: "Order",
				References: []metamodel.MetaReference{
					{
						Name:        "items",
						TargetID:    "class-orderitem",
						Containment: true,
						Cardinality: metamodel.Cardinality{Lower: 0, Upper: metamodel.Unbounded},
					},
					{
						Name:        "shipTo",
						TargetID:    "class-address",
						Cardinality: metamodel.Cardinality{Lower: 0, Upper: 1},
					},
				},
			},
		},
	}
}

func oclConstraint(id, contextID, name, expr string) *metamodel.Constraint {
	return &metamodel.Constraint{
		ID:         id,
		Dialect:    metamodel.DialectOCL,
		Name:       name,
		ContextID:  contextID,
		Expression: expr,
		Severity:   metamodel.SeverityError,
		IsValid:    true,
	}
}
