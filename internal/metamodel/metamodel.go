package metamodel

import "fmt"

// Metamodel is a user-defined schema: class definitions plus the constraints
// attached to them.
type Metamodel struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name,omitempty" yaml:"name,omitempty"`
	Classes     []*MetaClass  `json:"classes" yaml:"classes"`
	Constraints []*Constraint `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// ClassByID resolves a class id, nil when absent.
func (m *Metamodel) ClassByID(id string) *MetaClass {
	for _, c := range m.Classes {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ClassByName resolves a class by name, nil when absent.
// With duplicate names the first declaration wins.
func (m *Metamodel) ClassByName(name string) *MetaClass {
	for _, c := range m.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ConstraintByID resolves a constraint id, nil when absent.
func (m *Metamodel) ConstraintByID(id string) *Constraint {
	for _, c := range m.Constraints {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ConstraintsByContext groups constraints by their context class id.
// Slice order within a group follows declaration order, keeping validation
// reports deterministic.
func (m *Metamodel) ConstraintsByContext() map[string][]*Constraint {
	byClass := make(map[string][]*Constraint)
	for _, c := range m.Constraints {
		byClass[c.ContextID] = append(byClass[c.ContextID], c)
	}
	return byClass
}

// CheckIntegrity verifies the referential invariants of the metamodel:
// superclass ids, reference targets and constraint context classes must all
// resolve within the metamodel, and enum-valued fields must carry allowed
// values. Returned errors describe the first violation per category walk.
func (m *Metamodel) CheckIntegrity() []error {
	var errs []error
	for _, c := range m.Classes {
		for _, super := range c.SuperTypes {
			if m.ClassByID(super) == nil {
				errs = append(errs, fmt.Errorf("class %q: superclass %q not found", c.Name, super))
			}
		}
		for _, a := range c.Attributes {
			if !ValidAttributeTypes[a.Type] {
				errs = append(errs, fmt.Errorf("class %q: attribute %q has unknown type %q", c.Name, a.Name, a.Type))
			}
		}
		for _, r := range c.References {
			if m.ClassByID(r.TargetID) == nil {
				errs = append(errs, fmt.Errorf("class %q: reference %q targets unknown class %q", c.Name, r.Name, r.TargetID))
			}
		}
	}
	for _, con := range m.Constraints {
		if m.ClassByID(con.ContextID) == nil {
			errs = append(errs, fmt.Errorf("constraint %q: context class %q not found", con.Name, con.ContextID))
		}
		if !ValidDialects[con.Dialect] {
			errs = append(errs, fmt.Errorf("constraint %q: unknown dialect %q", con.Name, con.Dialect))
		}
	}
	return errs
}
