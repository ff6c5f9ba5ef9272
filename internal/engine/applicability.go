package engine

import (
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// ApplicableConstraints computes the full, deduplicated, ordered set of
// constraints applying to instances of a class: the class's own constraints
// followed by those inherited from its superclasses, depth-first in
// declaration order. Diamond inheritance contributes each constraint once.
//
// Traversal is bounded by a visited set; a class reached again on the
// current descent path means the inheritance graph is cyclic, which is
// reported as a RegistrationError.
func ApplicableConstraints(class *metamodel.MetaClass, mm *metamodel.Metamodel, byClass map[string][]*metamodel.Constraint) ([]*metamodel.Constraint, error) {
	out := []*metamodel.Constraint{}
	seenConstraint := make(map[string]bool)
	done := make(map[string]bool)
	onPath := make(map[string]bool)

	var walk func(c *metamodel.MetaClass) error
	walk = func(c *metamodel.MetaClass) error {
		if onPath[c.ID] {
			return NewInheritanceCycleError(mm.ID, c.ID)
		}
		if done[c.ID] {
			// diamond inheritance: already contributed, not a cycle
			return nil
		}
		onPath[c.ID] = true
		for _, con := range byClass[c.ID] {
			if !seenConstraint[con.ID] {
				seenConstraint[con.ID] = true
				out = append(out, con)
			}
		}
		for _, superID := range c.SuperTypes {
			super := mm.ClassByID(superID)
			if super == nil {
				continue // integrity violation handled at registration
			}
			if err := walk(super); err != nil {
				return err
			}
		}
		onPath[c.ID] = false
		done[c.ID] = true
		return nil
	}

	if err := walk(class); err != nil {
		return nil, err
	}
	return out, nil
}

// IsKindOf reports whether class is ancestorID itself or one of its
// descendants. Traversal is bounded by a visited set, so a malformed cyclic
// inheritance graph yields false rather than unbounded recursion.
func IsKindOf(class *metamodel.MetaClass, ancestorID string, mm *metamodel.Metamodel) bool {
	visited := make(map[string]bool)
	var walk func(c *metamodel.MetaClass) bool
	walk = func(c *metamodel.MetaClass) bool {
		if c.ID == ancestorID {
			return true
		}
		if visited[c.ID] {
			return false
		}
		visited[c.ID] = true
		for _, superID := range c.SuperTypes {
			if super := mm.ClassByID(superID); super != nil && walk(super) {
				return true
			}
		}
		return false
	}
	return walk(class)
}
