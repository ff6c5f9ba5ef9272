package service

import (
	"context"
	"fmt"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// ConstraintSpec carries the caller-supplied fields of a new constraint.
// Dialect defaults to OCL and Severity to error when left empty.
type ConstraintSpec struct {
	ContextClassID string
	Name           string
	Expression     string
	Description    string
	Severity       metamodel.Severity
	Dialect        metamodel.Dialect
}

// ConstraintUpdate names the mutable fields of a constraint. Nil fields are
// left unchanged. The dialect is fixed at creation and cannot be updated.
type ConstraintUpdate struct {
	ContextClassID *string
	Name           *string
	Expression     *string
	Description    *string
	Severity       *metamodel.Severity
	ErrorMessage   *string
}

// CreateConstraint validates and persists a new constraint.
//
// A failed syntax check does not reject the write: the constraint is stored
// with IsValid=false and the error message, and validation runs skip it.
// Unknown metamodel or context class ids fail loudly as RegistrationErrors.
func (s *Service) CreateConstraint(ctx context.Context, metamodelID string, spec ConstraintSpec) (*metamodel.Constraint, error) {
	mm, err := s.metamodelByID(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	class := mm.ClassByID(spec.ContextClassID)
	if class == nil {
		return nil, &engine.RegistrationError{
			Code:        engine.ErrCodeClassNotFound,
			Message:     "context class not found",
			MetamodelID: metamodelID,
			ClassID:     spec.ContextClassID,
		}
	}

	dialect := spec.Dialect
	if dialect == "" {
		dialect = metamodel.DialectOCL
	}
	if !metamodel.ValidDialects[dialect] {
		return nil, fmt.Errorf("unknown dialect %q", dialect)
	}
	severity := spec.Severity
	if severity == "" {
		severity = metamodel.SeverityError
	}
	if !metamodel.ValidSeverities[severity] {
		return nil, fmt.Errorf("unknown severity %q", severity)
	}

	c := &metamodel.Constraint{
		ID:          s.newID(),
		Dialect:     dialect,
		Name:        spec.Name,
		ContextID:   spec.ContextClassID,
		Expression:  metamodel.NormalizeExpression(spec.Expression),
		Description: spec.Description,
		Severity:    severity,
	}
	s.checkSyntax(c, mm, class)

	if err := s.store.InsertConstraint(ctx, metamodelID, c); err != nil {
		return nil, err
	}
	s.log.Info("constraint created",
		"metamodel", metamodelID, "constraint", c.ID,
		"context", c.ContextID, "valid", c.IsValid)
	return c, nil
}

// UpdateConstraint applies a partial update to a stored constraint and
// re-checks its syntax. Returns nil (no error) when the constraint does
// not exist.
func (s *Service) UpdateConstraint(ctx context.Context, metamodelID, constraintID string, upd ConstraintUpdate) (*metamodel.Constraint, error) {
	mm, err := s.metamodelByID(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetConstraint(ctx, metamodelID, constraintID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}

	if upd.ContextClassID != nil {
		c.ContextID = *upd.ContextClassID
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Expression != nil {
		c.Expression = metamodel.NormalizeExpression(*upd.Expression)
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Severity != nil {
		if !metamodel.ValidSeverities[*upd.Severity] {
			return nil, fmt.Errorf("unknown severity %q", *upd.Severity)
		}
		c.Severity = *upd.Severity
	}
	if upd.ErrorMessage != nil {
		c.ErrorMessage = *upd.ErrorMessage
	}

	class := mm.ClassByID(c.ContextID)
	if class == nil {
		return nil, &engine.RegistrationError{
			Code:        engine.ErrCodeClassNotFound,
			Message:     "context class not found",
			MetamodelID: metamodelID,
			ClassID:     c.ContextID,
		}
	}
	s.checkSyntax(c, mm, class)

	ok, err := s.store.UpdateConstraint(ctx, metamodelID, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	s.log.Info("constraint updated",
		"metamodel", metamodelID, "constraint", c.ID, "valid", c.IsValid)
	return c, nil
}

// DeleteConstraint removes a constraint, reporting whether it existed.
func (s *Service) DeleteConstraint(ctx context.Context, metamodelID, constraintID string) (bool, error) {
	ok, err := s.store.DeleteConstraint(ctx, metamodelID, constraintID)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info("constraint deleted", "metamodel", metamodelID, "constraint", constraintID)
	}
	return ok, nil
}

// GetAllConstraints lists every constraint of a metamodel: the ones
// declared inline on the metamodel, then the persisted ones, deduplicated
// by id.
func (s *Service) GetAllConstraints(ctx context.Context, metamodelID string) ([]*metamodel.Constraint, error) {
	mm, err := s.metamodelByID(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.ListConstraints(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	return mergeConstraints(mm.Constraints, stored), nil
}

// GetConstraintsForMetaClass returns the constraints applicable to a class,
// inherited ones included, deduplicated by id. A cyclic inheritance graph
// surfaces as a RegistrationError.
func (s *Service) GetConstraintsForMetaClass(ctx context.Context, metamodelID, classID string) ([]*metamodel.Constraint, error) {
	mm, err := s.metamodelByID(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	class := mm.ClassByID(classID)
	if class == nil {
		return nil, &engine.RegistrationError{
			Code:        engine.ErrCodeClassNotFound,
			Message:     "class not found",
			MetamodelID: metamodelID,
			ClassID:     classID,
		}
	}
	all, err := s.GetAllConstraints(ctx, metamodelID)
	if err != nil {
		return nil, err
	}
	byClass := groupByContext(all)
	return engine.ApplicableConstraints(class, mm, byClass)
}

// checkSyntax records the outcome of the creation-time checks on the
// constraint itself. Script-dialect constraints are never parsed here;
// they belong to the sibling evaluator.
func (s *Service) checkSyntax(c *metamodel.Constraint, mm *metamodel.Metamodel, class *metamodel.MetaClass) {
	if c.Dialect != metamodel.DialectOCL {
		c.IsValid = true
		c.ErrorMessage = ""
		return
	}
	if token, found := engine.ScanForeignDialect(c.Expression); found {
		c.IsValid = false
		c.ErrorMessage = fmt.Sprintf(
			"Safety violation: expression contains script-dialect token %q", token)
		return
	}
	res := engine.ValidateSyntax(c.Expression, mm, class)
	if !res.Valid {
		c.IsValid = false
		c.ErrorMessage = res.Issues[0].Message
		return
	}
	c.IsValid = true
	c.ErrorMessage = ""
}

func mergeConstraints(inline, stored []*metamodel.Constraint) []*metamodel.Constraint {
	out := make([]*metamodel.Constraint, 0, len(inline)+len(stored))
	seen := map[string]bool{}
	for _, c := range inline {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	for _, c := range stored {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

func groupByContext(constraints []*metamodel.Constraint) map[string][]*metamodel.Constraint {
	byClass := map[string][]*metamodel.Constraint{}
	for _, c := range constraints {
		byClass[c.ContextID] = append(byClass[c.ContextID], c)
	}
	return byClass
}
