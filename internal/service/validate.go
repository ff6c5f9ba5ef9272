package service

import (
	"context"
	"fmt"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// ValidateSyntax checks expression text without touching stored state.
// Script-dialect tokens fail the check before the parser runs.
func (s *Service) ValidateSyntax(expression string, mm *metamodel.Metamodel, contextClass *metamodel.MetaClass) engine.SyntaxResult {
	expression = metamodel.NormalizeExpression(expression)
	if token, found := engine.ScanForeignDialect(expression); found {
		return engine.SyntaxResult{
			Valid: false,
			Issues: []metamodel.ValidationIssue{{
				Expression: expression,
				Severity:   metamodel.SeverityError,
				Message: fmt.Sprintf(
					"Safety violation: expression contains script-dialect token %q", token),
			}},
		}
	}
	return engine.ValidateSyntax(expression, mm, contextClass)
}

// ValidateModelAgainstConstraints runs a full validation pass of a model
// against every constraint of its metamodel. The metamodel is registered
// on first use; with zero constraints the pass is trivially valid.
func (s *Service) ValidateModelAgainstConstraints(ctx context.Context, modelID, metamodelID string) (metamodel.ValidationResult, error) {
	mm, err := s.metamodelByID(ctx, metamodelID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}
	model, err := s.modelByID(ctx, modelID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}
	if err := s.val.Registry().Register(mm); err != nil {
		return metamodel.ValidationResult{}, err
	}
	constraints, err := s.GetAllConstraints(ctx, metamodelID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}
	return s.val.ValidateModel(ctx, model, mm, constraints)
}

// PropertyChanges is a proposed edit to one element: attribute values to
// set and reference target lists to replace.
type PropertyChanges struct {
	Attributes map[string]any
	References map[string][]string
}

// ValidatePropertyUpdate checks a proposed element edit before it is
// persisted. A hypothetical copy of the element with the changes merged in
// is validated against exactly the constraints applicable to its metaclass;
// neither the stored model nor the element is mutated.
func (s *Service) ValidatePropertyUpdate(ctx context.Context, modelID, elementID string, changes PropertyChanges) (metamodel.ValidationResult, error) {
	model, err := s.modelByID(ctx, modelID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}
	mm, err := s.metamodelByID(ctx, model.MetamodelID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}
	el := model.ElementByID(elementID)
	if el == nil {
		return metamodel.ValidationResult{}, &engine.RegistrationError{
			Code:    engine.ErrCodeElementNotFound,
			Message: "element not found: " + elementID,
		}
	}
	class := mm.ClassByID(el.MetaClassID)
	if class == nil {
		return metamodel.ValidationResult{}, &engine.RegistrationError{
			Code:        engine.ErrCodeClassNotFound,
			Message:     "element metaclass not found",
			MetamodelID: mm.ID,
			ClassID:     el.MetaClassID,
		}
	}
	if err := s.val.Registry().Register(mm); err != nil {
		return metamodel.ValidationResult{}, err
	}

	merged := mergeElement(el, changes)
	scratch := replaceElement(model, merged)

	applicable, err := s.GetConstraintsForMetaClass(ctx, mm.ID, el.MetaClassID)
	if err != nil {
		return metamodel.ValidationResult{}, err
	}

	var issues []metamodel.ValidationIssue
	for _, c := range applicable {
		if !c.IsValid {
			continue
		}
		outcome := s.val.Evaluator().Evaluate(c, merged, scratch, mm)
		issues = append(issues, outcome.Issues...)
	}
	return metamodel.NewValidationResult(issues), nil
}

// mergeElement copies the element and applies the proposed changes to the
// copy. Both value maps are cloned so the original stays untouched.
func mergeElement(el *metamodel.ModelElement, changes PropertyChanges) *metamodel.ModelElement {
	merged := &metamodel.ModelElement{
		ID:          el.ID,
		MetaClassID: el.MetaClassID,
		Style:       make(map[string]any, len(el.Style)+len(changes.Attributes)),
		References:  make(map[string][]string, len(el.References)+len(changes.References)),
	}
	for k, v := range el.Style {
		merged.Style[k] = v
	}
	for k, v := range changes.Attributes {
		merged.Style[k] = v
	}
	for k, v := range el.References {
		merged.References[k] = v
	}
	for k, v := range changes.References {
		merged.References[k] = v
	}
	return merged
}

// replaceElement builds a shallow model copy with one element swapped out,
// so constraints navigating back to the edited element through references
// see the hypothetical state.
func replaceElement(model *metamodel.Model, el *metamodel.ModelElement) *metamodel.Model {
	scratch := &metamodel.Model{
		ID:          model.ID,
		Name:        model.Name,
		MetamodelID: model.MetamodelID,
		Elements:    make([]*metamodel.ModelElement, len(model.Elements)),
	}
	for i, e := range model.Elements {
		if e.ID == el.ID {
			scratch.Elements[i] = el
		} else {
			scratch.Elements[i] = e
		}
	}
	return scratch
}
