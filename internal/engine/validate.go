package engine

import (
	"context"
	"log/slog"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// Validator orchestrates a full validation pass: it walks a model's
// elements, resolves the applicable constraints per element, evaluates them
// and aggregates the issues into a single report.
type Validator struct {
	registry  *TypeRegistry
	evaluator *ConstraintEvaluator
	log       *slog.Logger
}

// NewValidator creates a validation session with its own type registry.
func NewValidator(log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{
		registry:  NewTypeRegistry(log),
		evaluator: NewConstraintEvaluator(log),
		log:       log,
	}
}

// Registry exposes the session's type registry.
func (v *Validator) Registry() *TypeRegistry {
	return v.registry
}

// Evaluator exposes the session's constraint evaluator.
func (v *Validator) Evaluator() *ConstraintEvaluator {
	return v.evaluator
}

// ValidateModel checks every element of the model against the applicable
// subset of the given constraints.
//
// With zero constraints the pass short-circuits to a valid result. Invalid
// constraints (failed syntax check at creation) are excluded. Issue order is
// deterministic: element iteration order, then constraint order. One
// element's evaluation failure never aborts the remaining elements; only a
// cyclic inheritance graph does, as a RegistrationError.
//
// Cancellation is best-effort: the pass stops between elements when ctx is
// done and returns ctx.Err().
func (v *Validator) ValidateModel(ctx context.Context, model *metamodel.Model, mm *metamodel.Metamodel, constraints []*metamodel.Constraint) (metamodel.ValidationResult, error) {
	active := make([]*metamodel.Constraint, 0, len(constraints))
	for _, c := range constraints {
		if c.IsValid {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return metamodel.NewValidationResult(nil), nil
	}

	byClass := make(map[string][]*metamodel.Constraint)
	for _, c := range active {
		byClass[c.ContextID] = append(byClass[c.ContextID], c)
	}

	// applicability depends only on the metaclass, so resolve it once per class
	applicableByClass := make(map[string][]*metamodel.Constraint)

	var issues []metamodel.ValidationIssue
	for _, el := range model.Elements {
		if err := ctx.Err(); err != nil {
			return metamodel.NewValidationResult(issues), err
		}

		class := mm.ClassByID(el.MetaClassID)
		if class == nil {
			v.log.Warn("element has unknown metaclass, skipping",
				"element", el.ID, "metaclass", el.MetaClassID)
			continue
		}

		applicable, ok := applicableByClass[class.ID]
		if !ok {
			var err error
			applicable, err = ApplicableConstraints(class, mm, byClass)
			if err != nil {
				return metamodel.NewValidationResult(issues), err
			}
			applicableByClass[class.ID] = applicable
		}

		for _, c := range applicable {
			outcome := v.evaluator.Evaluate(c, el, model, mm)
			issues = append(issues, outcome.Issues...)
		}
	}

	result := metamodel.NewValidationResult(issues)
	v.log.Info("validation pass finished",
		"model", model.ID, "elements", len(model.Elements),
		"constraints", len(active), "issues", len(result.Issues))
	return result, nil
}
