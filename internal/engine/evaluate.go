package engine

import (
	"fmt"
	"log/slog"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/ocl"
)

// EvalOutcome is the result of evaluating one constraint against one
// element. Failures are data: evaluation problems surface as issues, never
// as errors aborting the batch.
type EvalOutcome struct {
	Valid  bool
	Issues []metamodel.ValidationIssue
}

func passOutcome() EvalOutcome {
	return EvalOutcome{Valid: true, Issues: []metamodel.ValidationIssue{}}
}

func failOutcome(issue metamodel.ValidationIssue) EvalOutcome {
	return EvalOutcome{Valid: false, Issues: []metamodel.ValidationIssue{issue}}
}

// ConstraintEvaluator evaluates OCL constraints against model elements.
type ConstraintEvaluator struct {
	log *slog.Logger
}

// NewConstraintEvaluator creates an evaluator. A nil logger defaults to
// slog.Default().
func NewConstraintEvaluator(log *slog.Logger) *ConstraintEvaluator {
	if log == nil {
		log = slog.Default()
	}
	return &ConstraintEvaluator{log: log}
}

// Evaluate runs one constraint against one element.
//
// Constraints tagged with a foreign dialect are passed through as valid
// without evaluating: they belong to the sibling evaluator, and a silent
// pass-through here is routing, not validation. Expressions whose text
// carries script-dialect tokens fail with a safety-violation issue before
// ever reaching the evaluator. Elements whose metaclass is neither the
// constraint's context class nor a descendant of it are skipped as valid.
func (ev *ConstraintEvaluator) Evaluate(c *metamodel.Constraint, el *metamodel.ModelElement, model *metamodel.Model, mm *metamodel.Metamodel) EvalOutcome {
	// dialect guard: never evaluate another dialect's constraint
	if c.Dialect != metamodel.DialectOCL {
		ev.log.Debug("skipping constraint of foreign dialect",
			"constraint", c.ID, "dialect", c.Dialect)
		return passOutcome()
	}

	if token, found := ScanForeignDialect(c.Expression); found {
		return failOutcome(metamodel.ValidationIssue{
			ConstraintID:   c.ID,
			ConstraintName: c.Name,
			Expression:     c.Expression,
			Severity:       metamodel.SeverityError,
			ElementID:      el.ID,
			Message: fmt.Sprintf(
				"Safety violation: expression contains script-dialect token %q and was not evaluated", token),
		})
	}

	class := mm.ClassByID(el.MetaClassID)
	if class == nil || !IsKindOf(class, c.ContextID, mm) {
		// applicability mismatch: the constraint does not apply here
		return passOutcome()
	}

	ctx := BuildContext(el, model, mm)

	expr, err := ev.parseConstraint(c, class)
	if err != nil {
		return failOutcome(metamodel.ValidationIssue{
			ConstraintID:   c.ID,
			ConstraintName: c.Name,
			Expression:     c.Expression,
			Severity:       metamodel.SeverityError,
			ElementID:      el.ID,
			Message:        ocl.FriendlyMessage(err),
		})
	}

	holds, err := ocl.EvaluateBool(expr, ctx)
	if err != nil {
		return failOutcome(metamodel.ValidationIssue{
			ConstraintID:   c.ID,
			ConstraintName: c.Name,
			Expression:     c.Expression,
			Severity:       c.Severity,
			ElementID:      el.ID,
			Message:        ocl.FriendlyMessage(err),
		})
	}
	if holds {
		return passOutcome()
	}

	message := c.ErrorMessage
	if message == "" {
		message = fmt.Sprintf("Constraint %q violated for element of type %q", c.Name, class.Name)
	}
	return failOutcome(metamodel.ValidationIssue{
		ConstraintID:   c.ID,
		ConstraintName: c.Name,
		Expression:     c.Expression,
		Severity:       c.Severity,
		ElementID:      el.ID,
		Message:        message,
	})
}

// parseConstraint extracts and parses the invariant body. When the bare body
// fails to parse, the full declaration form is tried before giving up, so
// constraints stored with an embedded `context ... inv ...:` prefix evaluate
// the same as bare ones.
func (ev *ConstraintEvaluator) parseConstraint(c *metamodel.Constraint, class *metamodel.MetaClass) (ocl.Expr, error) {
	body := ocl.ExtractBody(c.Expression)
	expr, err := ocl.ParseExpression(body)
	if err == nil {
		return expr, nil
	}
	decl, declErr := ocl.ParseDecl(ocl.WrapBare(class.Name, c.Expression))
	if declErr != nil {
		return nil, err
	}
	return decl.BodyExpr, nil
}
