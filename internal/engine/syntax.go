package engine

import (
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/ocl"
)

// SyntaxResult reports the outcome of a syntax check.
type SyntaxResult struct {
	Valid  bool                        `json:"valid"`
	Issues []metamodel.ValidationIssue `json:"issues"`
}

// ValidateSyntax checks whether expression text parses as an OCL invariant
// for the given context class, without touching any data or shared state.
//
// Bare expressions are wrapped in an implicit `context <Class> inv:`
// declaration. When the primary parse of the full declaration fails, the
// extracted invariant body is parsed on its own for a more precise error;
// whichever parse got further supplies the reported message.
func ValidateSyntax(expression string, mm *metamodel.Metamodel, contextClass *metamodel.MetaClass) SyntaxResult {
	className := ""
	if contextClass != nil {
		className = contextClass.Name
	}

	wrapped := ocl.WrapBare(className, expression)
	_, primaryErr := ocl.ParseDecl(wrapped)
	if primaryErr == nil {
		return SyntaxResult{Valid: true, Issues: []metamodel.ValidationIssue{}}
	}

	// secondary parse of just the invariant body localizes the error better
	// when the body itself is at fault
	body := ocl.ExtractBody(expression)
	reportErr := primaryErr
	if _, bodyErr := ocl.ParseExpression(body); bodyErr != nil {
		reportErr = bodyErr
	}

	return SyntaxResult{
		Valid: false,
		Issues: []metamodel.ValidationIssue{{
			Expression: expression,
			Severity:   metamodel.SeverityError,
			Message:    ocl.FriendlyMessage(reportErr),
		}},
	}
}
