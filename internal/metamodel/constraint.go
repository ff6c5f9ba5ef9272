package metamodel

import "golang.org/x/text/unicode/norm"

// Dialect tags the expression language a constraint is written in.
//
// Two unrelated dialects share the same storage: the OCL invariant language
// handled by this engine, and the script dialect handled by its sibling
// evaluator. The tag is set at creation time and must never change afterwards;
// every consumer switches exhaustively on it.
type Dialect string

const (
	// DialectOCL marks constraints written in the OCL invariant language.
	DialectOCL Dialect = "ocl"

	// DialectScript marks constraints belonging to the sibling script
	// evaluator. This engine never evaluates them.
	DialectScript Dialect = "script"
)

// ValidDialects defines the allowed dialect tags.
var ValidDialects = map[Dialect]bool{
	DialectOCL:    true,
	DialectScript: true,
}

// Severity ranks how a violated constraint is reported.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidSeverities defines the allowed severities.
var ValidSeverities = map[Severity]bool{
	SeverityError:   true,
	SeverityWarning: true,
	SeverityInfo:    true,
}

// Constraint is a declarative invariant attached to a context class.
// Instances of the context class, and of its subclasses, are checked
// against Expression during a validation pass.
//
// IsValid records the outcome of syntax validation at creation/update time.
// Invalid constraints are persisted (ErrorMessage set) but excluded from
// validation runs.
type Constraint struct {
	ID           string   `json:"id" yaml:"id"`
	Dialect      Dialect  `json:"dialect" yaml:"dialect"`
	Name         string   `json:"name" yaml:"name"`
	ContextID    string   `json:"contextClass" yaml:"contextClass"`
	Expression   string   `json:"expression" yaml:"expression"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Severity     Severity `json:"severity" yaml:"severity"`
	IsValid      bool     `json:"isValid" yaml:"isValid"`
	ErrorMessage string   `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// NormalizeExpression brings expression text into NFC form.
// Constraint text is normalized once at creation so that id assignment,
// deduplication and dialect scanning see a stable byte sequence.
func NormalizeExpression(s string) string {
	return norm.NFC.String(s)
}
