package metamodel

// ValidationIssue reports one constraint violation or evaluation problem.
// ElementID is empty for issues not tied to a specific element (e.g. a
// syntax check on raw expression text).
type ValidationIssue struct {
	ConstraintID   string   `json:"constraintId,omitempty"`
	ConstraintName string   `json:"constraintName,omitempty"`
	Expression     string   `json:"expression,omitempty"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	ElementID      string   `json:"elementId,omitempty"`
}

// ValidationResult aggregates the issues of one validation pass.
// Valid is true iff Issues is empty.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Issues []ValidationIssue `json:"issues"`
}

// NewValidationResult builds a result from collected issues.
// A nil slice is replaced by an empty one so JSON output stays stable.
func NewValidationResult(issues []ValidationIssue) ValidationResult {
	if issues == nil {
		issues = []ValidationIssue{}
	}
	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}
