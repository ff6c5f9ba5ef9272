package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/engine"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/loader"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass indicates the validation outcome matched the expectation.
	Pass bool `json:"pass"`

	// Report is the validation result the engine produced.
	Report metamodel.ValidationResult `json:"report"`

	// Errors lists expectation mismatches. Empty when Pass is true.
	Errors []string `json:"errors,omitempty"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run loads the scenario's metamodel and model, validates the model against
// the metamodel's constraints and checks the result against the scenario's
// expectations. Load and registration failures return an error; expectation
// mismatches are collected in the result.
func Run(scenario *Scenario) (*Result, error) {
	mm, err := loader.LoadMetamodel(scenario.Metamodel)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	model, err := loader.LoadModel(scenario.Model, mm)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := engine.NewValidator(log)
	if err := validator.Registry().Register(mm); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	report, err := validator.ValidateModel(context.Background(), model, mm, mm.Constraints)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{Pass: true, Report: report}
	checkExpectation(result, scenario.Expect)
	return result, nil
}

func checkExpectation(result *Result, expect Expectation) {
	report := result.Report
	if report.Valid != expect.Valid {
		result.addError("expected valid=%v, got valid=%v with %d issue(s)",
			expect.Valid, report.Valid, len(report.Issues))
	}
	if expect.Count != nil && len(report.Issues) != *expect.Count {
		result.addError("expected %d issue(s), got %d", *expect.Count, len(report.Issues))
	}
	for _, want := range expect.Issues {
		if !containsIssue(report.Issues, want) {
			result.addError("missing expected issue (element=%q constraint=%q contains=%q)",
				want.Element, want.Constraint, want.Contains)
		}
	}
}

func containsIssue(issues []metamodel.ValidationIssue, want IssueExpectation) bool {
	for _, issue := range issues {
		if want.Element != "" && issue.ElementID != want.Element {
			continue
		}
		if want.Constraint != "" && issue.ConstraintName != want.Constraint {
			continue
		}
		if want.Contains != "" && !strings.Contains(issue.Message, want.Contains) {
			continue
		}
		return true
	}
	return false
}
