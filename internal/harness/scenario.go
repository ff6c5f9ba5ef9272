package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a metamodel, a model and the
// expected validation outcome.
type Scenario struct {
	// Name uniquely identifies this scenario; it also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Metamodel is the path to the metamodel YAML file, relative to the
	// scenario file.
	Metamodel string `yaml:"metamodel"`

	// Model is the path to the model YAML file, relative to the scenario
	// file.
	Model string `yaml:"model"`

	// Expect states the expected validation outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation is the expected outcome of a validation pass.
type Expectation struct {
	// Valid is the expected overall verdict.
	Valid bool `yaml:"valid"`

	// Issues lists issues that must be present in the result. Subset
	// match: unlisted issues are not an error, use Count to pin the total.
	Issues []IssueExpectation `yaml:"issues,omitempty"`

	// Count, when non-nil, is the exact expected number of issues.
	Count *int `yaml:"count,omitempty"`
}

// IssueExpectation identifies one expected issue.
type IssueExpectation struct {
	// Element is the expected element id. Empty matches any element.
	Element string `yaml:"element,omitempty"`

	// Constraint is the expected constraint name. Empty matches any.
	Constraint string `yaml:"constraint,omitempty"`

	// Contains is a substring the issue message must contain.
	Contains string `yaml:"contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly; metamodel and model paths are resolved
// relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Metamodel != "" && !filepath.IsAbs(scenario.Metamodel) {
		scenario.Metamodel = filepath.Join(base, scenario.Metamodel)
	}
	if scenario.Model != "" && !filepath.IsAbs(scenario.Model) {
		scenario.Model = filepath.Join(base, scenario.Model)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Metamodel == "" {
		return fmt.Errorf("metamodel is required")
	}
	if s.Model == "" {
		return fmt.Errorf("model is required")
	}
	for _, path := range []string{s.Metamodel, s.Model} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}
	if s.Expect.Count != nil && *s.Expect.Count < 0 {
		return fmt.Errorf("expect.count must be non-negative")
	}
	if s.Expect.Valid && (len(s.Expect.Issues) > 0 || (s.Expect.Count != nil && *s.Expect.Count > 0)) {
		return fmt.Errorf("expect.valid=true contradicts expected issues")
	}
	return nil
}
