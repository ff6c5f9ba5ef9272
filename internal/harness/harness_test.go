package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenariosAgainstGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		file := file
		t.Run(filepath.Base(file), func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "expectation mismatches: %v", result.Errors)
		})
	}
}

func TestRunReportsExpectationMismatch(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/person-valid-age.yaml")
	require.NoError(t, err)

	// flip the expectation so the run must fail
	scenario.Expect = Expectation{Valid: true}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "expected valid=true")
}

func TestRunIssueSubsetMatch(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/person-valid-age.yaml")
	require.NoError(t, err)

	// wrong element id: the expected issue is missing
	scenario.Expect = Expectation{
		Valid:  false,
		Issues: []IssueExpectation{{Element: "p-adult", Constraint: "ValidAge"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "missing expected issue")
}
