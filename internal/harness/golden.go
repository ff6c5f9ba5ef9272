package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// reportSnapshot is the canonical JSON shape of a scenario report.
type reportSnapshot struct {
	Scenario string                      `json:"scenario"`
	Valid    bool                        `json:"valid"`
	Issues   []metamodel.ValidationIssue `json:"issues"`
}

// RunWithGolden executes a scenario and compares its validation report
// against testdata/golden/{scenario.Name}.golden. Regenerate golden files
// with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	snapshot := reportSnapshot{
		Scenario: scenario.Name,
		Valid:    result.Report.Valid,
		Issues:   result.Report.Issues,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}
