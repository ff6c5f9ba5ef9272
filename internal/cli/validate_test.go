package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func TestValidateValidModel(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--metamodel", "testdata/person-metamodel.yaml",
		"--model", "testdata/person-adults.yaml",
	})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Result: VALID")
}

func TestValidateInvalidModelExitCodeAndReport(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--metamodel", "testdata/person-metamodel.yaml",
		"--model", "testdata/person-mixed.yaml",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "validate-report", buf.Bytes())
}

func TestValidateJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--metamodel", "testdata/person-metamodel.yaml",
		"--model", "testdata/person-mixed.yaml",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string                     `json:"status"`
		Data   metamodel.ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Issues, 1)
	assert.Equal(t, "p-child", resp.Data.Issues[0].ElementID)
}

func TestValidateMissingMetamodelFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--metamodel", "testdata/ghost.yaml",
		"--model", "testdata/person-mixed.yaml",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "failed to load metamodel")
}
