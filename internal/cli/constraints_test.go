package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

func runConstraints(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewConstraintsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConstraintsAddListRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "constraints.db")

	out, err := runConstraints(t, "json", "add",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"--context", "Person",
		"--name", "NamedPerson",
		"--expression", "self.name.size() > 0",
	)
	require.NoError(t, err)

	var addResp struct {
		Status string               `json:"status"`
		Data   metamodel.Constraint `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &addResp))
	assert.Equal(t, "ok", addResp.Status)
	assert.True(t, addResp.Data.IsValid)
	assert.NotEmpty(t, addResp.Data.ID)

	out, err = runConstraints(t, "text", "list",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
	)
	require.NoError(t, err)
	// the metamodel's inline constraint plus the stored one
	assert.Contains(t, out, "ValidAge")
	assert.Contains(t, out, "NamedPerson")

	out, err = runConstraints(t, "text", "remove",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		addResp.Data.ID,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted constraint")

	out, err = runConstraints(t, "text", "list",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
	)
	require.NoError(t, err)
	assert.NotContains(t, out, "NamedPerson")
}

func TestConstraintsAddInvalidExpressionStored(t *testing.T) {
	db := filepath.Join(t.TempDir(), "constraints.db")

	out, err := runConstraints(t, "text", "add",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"--context", "Person",
		"--name", "Broken",
		"--expression", "self.age >=",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "invalid expression")

	out, err = runConstraints(t, "text", "list",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
	)
	require.NoError(t, err)
	line := findLine(out, "Broken")
	require.NotEmpty(t, line)
	assert.Contains(t, line, "invalid")
}

func TestConstraintsListForContextIncludesInherited(t *testing.T) {
	db := filepath.Join(t.TempDir(), "constraints.db")

	_, err := runConstraints(t, "text", "add",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"--context", "Employee",
		"--name", "EmployeeOnly",
		"--expression", "self.age >= 16",
	)
	require.NoError(t, err)

	out, err := runConstraints(t, "text", "list",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"--context", "Employee",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "EmployeeOnly")
	assert.Contains(t, out, "ValidAge", "inherited from Person")

	out, err = runConstraints(t, "text", "list",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"--context", "Person",
	)
	require.NoError(t, err)
	assert.NotContains(t, out, "EmployeeOnly")
}

func TestConstraintsRemoveMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "constraints.db")

	out, err := runConstraints(t, "text", "remove",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--db", db,
		"ghost-id",
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "not found")
}

func findLine(out, substr string) string {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}
