package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["validate"])
	assert.True(t, names["syntax"])
	assert.True(t, names["constraints"])
}

func TestRootCommandRejectsInvalidFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--format", "xml", "validate",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--model", "testdata/person-adults.yaml",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommandValidateThroughRoot(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"validate",
		"--metamodel", "testdata/person-metamodel.yaml",
		"--model", "testdata/person-adults.yaml",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Result: VALID")
}
