package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrocom/uts/cmd/uts/cli"
	_ "github.com/petrocom/uts/testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "datasets", "add-user", "jobs"})

	jobsCmd, _, err := root.Find([]string{"jobs", "prune"})
	require.NoError(t, err)
	assert.Equal(t, "prune", jobsCmd.Name())
	assert.NotNil(t, jobsCmd.Flags().Lookup("days"))
}

func TestServeSkipsInTestMode(t *testing.T) {
	_, err := execute(t)
	assert.NoError(t, err)
	_, err = execute(t, "serve")
	assert.NoError(t, err)
}

func TestDatasetsCommandJSON(t *testing.T) {
	out, err := execute(t, "datasets", "--json")
	require.NoError(t, err)

	var rows []cli.DatasetSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.NotEmpty(t, rows)
}

func TestAddUserRequiresFlags(t *testing.T) {
	_, err := execute(t, "add-user", "--email", "a@b.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	out, err := execute(t, "add-user", "--email", "a@b.c", "--password", "long-enough", "--role", "PERSONNEL")
	require.NoError(t, err)
	assert.Contains(t, out, "'PERSONNEL'")

	_, err = execute(t, "add-user", "--email", "a@b.c", "--password", "long-enough", "--role", "astronaut")
	assert.ErrorIs(t, err, cli.ErrInvalidUser)
}

func TestUnknownCommandFails(t *testing.T) {
	_, err := execute(t, "frobnicate")
	assert.Error(t, err)
}
