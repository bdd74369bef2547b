package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waxworks/sidecut/pkg/config"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range NewRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"process", "status", "serve", "version"} {
		assert.True(t, names[want], "command %s not registered", want)
	}
}

func TestVersionShort(t *testing.T) {
	out, err := executeCommand(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "v"+Version+"\n", out)
}

func TestVersionFull(t *testing.T) {
	// flag values persist on the shared command instance across executions
	out, err := executeCommand(t, "version", "--short=false")
	require.NoError(t, err)
	assert.Contains(t, out, "sidecut")
	assert.Contains(t, out, "Version:")
	assert.Contains(t, out, "Go Version:")
}

func TestStatusListsDiscoveredFolders(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	lib := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "Band - Album"), 0755))
	t.Setenv("SIDECUT_LIBRARY_PATH", lib)
	t.Setenv("SIDECUT_DATABASE_PATH", filepath.Join(t.TempDir(), "state.db"))

	out, err := executeCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Band - Album")
	assert.Contains(t, out, "raw")
}
