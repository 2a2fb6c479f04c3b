package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSetupPreviewRows(t *testing.T) {
	rowsFlag := checkCmd.Flags().Lookup("rows")
	require.NotNil(t, rowsFlag)
	t.Cleanup(func() {
		rowsFlag.Changed = false
		previewN = 5
		configFile = "./config/config.yaml"
	})

	configFile = writeConfig(t, "data:\n  preview_rows: 3\n")

	require.NoError(t, setup(checkCmd))
	assert.Equal(t, 3, previewN, "configured value applies when --rows is not given")

	require.NoError(t, checkCmd.Flags().Set("rows", "8"))
	require.NoError(t, setup(checkCmd))
	assert.Equal(t, 8, previewN, "--rows overrides the configured value")
}

func TestSetupPreviewRowsDefault(t *testing.T) {
	t.Cleanup(func() {
		previewN = 5
		configFile = "./config/config.yaml"
	})

	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	previewN = 0

	require.NoError(t, setup(checkCmd))
	assert.Equal(t, 5, previewN)
}
