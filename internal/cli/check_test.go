package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckValidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", handDatasetYAML)
	writeFile(t, dir, "notes.txt", "not a dataset")

	stdout, _, err := executeRoot(t, "check", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ config defaults (2 reference compound(s))")
	assert.Contains(t, stdout, "a.yaml: 1 dataset(s), 3 measurement(s)")
	assert.NotContains(t, stdout, "notes.txt")
}

func TestCheckWithoutDatasets(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "lab.cue", "reference: water: {dh_vap: 40650, ds_vap: 109}\n")

	stdout, _, err := executeRoot(t, "--config", cfg, "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(3 reference compound(s))")
}

func TestCheckCollectsAllErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", handDatasetYAML)
	mixed := writeFile(t, dir, "mixed.yaml", mixedDatasetYAML)
	typo := writeFile(t, dir, "typo.yaml", "datasets:\n  - compund: x\n")

	stdout, _, err := executeRoot(t, "check", good, mixed, typo)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "✓ "+good)
	assert.Contains(t, stdout, "✗ "+mixed)
	assert.Contains(t, stdout, "methanol: measurement 3: INVALID_MEASUREMENT")
	assert.Contains(t, stdout, "✗ "+typo)
	assert.Contains(t, stdout, "field compund not found")
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	mixed := writeFile(t, dir, "mixed.yaml", mixedDatasetYAML)

	stdout, _, err := executeRoot(t, "--format", "json", "check", mixed)
	require.Error(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
		Error  *CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, []string{"cyclohexane", "methanol"}, resp.Data.References)
	require.Len(t, resp.Data.Files, 1)
	assert.Equal(t, 2, resp.Data.Files[0].Datasets)
	assert.Equal(t, 6, resp.Data.Files[0].Measurements)
	assert.Len(t, resp.Data.Files[0].Errors, 1)
}

func TestCheckMissingPath(t *testing.T) {
	stdout, _, err := executeRoot(t, "check", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E301]")
}
