package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockScenarioYAML = `
name: mock_pass
description: Mock data passes validation
mock: true
assertions:
  - {type: verdict, compound: cyclohexane, verdict: pass}
  - {type: verdict, compound: methanol, verdict: pass}
`

const failingScenarioYAML = `
name: mock_fail
description: An assertion that cannot hold
mock: true
assertions:
  - {type: verdict, compound: methanol, verdict: fail}
`

type testResponse struct {
	Status string     `json:"status"`
	Data   TestResult `json:"data"`
	Error  *CLIError  `json:"error"`
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := executeRoot(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	stdout, _, err := executeRoot(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	stdout, _, err := executeRoot(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	stdout, _, err := executeRoot(t, "--format", "json", "test", t.TempDir())
	require.NoError(t, err)

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	stdout, _, err := executeRoot(t, "test", dir)
	require.NoError(t, err, stdout)

	assert.Contains(t, stdout, "✓ bench_abort")
	assert.Contains(t, stdout, "✓ bench_drop")
	assert.Contains(t, stdout, "✓ mock_references")
	assert.Contains(t, stdout, "Test Summary: 3 passed, 0 failed, 3 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommandHarnessGoldenDir(t *testing.T) {
	scenarios := filepath.Join("..", "harness", "testdata", "scenarios")
	golden := filepath.Join("..", "harness", "testdata", "golden")

	stdout, _, err := executeRoot(t, "--format", "json", "test", scenarios, "--golden-dir", golden)
	require.NoError(t, err, stdout)

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Scenarios, 3)
	for _, sc := range resp.Data.Scenarios {
		assert.True(t, sc.Pass, "%s: %v", sc.Name, sc.Errors)
		assert.Equal(t, "match", sc.Golden, sc.Name)
	}
}

func TestTestCommandDefaultGoldenDirMissing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mock.yaml", mockScenarioYAML)

	stdout, _, err := executeRoot(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ mock_pass (no golden file)")
}

func TestTestCommandExplicitGoldenDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mock.yaml", mockScenarioYAML)
	goldenDir := filepath.Join(t.TempDir(), "golden")

	stdout, _, err := executeRoot(t, "test", dir, "--golden-dir", goldenDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ mock_pass")
	assert.Contains(t, stdout, "golden file not found")

	// --update creates it in the chosen directory, after which the run passes.
	_, _, err = executeRoot(t, "test", dir, "--golden-dir", goldenDir, "--update")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(goldenDir, "mock_pass.golden"))
	require.NoError(t, err)

	_, _, err = executeRoot(t, "test", dir, "--golden-dir", goldenDir)
	require.NoError(t, err)
}

func TestTestCommandFilter(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	stdout, _, err := executeRoot(t, "test", dir, "--filter", "bench_*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.NotContains(t, stdout, "mock_references")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mock.yaml", mockScenarioYAML)

	_, _, err := executeRoot(t, "test", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", mockScenarioYAML)
	writeFile(t, dir, "fail.yaml", failingScenarioYAML)

	stdout, _, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "✓ mock_pass")
	assert.Contains(t, stdout, "✗ mock_fail")
	assert.Contains(t, stdout, "  Assertion failed: verdict (methanol)")
	assert.Contains(t, stdout, "    Expected: verdict fail")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFailingScenarioJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fail.yaml", failingScenarioYAML)

	stdout, _, err := executeRoot(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenario, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "mock_fail", resp.Data.Scenarios[0].Name)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommandInvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	stdout, _, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommandGoldenLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mock.yaml", mockScenarioYAML)
	goldenPath := filepath.Join(dir, "golden", "mock_pass.golden")

	// --update writes the golden file.
	stdout, _, err := executeRoot(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ mock_pass (golden updated)")

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), "=== Cyclohexane ===")
	assert.Contains(t, string(golden), "2 compound(s): 2 passed, 0 failed validation, 0 error(s)")

	// A second run matches it.
	stdout, _, err = executeRoot(t, "--format", "json", "test", dir)
	require.NoError(t, err)
	var resp testResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "match", resp.Data.Scenarios[0].Golden)

	// A drifted golden file fails the scenario.
	require.NoError(t, os.WriteFile(goldenPath, []byte("stale\n"), 0644))
	stdout, _, err = executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "summary does not match golden file")
}
