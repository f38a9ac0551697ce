package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handDatasetYAML is cyclohexane measured at 300, 310 and 320 K. Its fit
// gives ΔvapH ≈ 25.3 kJ/mol, well outside 5% of the 32 kJ/mol reference.
const handDatasetYAML = `
datasets:
  - compound: cyclohexane
    trial: bench-1
    temperature_scale: kelvin
    pressure_unit: Pa
    measurements:
      - {temperature: 300, pressure: -88325}
      - {temperature: 310, pressure: -83325}
      - {temperature: 320, pressure: -76825}
`

const mixedDatasetYAML = `
datasets:
  - compound: benzene
    temperature_scale: kelvin
    measurements:
      - {temperature: 300, pressure: -88325}
      - {temperature: 300, pressure: -87325}
  - compound: methanol
    temperature_scale: celsius
    measurements:
      - {temperature: 20, pressure: -88021.137}
      - {temperature: 30, pressure: -79254.43}
      - {temperature: 40, pressure: -65875.58}
      - {temperature: 50, pressure: -200000}
`

type analyzeResponse struct {
	Status string        `json:"status"`
	Data   AnalyzeOutput `json:"data"`
	Error  *CLIError     `json:"error"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func executeRoot(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeMockDatasets(t *testing.T) {
	plot := filepath.Join(t.TempDir(), "plot.png")

	stdout, stderr, err := executeRoot(t, "analyze", "--plot", plot)
	require.NoError(t, err)

	assert.Contains(t, stdout, "=== Cyclohexane ===")
	assert.Contains(t, stdout, "=== Methanol ===")
	assert.Contains(t, stdout, "ΔvapH:      32.00")
	assert.Contains(t, stdout, "validation: pass (relative 5%)")
	assert.Contains(t, stdout, "2 compound(s): 2 passed, 0 failed validation, 0 error(s)")
	assert.Contains(t, stdout, "plot: "+plot)
	assert.Contains(t, stderr, "verdict=pass")

	info, err := os.Stat(plot)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestAnalyzeJSON(t *testing.T) {
	stdout, _, err := executeRoot(t, "--format", "json", "analyze", "--plot", "")
	require.NoError(t, err)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Empty(t, resp.Data.Plot)
	assert.Equal(t, 2, resp.Data.Passed)
	require.Len(t, resp.Data.Results, 2)

	first := resp.Data.Results[0]
	assert.Equal(t, "cyclohexane", first.Compound)
	assert.Len(t, first.RunID, 36)
	require.NotNil(t, first.Estimate)
	assert.InEpsilon(t, 32000, first.Estimate.Enthalpy, 1e-6)
	require.NotNil(t, first.BoilingPoint)
	assert.InDelta(t, 353.98, *first.BoilingPoint, 0.01)
}

func TestAnalyzeValidationFailureIsNotAnError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hand.yaml", handDatasetYAML)

	stdout, _, err := executeRoot(t, "analyze", "--plot", "", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "trial:      bench-1")
	assert.Contains(t, stdout, "validation: fail (dH_vap, dS_vap) (relative 5%)")

	_, _, err = executeRoot(t, "analyze", "--plot", "", "--strict", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 compound(s) failed validation")
}

func TestAnalyzeStrictJSONCarriesResults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hand.yaml", handDatasetYAML)

	stdout, _, err := executeRoot(t, "--format", "json", "analyze", "--plot", "", "--strict", path)
	require.Error(t, err)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Results, 1)
	assert.Equal(t, "fail", string(resp.Data.Results[0].Validation.Verdict))
}

func TestAnalyzeIsolatesCompoundErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mixed.yaml", mixedDatasetYAML)

	t.Run("abort", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "analyze", "--plot", "", path)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, err.Error(), "2 compound(s) could not be analysed")
		assert.Contains(t, stdout, "DEGENERATE_FIT")
		assert.Contains(t, stdout, "INVALID_MEASUREMENT")
	})

	t.Run("drop", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "analyze", "--plot", "", "--on-invalid", "drop", path)
		require.Error(t, err, "benzene is still degenerate")
		assert.Contains(t, err.Error(), "1 compound(s) could not be analysed")
		assert.Contains(t, stdout, "rejected:   #3")
		assert.Contains(t, stdout, "=== Methanol ===")
		assert.Contains(t, stdout, "validation: pass (relative 5%)")
	})
}

func TestAnalyzeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	badConfig := writeFile(t, dir, "bad.cue", "gas_constant: -8.314\n")
	typo := writeFile(t, dir, "typo.yaml", "datasets:\n  - compund: x\n")

	tests := []struct {
		name    string
		args    []string
		wantOut string
	}{
		{"missing dataset", []string{"analyze", filepath.Join(dir, "missing.yaml")}, "Error [E301]"},
		{"unknown field", []string{"analyze", typo}, "compund"},
		{"bad policy", []string{"analyze", "--on-invalid", "skip"}, "Error [E303]"},
		{"bad config", []string{"--config", badConfig, "analyze"}, "Error [E006]"},
		{"missing config", []string{"--config", filepath.Join(dir, "none.cue"), "analyze"}, "Error [E005]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeRoot(t, append(tt.args, "--plot", "")...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, tt.wantOut)
		})
	}
}

func TestAnalyzeWithConfigTolerance(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hand.yaml", handDatasetYAML)
	cfg := writeFile(t, dir, "loose.cue", `tolerance: {mode: "absolute", value: 10000}`+"\n")

	stdout, _, err := executeRoot(t, "--config", cfg, "analyze", "--plot", "", "--strict", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "validation: pass (absolute 10000)")
}
