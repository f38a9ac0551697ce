package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferencesText(t *testing.T) {
	stdout, _, err := executeRoot(t, "references")
	require.NoError(t, err)

	assert.Contains(t, stdout, "R = 8.314 J/(mol·K), tolerance relative 5%")
	lines := nonEmptyLines(stdout)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "cyclohexane")
	assert.Contains(t, lines[2], "32.00")
	assert.Contains(t, lines[2], "353.9")
	assert.Contains(t, lines[3], "Methanol")
	assert.Contains(t, lines[3], "110.70")
}

func TestReferencesJSONWithConfig(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "lab.cue", `
include_defaults: false
reference: water: {name: "Water", dh_vap: 40650, ds_vap: 109}
`)

	stdout, _, err := executeRoot(t, "--config", cfg, "--format", "json", "references")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ReferencesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 8.314, resp.Data.GasConstant)
	require.Len(t, resp.Data.References, 1)
	assert.Equal(t, "water", resp.Data.References[0].ID)
	assert.Equal(t, "Water", resp.Data.References[0].Name)
	assert.Equal(t, 40650.0, resp.Data.References[0].Enthalpy)
}

func TestReferencesRejectsArgs(t *testing.T) {
	_, _, err := executeRoot(t, "references", "extra")
	require.Error(t, err)
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
