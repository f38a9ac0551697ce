package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Mock(t *testing.T) {
	scenario := &Scenario{
		Name:        "mock",
		Description: "Mock datasets reproduce the references",
		Mock:        true,
		Assertions: []Assertion{
			{Type: AssertVerdict, Compound: "cyclohexane", Verdict: "pass"},
			{Type: AssertVerdict, Compound: "methanol", Verdict: "pass"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Analyses, 2)
	assert.Equal(t, "cyclohexane", result.Analyses[0].Compound)
	assert.Equal(t, "run-0001", result.Analyses[0].RunID)
	assert.Equal(t, "run-0002", result.Analyses[1].RunID)
	assert.InDelta(t, 0.99, result.MinRSquared, 1e-12)
}

func TestRun_FailingAssertions(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Assertions that cannot hold",
		Mock:        true,
		Assertions: []Assertion{
			{Type: AssertVerdict, Compound: "methanol", Verdict: "fail"},
			{Type: AssertEstimate, Compound: "methanol", Quantity: QuantityEnthalpy, Value: 40000},
			{Type: AssertVerdict, Compound: "water", Verdict: "pass"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "verdict (methanol)")
	assert.Contains(t, result.Errors[1], "estimate (methanol)")
	assert.Contains(t, result.Errors[2], "not analysed")
}

func TestRun_PolicyOverride(t *testing.T) {
	bench := filepath.Join("testdata", "datasets", "bench.yaml")

	tests := []struct {
		policy   string
		rejected int
		failed   bool
	}{
		{policy: "drop", rejected: 1, failed: false},
		{policy: "abort", rejected: 0, failed: true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			result, err := Run(&Scenario{
				Name:        "policy",
				Description: "on_invalid overrides the configuration",
				Datasets:    []string{bench},
				OnInvalid:   tt.policy,
				Assertions:  []Assertion{{Type: AssertRejected, Compound: "methanol", Count: tt.rejected}},
			})
			require.NoError(t, err)
			assert.True(t, result.Pass, result.Errors)
			require.Len(t, result.Analyses, 3)
			assert.Equal(t, tt.failed, result.Analyses[0].Failed())
			// The other compounds are unaffected by the policy.
			assert.True(t, result.Analyses[1].Failed())
			assert.False(t, result.Analyses[2].Failed())
		})
	}
}

func TestRun_WithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.cue")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
tolerance: {mode: "absolute", value: 10000}
min_r_squared: 0.5
`), 0644))

	result, err := Run(&Scenario{
		Name:        "config",
		Description: "A wide absolute tolerance",
		Config:      cfgPath,
		Datasets:    []string{filepath.Join("testdata", "datasets", "bench.yaml")},
		OnInvalid:   "drop",
		Assertions: []Assertion{
			{Type: AssertVerdict, Compound: "methanol", Verdict: "pass"},
			{Type: AssertLowConfidence, Compound: "acetone", Expect: boolPtr(false)},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.InDelta(t, 0.5, result.MinRSquared, 1e-12)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		scenario *Scenario
		wantErr  string
	}{
		{
			name:     "missing config",
			scenario: &Scenario{Config: "/nonexistent/config.cue", Mock: true},
			wantErr:  "failed to load config",
		},
		{
			name:     "bad policy",
			scenario: &Scenario{Mock: true, OnInvalid: "ignore"},
			wantErr:  "invalid policy",
		},
		{
			name:     "missing dataset",
			scenario: &Scenario{Datasets: []string{"/nonexistent/data.yaml"}},
			wantErr:  "failed to load datasets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(tt.scenario)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)
	assert.Empty(t, r.Errors)

	r.AddError("first")
	r.AddError("second")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"first", "second"}, r.Errors)
}
