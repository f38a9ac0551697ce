package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/constants"
	"github.com/roach88/clapeyron/internal/dataset"
	"github.com/roach88/clapeyron/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load the configuration (defaults when the scenario names none)
// 2. Load the datasets, or synthesise the mock ones
// 3. Analyse every dataset with sequential run ids and discarded logs
// 4. Evaluate the assertions against the per-compound results
//
// An error is returned only when the scenario cannot be executed; failed
// assertions are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	cfg := constants.Default()
	if scenario.Config != "" {
		loaded, err := constants.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if scenario.OnInvalid != "" {
		policy, err := constants.ParseInvalidPolicy(scenario.OnInvalid)
		if err != nil {
			return nil, err
		}
		cfg.OnInvalid = policy
	}

	var (
		datasets []dataset.Dataset
		err      error
	)
	if scenario.Mock {
		datasets, err = dataset.SynthesizeAll(cfg, nil)
	} else {
		datasets, err = dataset.LoadPaths(scenario.Datasets)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}

	analyzer := analysis.New(cfg,
		analysis.WithRunIDGenerator(testutil.NewSequentialRunIDs("")),
		analysis.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	result := NewResult()
	result.Analyses = analyzer.AnalyzeAll(context.Background(), datasets)
	result.MinRSquared = cfg.MinRSquared

	for _, msg := range EvaluateAssertions(result.Analyses, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
