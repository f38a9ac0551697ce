package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/constants"
	"github.com/roach88/clapeyron/internal/dataset"
	"github.com/roach88/clapeyron/internal/report"
)

// DefaultPlotPath is where analyze writes its diagnostic plot.
const DefaultPlotPath = "vaporization_plot.png"

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Plot      string
	OnInvalid string
	Strict    bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to analysis.UUIDv7Generator.
	RunIDs analysis.RunIDGenerator
}

// AnalyzeOutput is the JSON payload of the analyze command.
type AnalyzeOutput struct {
	report.RunView
	Plot string `json:"plot,omitempty"`
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze [dataset.yaml|dir ...]",
		Short: "Fit datasets and validate ΔvapH/ΔvapS",
		Long: `Analyse vapour-pressure datasets with the Clausius-Clapeyron relation.

Every dataset is fitted independently: a compound that cannot be analysed is
reported and the rest still run. With no arguments a mock dataset is generated
for every reference compound, which checks the pipeline end to end.

Exit codes:
  0  all compounds analysed
  1  a compound could not be analysed (or failed validation with --strict)
  2  bad arguments, unreadable datasets or config

Example:
  clapeyron analyze
  clapeyron analyze data/cyclohexane.yaml data/methanol.yaml
  clapeyron analyze --on-invalid drop --plot out.png ./data
  clapeyron analyze --format json --plot "" ./data`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plot, "plot", DefaultPlotPath, "PNG plot path (empty disables the plot)")
	cmd.Flags().StringVar(&opts.OnInvalid, "on-invalid", "", "invalid measurement policy (abort|drop), overrides config")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when any compound fails validation")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := setupLogging(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	if opts.OnInvalid != "" {
		policy, err := constants.ParseInvalidPolicy(opts.OnInvalid)
		if err != nil {
			_ = formatter.Error(ErrCodeFlag, err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid --on-invalid", err)
		}
		cfg.OnInvalid = policy
	}

	datasets, err := loadDatasets(cfg, args, formatter)
	if err != nil {
		return err
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := analysis.New(cfg,
		analysis.WithLogger(logger),
		analysis.WithRunIDGenerator(opts.RunIDs),
	)
	results := analyzer.AnalyzeAll(ctx, datasets)

	out := AnalyzeOutput{RunView: report.NewRunView(results)}
	if opts.Plot != "" {
		switch err := report.SavePNG(opts.Plot, results, report.DefaultPlotOptions()); {
		case err == nil:
			out.Plot = opts.Plot
			logger.Info("plot written", "path", opts.Plot)
		case errors.Is(err, report.ErrNothingToPlot):
			logger.Warn("plot skipped", "reason", err)
		default:
			_ = formatter.Error(ErrCodePlot, err.Error(), map[string]string{"path": opts.Plot})
			return WrapExitError(ExitCommandError, "failed to write plot", err)
		}
	}

	code, message := analyzeVerdict(out.RunView, opts.Strict)
	if formatter.IsJSON() {
		if code == "" {
			return formatter.Success(out)
		}
		if err := formatter.Failure(code, message, out); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}

	if err := report.WriteSummary(formatter.Writer, results, cfg.MinRSquared); err != nil {
		return err
	}
	if out.Plot != "" {
		fmt.Fprintf(formatter.Writer, "plot: %s\n", out.Plot)
	}
	if code != "" {
		return NewExitError(ExitFailure, message)
	}
	return nil
}

// loadDatasets reads the dataset paths, or synthesises one mock dataset per
// reference compound when none are given.
func loadDatasets(cfg constants.Config, paths []string, formatter *OutputFormatter) ([]dataset.Dataset, error) {
	if len(paths) == 0 {
		datasets, err := dataset.SynthesizeAll(cfg, nil)
		if err != nil {
			_ = formatter.Error(ErrCodeDataset, err.Error(), nil)
			return nil, WrapExitError(ExitCommandError, "failed to synthesise mock datasets", err)
		}
		formatter.VerboseLog("No datasets given; analysing mock data for %d reference compound(s)", len(datasets))
		return datasets, nil
	}

	datasets, err := dataset.LoadPaths(paths)
	if err != nil {
		_ = formatter.Error(ErrCodeDataset, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to load datasets", err)
	}
	formatter.VerboseLog("Loaded %d dataset(s) from %d path(s)", len(datasets), len(paths))
	return datasets, nil
}

// analyzeVerdict returns the CLI error code and message for a run, or an
// empty code when the run succeeded.
func analyzeVerdict(rv report.RunView, strict bool) (string, string) {
	switch {
	case rv.Errors > 0:
		return ErrCodeAnalysis, fmt.Sprintf("%d compound(s) could not be analysed", rv.Errors)
	case strict && rv.Failed > 0:
		return ErrCodeValidation, fmt.Sprintf("%d compound(s) failed validation", rv.Failed)
	default:
		return "", ""
	}
}
