package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/clapeyron/internal/constants"
	"github.com/roach88/clapeyron/internal/dataset"
)

// MockOptions holds flags for the mock command.
type MockOptions struct {
	*RootOptions
	Temperatures []float64
	Output       string
}

// MockResult is the JSON payload of the mock command when writing a file.
type MockResult struct {
	Path         string `json:"path"`
	Compound     string `json:"compound"`
	Measurements int    `json:"measurements"`
}

// NewMockCommand creates the mock command.
func NewMockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mock <compound>",
		Short: "Write a synthetic dataset for a reference compound",
		Long: `Generate a noise-free dataset whose vapour pressures follow the compound's
reference ΔvapH and ΔvapS exactly, written as transducer readings relative to
the configured atmospheric pressure.

Analysing the output must recover the reference values, so it doubles as a
template for real measurement files.

Example:
  clapeyron mock cyclohexane
  clapeyron mock methanol --temps 25,35,45 --output methanol.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMock(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.Temperatures, "temps", dataset.DefaultMockTemperatures, "bath temperatures in °C")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file (- for stdout)")

	return cmd
}

func runMock(opts *MockOptions, compound string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(opts.RootOptions, formatter)
	if err != nil {
		return err
	}

	ref, err := cfg.Reference(compound)
	if err != nil {
		details := map[string]string{"known": strings.Join(cfg.Compounds(), ", ")}
		_ = formatter.Error(ErrCodeCompound, err.Error(), details)
		if errors.Is(err, constants.ErrUnknownCompound) {
			return WrapExitError(ExitCommandError, "unknown compound", err)
		}
		return WrapExitError(ExitCommandError, "reference lookup failed", err)
	}

	ds, err := dataset.Synthesize(constants.CompoundKey(compound), ref, opts.Temperatures, cfg)
	if err != nil {
		_ = formatter.Error(ErrCodeFlag, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to synthesise dataset", err)
	}

	var buf bytes.Buffer
	if err := dataset.Encode(&buf, []dataset.Dataset{ds}); err != nil {
		return WrapExitError(ExitCommandError, "failed to encode dataset", err)
	}

	if opts.Output == "-" {
		if formatter.IsJSON() {
			return formatter.Success(ds)
		}
		_, err := formatter.Writer.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		_ = formatter.Error(ErrCodeDataset, err.Error(), map[string]string{"path": opts.Output})
		return WrapExitError(ExitCommandError, "failed to write dataset", err)
	}
	formatter.VerboseLog("Wrote %d measurement(s) for %s", len(ds.Measurements), ds.Compound)

	result := MockResult{Path: opts.Output, Compound: ds.Compound, Measurements: len(ds.Measurements)}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ wrote %s (%s, %d measurement(s))\n", result.Path, result.Compound, result.Measurements)
	return nil
}
