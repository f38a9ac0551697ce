package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/constants"
	"github.com/roach88/clapeyron/internal/dataset"
)

// CheckResult holds the outcome of the check command.
type CheckResult struct {
	Valid      bool        `json:"valid"`
	Config     string      `json:"config,omitempty"`
	References []string    `json:"references"`
	Files      []FileCheck `json:"files,omitempty"`
}

// FileCheck describes one checked dataset file.
type FileCheck struct {
	Path         string   `json:"path"`
	Datasets     int      `json:"datasets"`
	Measurements int      `json:"measurements"`
	Errors       []string `json:"errors,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [dataset.yaml|dir ...]",
		Short: "Check config and dataset files without analysing",
		Long: `Check the configuration and dataset files without fitting anything.

The config is loaded and validated against its schema. Every dataset file is
decoded strictly and each measurement is converted to absolute units, so
unknown fields, unknown units and non-physical readings are all reported.
Every file is checked; errors are collected rather than stopping at the first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}
	result := CheckResult{Valid: true, Config: opts.Config, References: cfg.Compounds()}

	var files []string
	for _, p := range args {
		info, err := os.Stat(p)
		if err != nil {
			_ = formatter.Error(ErrCodeDataset, err.Error(), map[string]string{"path": p})
			return WrapExitError(ExitCommandError, "dataset path", err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := dataset.FindFiles(p)
		if err != nil {
			_ = formatter.Error(ErrCodeDataset, err.Error(), map[string]string{"path": p})
			return WrapExitError(ExitCommandError, "scanning dataset directory", err)
		}
		formatter.VerboseLog("Found %d dataset file(s) in %s", len(found), p)
		files = append(files, found...)
	}

	for _, f := range files {
		fc := checkFile(cfg, f)
		if len(fc.Errors) > 0 {
			result.Valid = false
		}
		result.Files = append(result.Files, fc)
	}

	if formatter.IsJSON() {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.Failure(ErrCodeDataset, "dataset check failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "dataset check failed")
	}

	w := formatter.Writer
	source := "defaults"
	if opts.Config != "" {
		source = opts.Config
	}
	fmt.Fprintf(w, "✓ config %s (%d reference compound(s))\n", source, len(result.References))
	for _, fc := range result.Files {
		if len(fc.Errors) == 0 {
			fmt.Fprintf(w, "✓ %s: %d dataset(s), %d measurement(s)\n", fc.Path, fc.Datasets, fc.Measurements)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", fc.Path)
		for _, e := range fc.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	if !result.Valid {
		return NewExitError(ExitFailure, "dataset check failed")
	}
	return nil
}

// checkFile decodes one file and converts every measurement, collecting all
// problems found.
func checkFile(cfg constants.Config, path string) FileCheck {
	fc := FileCheck{Path: path}
	datasets, err := dataset.LoadFile(path)
	if err != nil {
		fc.Errors = append(fc.Errors, err.Error())
		return fc
	}

	fc.Datasets = len(datasets)
	for _, ds := range datasets {
		conv := clapeyron.NewConverter(ds.Atmospheric(cfg))
		for i, m := range ds.Measurements {
			fc.Measurements++
			state, err := conv.Convert(m.Reading())
			if err == nil {
				_, err = clapeyron.LinearizeState(state)
			}
			if err != nil {
				fc.Errors = append(fc.Errors, fmt.Sprintf("%s: measurement %d: %v", ds.Compound, i, err))
			}
		}
	}
	return fc
}
