package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/clapeyron/internal/constants"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional CUE config file or directory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the clapeyron CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "clapeyron",
		Short: "Clausius-Clapeyron vaporization analysis",
		Long: `Estimate the enthalpy and entropy of vaporization of pure liquids from
vapour-pressure measurements.

Each dataset is converted to absolute units, linearised as ln(P) against 1/T,
fitted by least squares, and the resulting ΔvapH and ΔvapS are checked against
literature reference values.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "CUE configuration file or directory")

	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewMockCommand(opts))
	cmd.AddCommand(NewReferencesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the output formatter for a command. Diagnostics go to
// stderr so JSON on stdout stays parseable.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// setupLogging installs a text slog handler on w as the default logger.
// Debug records are only emitted with --verbose.
func setupLogging(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig returns the defaults, or the --config file merged over them.
// Failures are reported through the formatter and mapped to exit code 2.
func loadConfig(opts *RootOptions, formatter *OutputFormatter) (constants.Config, error) {
	if opts.Config == "" {
		return constants.Default(), nil
	}
	cfg, err := constants.Load(opts.Config)
	if err != nil {
		code := constants.ErrCodeGeneric
		var loadErr *constants.LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, err.Error(), nil)
		return constants.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	formatter.VerboseLog("Loaded config from %s (%d reference compound(s))", opts.Config, len(cfg.Compounds()))
	return cfg, nil
}
