package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/clapeyron/internal/clapeyron"
)

// ReferenceEntry is one row of the references command output.
type ReferenceEntry struct {
	ID string `json:"id"`
	clapeyron.ReferenceRecord
}

// ReferencesResult is the JSON payload of the references command.
type ReferencesResult struct {
	GasConstant      float64             `json:"gas_constant"`
	StandardPressure float64             `json:"standard_pressure"`
	Tolerance        clapeyron.Tolerance `json:"tolerance"`
	References       []ReferenceEntry    `json:"references"`
}

// NewReferencesCommand creates the references command.
func NewReferencesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "references",
		Short: "List the configured reference compounds",
		Long: `List the literature reference values analyses are validated against,
together with the gas constant and validation tolerance in effect.

Use --config to see the table a configuration file produces.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReferences(rootOpts, cmd)
		},
	}
}

func runReferences(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts, formatter)
	if err != nil {
		return err
	}

	result := ReferencesResult{
		GasConstant:      cfg.GasConstant,
		StandardPressure: cfg.StandardPressure,
		Tolerance:        cfg.Tolerance.Normalize(),
	}
	for _, id := range cfg.Compounds() {
		ref, err := cfg.Reference(id)
		if err != nil {
			return err
		}
		result.References = append(result.References, ReferenceEntry{ID: id, ReferenceRecord: ref})
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "R = %g J/(mol·K), tolerance %s\n\n", result.GasConstant, result.Tolerance)
	fmt.Fprintf(w, "%-14s %-14s %12s %16s %8s\n", "ID", "NAME", "ΔvapH kJ/mol", "ΔvapS J/(mol·K)", "Tb K")
	for _, e := range result.References {
		tb := "-"
		if e.BoilingPoint > 0 {
			tb = fmt.Sprintf("%.1f", e.BoilingPoint)
		}
		fmt.Fprintf(w, "%-14s %-14s %12.2f %16.2f %8s\n", e.ID, e.Name, e.Enthalpy/1000, e.Entropy, tb)
	}
	return nil
}
