package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/clapeyron"
)

// WriteSummary prints a human-readable summary of every result followed by
// a one-line tally.
func WriteSummary(w io.Writer, results []analysis.Result, minRSquared float64) error {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		writeResult(&b, r, minRSquared)
	}

	rv := NewRunView(results)
	fmt.Fprintf(&b, "\n%d compound(s): %d passed, %d failed validation, %d error(s)\n",
		len(results), rv.Passed, rv.Failed, rv.Errors)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeResult(b *strings.Builder, r analysis.Result, minRSquared float64) {
	fmt.Fprintf(b, "=== %s ===\n", DisplayName(r))
	line := func(label, format string, args ...any) {
		fmt.Fprintf(b, "%-12s%s\n", label+":", fmt.Sprintf(format, args...))
	}

	if r.RunID != "" {
		line("run", "%s", r.RunID)
	}
	if r.Trial != "" {
		line("trial", "%s", r.Trial)
	}
	line("points", "%d (%d rejected)", len(r.Points), len(r.Rejected))
	for _, rej := range r.Rejected {
		line("rejected", "#%d %s", rej.Index, rej.Reason)
	}
	if r.Err != nil {
		line("error", "%v", r.Err)
		return
	}

	reg := r.Regression
	line("fit", "%s", Equation(*reg))
	line("R²", "%.6f", reg.RSquared)
	if r.LowConfidence {
		line("warning", "low-confidence fit (R² %.6f < %.6f)", reg.RSquared, minRSquared)
	}

	est := r.Estimate
	ref := r.Reference
	if ref == nil {
		line("ΔvapH", "%.2f ± %.2f kJ/mol", est.Enthalpy/1000, est.EnthalpyStdErr/1000)
		line("ΔvapS", "%.2f ± %.2f J/(mol·K)", est.Entropy, est.EntropyStdErr)
	} else {
		dh, ds := deviations(r.Outcome)
		line("ΔvapH", "%.2f ± %.2f kJ/mol  (ref %.2f kJ/mol, deviation %s)",
			est.Enthalpy/1000, est.EnthalpyStdErr/1000, ref.Enthalpy/1000, percent(dh))
		line("ΔvapS", "%.2f ± %.2f J/(mol·K)  (ref %.2f J/(mol·K), deviation %s)",
			est.Entropy, est.EntropyStdErr, ref.Entropy, percent(ds))
	}

	if r.BoilingPoint > 0 {
		if ref != nil && ref.BoilingPoint > 0 {
			line("Tb", "%.2f K  (ref %.2f K)", r.BoilingPoint, ref.BoilingPoint)
		} else {
			line("Tb", "%.2f K", r.BoilingPoint)
		}
	}

	if r.Outcome == nil {
		line("validation", "skipped (no reference for %q)", r.Compound)
		return
	}
	line("validation", "%s (%s)", r.Outcome, r.Outcome.Tolerance)
}

func deviations(o *clapeyron.Outcome) (dh, ds clapeyron.Deviation) {
	if o == nil {
		return
	}
	for _, d := range o.Deviations {
		switch d.Quantity {
		case clapeyron.QuantityEnthalpy:
			dh = d
		case clapeyron.QuantityEntropy:
			ds = d
		}
	}
	return
}

func percent(d clapeyron.Deviation) string {
	return fmt.Sprintf("%.2f%%", d.Relative*100)
}
