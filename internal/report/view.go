package report

import (
	"fmt"
	"math"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/clapeyron"
)

// ResultView is the JSON form of an analysis result. Non-finite numbers
// (a relative deviation against a zero reference) are emitted as null.
type ResultView struct {
	RunID         string                           `json:"run_id,omitempty"`
	Compound      string                           `json:"compound"`
	Name          string                           `json:"name"`
	Trial         string                           `json:"trial,omitempty"`
	Points        int                              `json:"points"`
	Rejected      []analysis.Rejection             `json:"rejected,omitempty"`
	Equation      string                           `json:"equation,omitempty"`
	Regression    *clapeyron.RegressionResult      `json:"regression,omitempty"`
	Estimate      *clapeyron.ThermodynamicEstimate `json:"estimate,omitempty"`
	BoilingPoint  *float64                         `json:"boiling_point,omitempty"`
	Reference     *clapeyron.ReferenceRecord       `json:"reference,omitempty"`
	Validation    *OutcomeView                     `json:"validation,omitempty"`
	LowConfidence bool                             `json:"low_confidence"`
	Error         *ErrorView                       `json:"error,omitempty"`
}

// OutcomeView is the JSON form of a validation outcome.
type OutcomeView struct {
	Verdict    clapeyron.Verdict    `json:"verdict"`
	Tolerance  clapeyron.Tolerance  `json:"tolerance"`
	Deviations []DeviationView      `json:"deviations"`
	Failed     []clapeyron.Quantity `json:"failed,omitempty"`
}

// DeviationView is the JSON form of a single deviation.
type DeviationView struct {
	Quantity  clapeyron.Quantity `json:"quantity"`
	Estimate  float64            `json:"estimate"`
	Reference float64            `json:"reference"`
	Absolute  *float64           `json:"absolute"`
	Relative  *float64           `json:"relative"`
	Within    bool               `json:"within"`
}

// ErrorView describes why a compound could not be analysed.
type ErrorView struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// RunView is the JSON payload of the analyze command.
type RunView struct {
	Results []ResultView `json:"results"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Errors  int          `json:"errors"`
}

// NewRunView summarises a set of results.
func NewRunView(results []analysis.Result) RunView {
	rv := RunView{Results: make([]ResultView, 0, len(results))}
	for _, r := range results {
		rv.Results = append(rv.Results, NewResultView(r))
		switch {
		case r.Failed():
			rv.Errors++
		case r.Outcome == nil:
		case r.Outcome.Passed():
			rv.Passed++
		default:
			rv.Failed++
		}
	}
	return rv
}

// NewResultView converts a Result into its JSON form.
func NewResultView(r analysis.Result) ResultView {
	v := ResultView{
		RunID:         r.RunID,
		Compound:      r.Compound,
		Name:          DisplayName(r),
		Trial:         r.Trial,
		Points:        len(r.Points),
		Rejected:      r.Rejected,
		Regression:    r.Regression,
		Estimate:      r.Estimate,
		Reference:     r.Reference,
		LowConfidence: r.LowConfidence,
	}
	if r.Regression != nil {
		v.Equation = Equation(*r.Regression)
	}
	if r.BoilingPoint > 0 {
		tb := r.BoilingPoint
		v.BoilingPoint = &tb
	}
	if r.Outcome != nil {
		ov := &OutcomeView{
			Verdict:   r.Outcome.Verdict,
			Tolerance: r.Outcome.Tolerance,
			Failed:    r.Outcome.Failed,
		}
		for _, d := range r.Outcome.Deviations {
			ov.Deviations = append(ov.Deviations, DeviationView{
				Quantity:  d.Quantity,
				Estimate:  d.Estimate,
				Reference: d.Reference,
				Absolute:  finite(d.Absolute),
				Relative:  finite(d.Relative),
				Within:    d.Within,
			})
		}
		v.Validation = ov
	}
	if r.Err != nil {
		v.Error = &ErrorView{Code: string(clapeyron.CodeOf(r.Err)), Message: r.Err.Error()}
	}
	return v
}

// DisplayName is the reference name when known, else the compound id.
func DisplayName(r analysis.Result) string {
	if r.Reference != nil && r.Reference.Name != "" {
		return r.Reference.Name
	}
	return r.Compound
}

// Equation renders the fitted trendline in scientific notation,
// e.g. "y = -3.8489e+03x + 2.4396e+01".
func Equation(reg clapeyron.RegressionResult) string {
	sign := "+"
	b := reg.Intercept
	if b < 0 {
		sign, b = "-", -b
	}
	return fmt.Sprintf("y = %.4ex %s %.4e", reg.Slope, sign, b)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
