package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/constants"
)

// AssertionError is returned when an assertion fails.
// It includes the compound's outcome to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Compound string
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (%s)\n", e.Type, e.Compound)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages, in assertion order. All assertions are evaluated.
func EvaluateAssertions(results []analysis.Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(results, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(results []analysis.Result, a Assertion) error {
	res, ok := findResult(results, a.Compound)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Compound: a.Compound,
			Expected: "a result for the compound",
			Actual:   fmt.Sprintf("not analysed (have %s)", compoundList(results)),
		}
	}

	switch a.Type {
	case AssertVerdict:
		return assertVerdict(res, a)
	case AssertError:
		return assertError(res, a)
	case AssertEstimate:
		return assertEstimate(res, a)
	case AssertRejected:
		return assertRejected(res, a)
	case AssertLowConfidence:
		return assertLowConfidence(res, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// findResult returns the first result whose compound matches id.
func findResult(results []analysis.Result, id string) (analysis.Result, bool) {
	key := constants.CompoundKey(id)
	for _, r := range results {
		if constants.CompoundKey(r.Compound) == key {
			return r, true
		}
	}
	return analysis.Result{}, false
}

func compoundList(results []analysis.Result) string {
	if len(results) == 0 {
		return "none"
	}
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Compound
	}
	return strings.Join(ids, ", ")
}

// describe summarises a result for failure messages.
func describe(r analysis.Result) string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("error %v", r.Err)
	case r.Outcome == nil:
		return "analysed without reference"
	default:
		return fmt.Sprintf("verdict %s", r.Outcome)
	}
}

func assertVerdict(r analysis.Result, a Assertion) error {
	var got string
	switch {
	case r.Err != nil:
	case r.Outcome == nil:
		got = VerdictNone
	default:
		got = string(r.Outcome.Verdict)
	}
	if got == a.Verdict {
		return nil
	}
	return &AssertionError{
		Type:     AssertVerdict,
		Compound: a.Compound,
		Expected: "verdict " + a.Verdict,
		Actual:   describe(r),
	}
}

func assertError(r analysis.Result, a Assertion) error {
	if r.Err != nil && string(clapeyron.CodeOf(r.Err)) == a.Code {
		return nil
	}
	return &AssertionError{
		Type:     AssertError,
		Compound: a.Compound,
		Expected: "error " + a.Code,
		Actual:   describe(r),
	}
}

func assertEstimate(r analysis.Result, a Assertion) error {
	got, ok := quantity(r, a.Quantity)
	if !ok {
		return &AssertionError{
			Type:     AssertEstimate,
			Compound: a.Compound,
			Expected: fmt.Sprintf("%s = %g", a.Quantity, a.Value),
			Actual:   describe(r),
		}
	}

	within := a.Within
	if within == 0 {
		within = DefaultWithin
	}
	dist := math.Abs(got - a.Value)
	if a.Value != 0 {
		dist /= math.Abs(a.Value)
	}
	if dist <= within {
		return nil
	}
	return &AssertionError{
		Type:     AssertEstimate,
		Compound: a.Compound,
		Expected: fmt.Sprintf("%s = %g (within %g)", a.Quantity, a.Value, within),
		Actual:   fmt.Sprintf("%s = %g (off by %g)", a.Quantity, got, dist),
	}
}

// quantity extracts a named fitted quantity; false if the compound has no fit.
func quantity(r analysis.Result, name string) (float64, bool) {
	if r.Regression == nil || r.Estimate == nil {
		return 0, false
	}
	switch name {
	case QuantityEnthalpy:
		return r.Estimate.Enthalpy, true
	case QuantityEntropy:
		return r.Estimate.Entropy, true
	case QuantityBoilingPoint:
		return r.BoilingPoint, r.BoilingPoint > 0
	case QuantityRSquared:
		return r.Regression.RSquared, true
	case QuantitySlope:
		return r.Regression.Slope, true
	case QuantityIntercept:
		return r.Regression.Intercept, true
	}
	return 0, false
}

func assertRejected(r analysis.Result, a Assertion) error {
	if len(r.Rejected) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRejected,
		Compound: a.Compound,
		Expected: fmt.Sprintf("%d rejected measurement(s)", a.Count),
		Actual:   fmt.Sprintf("%d rejected measurement(s)", len(r.Rejected)),
	}
}

func assertLowConfidence(r analysis.Result, a Assertion) error {
	if r.Err == nil && r.LowConfidence == *a.Expect {
		return nil
	}
	actual := describe(r)
	if r.Err == nil {
		actual = fmt.Sprintf("low_confidence %t", r.LowConfidence)
		if r.Regression != nil {
			actual += fmt.Sprintf(" (R² %.6f)", r.Regression.RSquared)
		}
	}
	return &AssertionError{
		Type:     AssertLowConfidence,
		Compound: a.Compound,
		Expected: fmt.Sprintf("low_confidence %t", *a.Expect),
		Actual:   actual,
	}
}
