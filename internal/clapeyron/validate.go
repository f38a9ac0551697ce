package clapeyron

import (
	"fmt"
	"math"
	"strings"
)

// DefaultRelativeTolerance is used when no tolerance is configured.
const DefaultRelativeTolerance = 0.05

// ReferenceRecord is a literature value set for one compound.
// Enthalpy is J/mol, Entropy J/(mol·K), BoilingPoint K (0 when unknown).
type ReferenceRecord struct {
	Name         string  `json:"name"`
	Enthalpy     float64 `json:"dh_vap"`
	Entropy      float64 `json:"ds_vap"`
	BoilingPoint float64 `json:"boiling_point,omitempty"`
	Source       string  `json:"source,omitempty"`
}

// ToleranceMode selects how deviations are measured.
type ToleranceMode string

const (
	Absolute ToleranceMode = "absolute"
	Relative ToleranceMode = "relative"
)

// Tolerance is the agreement threshold for validation. The zero value means
// DefaultRelativeTolerance.
type Tolerance struct {
	Mode  ToleranceMode `json:"mode"`
	Value float64       `json:"value"`
}

// DefaultTolerance returns the 5% relative tolerance.
func DefaultTolerance() Tolerance {
	return Tolerance{Mode: Relative, Value: DefaultRelativeTolerance}
}

// Normalize fills in defaults for an unset tolerance.
func (t Tolerance) Normalize() Tolerance {
	if t.Mode == "" && t.Value == 0 {
		return DefaultTolerance()
	}
	if t.Mode == "" {
		t.Mode = Relative
	}
	return t
}

// Check reports whether the tolerance is usable.
func (t Tolerance) Check() error {
	t = t.Normalize()
	if t.Mode != Absolute && t.Mode != Relative {
		return fmt.Errorf("unknown tolerance mode %q (want %q or %q)", t.Mode, Absolute, Relative)
	}
	if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) || t.Value < 0 {
		return fmt.Errorf("tolerance value must be a finite non-negative number, got %g", t.Value)
	}
	return nil
}

// String renders the tolerance for reports, e.g. "relative 5%".
func (t Tolerance) String() string {
	t = t.Normalize()
	if t.Mode == Relative {
		return fmt.Sprintf("relative %g%%", t.Value*100)
	}
	return fmt.Sprintf("absolute %g", t.Value)
}

// Quantity names a validated quantity.
type Quantity string

const (
	QuantityEnthalpy Quantity = "dH_vap"
	QuantityEntropy  Quantity = "dS_vap"
)

// Verdict is the tagged result of a validation.
type Verdict string

const (
	Pass Verdict = "pass"
	Fail Verdict = "fail"
)

// Deviation compares one estimated quantity with its reference.
type Deviation struct {
	Quantity  Quantity `json:"quantity"`
	Estimate  float64  `json:"estimate"`
	Reference float64  `json:"reference"`
	Absolute  float64  `json:"absolute"`
	Relative  float64  `json:"relative"`
	Within    bool     `json:"within"`
}

// Outcome is the result of validating an estimate. A Fail outcome is a
// normal analysis result, not an error.
type Outcome struct {
	Verdict    Verdict     `json:"verdict"`
	Tolerance  Tolerance   `json:"tolerance"`
	Deviations []Deviation `json:"deviations"`
	Failed     []Quantity  `json:"failed,omitempty"`
}

// Passed reports whether every quantity was within tolerance.
func (o Outcome) Passed() bool {
	return o.Verdict == Pass
}

// String renders "pass" or "fail (dH_vap, dS_vap)".
func (o Outcome) String() string {
	if o.Passed() {
		return string(Pass)
	}
	names := make([]string, len(o.Failed))
	for i, q := range o.Failed {
		names[i] = string(q)
	}
	return fmt.Sprintf("%s (%s)", Fail, strings.Join(names, ", "))
}

// Validate compares ΔvapH and ΔvapS against the reference independently.
// The outcome passes only when both deviations are within tolerance.
// An unusable tolerance (see Check) is an error, not a failed outcome.
func Validate(est ThermodynamicEstimate, ref ReferenceRecord, tol Tolerance) (Outcome, error) {
	if err := tol.Check(); err != nil {
		return Outcome{}, err
	}
	tol = tol.Normalize()
	out := Outcome{Verdict: Pass, Tolerance: tol}

	for _, d := range []Deviation{
		deviation(QuantityEnthalpy, est.Enthalpy, ref.Enthalpy, tol),
		deviation(QuantityEntropy, est.Entropy, ref.Entropy, tol),
	} {
		out.Deviations = append(out.Deviations, d)
		if !d.Within {
			out.Verdict = Fail
			out.Failed = append(out.Failed, d.Quantity)
		}
	}
	return out, nil
}

func deviation(q Quantity, estimate, reference float64, tol Tolerance) Deviation {
	abs := math.Abs(estimate - reference)
	rel := relativeDeviation(abs, reference)

	measured := rel
	if tol.Mode == Absolute {
		measured = abs
	}
	return Deviation{
		Quantity:  q,
		Estimate:  estimate,
		Reference: reference,
		Absolute:  abs,
		Relative:  rel,
		// NaN compares false, so a NaN estimate never passes.
		Within: measured <= tol.Value,
	}
}

func relativeDeviation(abs, reference float64) float64 {
	if reference == 0 {
		if abs == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return abs / math.Abs(reference)
}
