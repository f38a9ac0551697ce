package clapeyron

import (
	"fmt"
	"math"
)

// ThermodynamicEstimate holds the vaporization quantities recovered from a fit.
// Units follow the gas constant passed to Extract: with R in J/(mol·K),
// Enthalpy is J/mol and Entropy is J/(mol·K).
type ThermodynamicEstimate struct {
	Enthalpy float64 `json:"dh_vap"`
	Entropy  float64 `json:"ds_vap"`

	// EnthalpyStdErr and EntropyStdErr are the OLS standard errors of slope
	// and intercept scaled by R.
	EnthalpyStdErr float64 `json:"dh_vap_stderr"`
	EntropyStdErr  float64 `json:"ds_vap_stderr"`
}

// Extract converts a regression into ΔvapH and ΔvapS.
//
//	ln P = −ΔH/(R·T) + ΔS/R   ⇒   ΔH = −slope·R,  ΔS = intercept·R
//
// No unit conversion happens here. Fails with INVALID_REGRESSION when the
// slope or intercept is not finite.
func Extract(result RegressionResult, gasConstant float64) (ThermodynamicEstimate, error) {
	if err := checkFinite(result); err != nil {
		return ThermodynamicEstimate{}, err
	}
	return ThermodynamicEstimate{
		Enthalpy:       -result.Slope * gasConstant,
		Entropy:        result.Intercept * gasConstant,
		EnthalpyStdErr: result.SlopeStdErr * math.Abs(gasConstant),
		EntropyStdErr:  result.InterceptStdErr * math.Abs(gasConstant),
	}, nil
}

// ExtractAt is Extract with the entropy referred to a standard pressure.
//
// When P is in Pa the intercept is ΔS/R + ln P°, so
// ΔS = (intercept − ln P°)·R. standardPa must be finite and positive.
func ExtractAt(result RegressionResult, gasConstant, standardPa float64) (ThermodynamicEstimate, error) {
	if !(standardPa > 0) || math.IsInf(standardPa, 0) {
		return ThermodynamicEstimate{}, NewInvalidRegression(
			fmt.Sprintf("standard pressure must be positive and finite, got %g Pa", standardPa))
	}
	est, err := Extract(result, gasConstant)
	if err != nil {
		return ThermodynamicEstimate{}, err
	}
	est.Entropy = (result.Intercept - math.Log(standardPa)) * gasConstant
	return est, nil
}

// BoilingPoint returns the temperature (K) at which the fitted line predicts
// vapour pressure pressurePa, i.e. the normal boiling point for 1 atm.
//
//	ln P = slope/T + intercept   ⇒   T = slope / (ln P − intercept)
func BoilingPoint(result RegressionResult, pressurePa float64) (float64, error) {
	if err := checkFinite(result); err != nil {
		return 0, err
	}
	if !(pressurePa > 0) {
		return 0, NewInvalidRegression(fmt.Sprintf("boiling pressure must be positive, got %g Pa", pressurePa))
	}
	t := result.Slope / (math.Log(pressurePa) - result.Intercept)
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return 0, NewInvalidRegression(
			fmt.Sprintf("fit never reaches %g Pa at a positive temperature", pressurePa))
	}
	return t, nil
}

func checkFinite(result RegressionResult) error {
	if math.IsNaN(result.Slope) || math.IsInf(result.Slope, 0) {
		return NewInvalidRegression(fmt.Sprintf("slope is not finite: %g", result.Slope))
	}
	if math.IsNaN(result.Intercept) || math.IsInf(result.Intercept, 0) {
		return NewInvalidRegression(fmt.Sprintf("intercept is not finite: %g", result.Intercept))
	}
	return nil
}
