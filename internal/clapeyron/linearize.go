package clapeyron

import (
	"fmt"
	"math"
)

// LinearPoint is one measurement in Clausius-Clapeyron coordinates:
// X = 1/T (K⁻¹), Y = ln(P/Pa).
type LinearPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Temperature recovers T (K) from the point.
func (p LinearPoint) Temperature() float64 {
	return 1 / p.X
}

// Pressure recovers P (Pa) from the point.
func (p LinearPoint) Pressure() float64 {
	return math.Exp(p.Y)
}

// Linearize maps an absolute (P, T) pair to (1/T, ln P).
// Both inputs must be finite and strictly positive.
func Linearize(pressurePa, temperatureK float64) (LinearPoint, error) {
	if !(pressurePa > 0) || math.IsInf(pressurePa, 0) {
		return LinearPoint{}, NewInvalidMeasurement(
			fmt.Sprintf("cannot take ln of pressure %g Pa", pressurePa),
			map[string]string{"pressure_pa": fmt.Sprintf("%g", pressurePa)},
		)
	}
	if !(temperatureK > 0) || math.IsInf(temperatureK, 0) {
		return LinearPoint{}, NewInvalidMeasurement(
			fmt.Sprintf("cannot invert temperature %g K", temperatureK),
			map[string]string{"temperature_k": fmt.Sprintf("%g", temperatureK)},
		)
	}
	return LinearPoint{X: 1 / temperatureK, Y: math.Log(pressurePa)}, nil
}

// LinearizeState is Linearize for a converted State.
func LinearizeState(s State) (LinearPoint, error) {
	return Linearize(s.PressurePa, s.TemperatureK)
}
