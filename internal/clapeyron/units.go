package clapeyron

import (
	"fmt"
	"math"
	"strings"
)

// CelsiusOffset converts degrees Celsius to kelvin.
const CelsiusOffset = 273.15

// TemperatureScale declares how a temperature reading is expressed.
type TemperatureScale string

const (
	Celsius TemperatureScale = "celsius"
	Kelvin  TemperatureScale = "kelvin"
)

// PressureUnit names a pressure unit understood by the converter.
type PressureUnit string

const (
	Pascal       PressureUnit = "Pa"
	Hectopascal  PressureUnit = "hPa"
	Kilopascal   PressureUnit = "kPa"
	Megapascal   PressureUnit = "MPa"
	Millibar     PressureUnit = "mbar"
	Bar          PressureUnit = "bar"
	Atmosphere   PressureUnit = "atm"
	Torr         PressureUnit = "torr"
	MillimeterHg PressureUnit = "mmHg"
	PSI          PressureUnit = "psi"
)

// pascalsPer maps each unit to its size in Pa.
var pascalsPer = map[PressureUnit]float64{
	Pascal:       1,
	Hectopascal:  100,
	Kilopascal:   1e3,
	Megapascal:   1e6,
	Millibar:     100,
	Bar:          1e5,
	Atmosphere:   101325,
	Torr:         101325.0 / 760.0,
	MillimeterHg: 133.322387415,
	PSI:          6894.757293168,
}

// ParsePressureUnit resolves a unit name; matching ignores case except for
// the SI prefixes where "MPa" and "mPa" would otherwise collide.
func ParsePressureUnit(s string) (PressureUnit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Pascal, nil
	}
	if _, ok := pascalsPer[PressureUnit(s)]; ok {
		return PressureUnit(s), nil
	}
	for u := range pascalsPer {
		if u != Megapascal && strings.EqualFold(string(u), s) {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown pressure unit %q", s)
}

// ParseTemperatureScale resolves a scale name ("celsius", "C", "kelvin", "K").
// An empty string means Celsius, which is how the isoteniscope bath is read.
func ParseTemperatureScale(s string) (TemperatureScale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius", "°c":
		return Celsius, nil
	case "k", "kelvin":
		return Kelvin, nil
	default:
		return "", fmt.Errorf("unknown temperature scale %q", s)
	}
}

// ToPascal converts value expressed in unit to Pa.
func ToPascal(value float64, unit PressureUnit) (float64, error) {
	factor, ok := pascalsPer[unit]
	if !ok {
		return 0, fmt.Errorf("unknown pressure unit %q", unit)
	}
	return value * factor, nil
}

// ToKelvin converts a temperature on the given scale to kelvin.
func ToKelvin(value float64, scale TemperatureScale) (float64, error) {
	switch scale {
	case Celsius:
		return value + CelsiusOffset, nil
	case Kelvin:
		return value, nil
	default:
		return 0, fmt.Errorf("unknown temperature scale %q", scale)
	}
}

// Reading is one raw instrument observation: a bath temperature and the
// transducer pressure relative to the atmosphere.
type Reading struct {
	Temperature float64
	Scale       TemperatureScale
	Pressure    float64
	Unit        PressureUnit
}

// State is an absolute (P, T) pair in SI units.
type State struct {
	PressurePa   float64 `json:"pressure_pa"`
	TemperatureK float64 `json:"temperature_k"`
}

// Converter turns transducer readings into absolute SI quantities.
type Converter struct {
	// AtmosphericPa is the reference pressure the transducer reads against.
	AtmosphericPa float64
}

// NewConverter creates a Converter for the given atmospheric reference in Pa.
func NewConverter(atmosphericPa float64) Converter {
	return Converter{AtmosphericPa: atmosphericPa}
}

// Convert returns absolute pressure (Pa) and temperature (K) for r.
//
// P_abs = P_atm + P_transducer, with both terms in Pa before summation.
// Fails with INVALID_MEASUREMENT when either result is non-positive or
// non-finite, or when the reading names an unknown unit or scale.
func (c Converter) Convert(r Reading) (State, error) {
	unit := r.Unit
	if unit == "" {
		unit = Pascal
	}
	transducer, err := ToPascal(r.Pressure, unit)
	if err != nil {
		return State{}, NewInvalidMeasurement(err.Error(), map[string]string{"unit": string(unit)})
	}
	scale := r.Scale
	if scale == "" {
		scale = Celsius
	}
	tK, err := ToKelvin(r.Temperature, scale)
	if err != nil {
		return State{}, NewInvalidMeasurement(err.Error(), map[string]string{"scale": string(scale)})
	}

	pAbs := c.AtmosphericPa + transducer
	if math.IsNaN(pAbs) || math.IsInf(pAbs, 0) || pAbs <= 0 {
		return State{}, NewInvalidMeasurement(
			fmt.Sprintf("non-physical absolute pressure %g Pa", pAbs),
			map[string]string{
				"atmospheric_pa": fmt.Sprintf("%g", c.AtmosphericPa),
				"transducer_pa":  fmt.Sprintf("%g", transducer),
			},
		)
	}
	if math.IsNaN(tK) || math.IsInf(tK, 0) || tK <= 0 {
		return State{}, NewInvalidMeasurement(
			fmt.Sprintf("non-physical absolute temperature %g K", tK),
			map[string]string{"temperature": fmt.Sprintf("%g", r.Temperature), "scale": string(scale)},
		)
	}

	return State{PressurePa: pAbs, TemperatureK: tK}, nil
}
