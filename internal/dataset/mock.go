package dataset

import (
	"fmt"
	"math"

	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/constants"
)

// DefaultMockTemperatures are the bath temperatures (°C) of the mock run.
var DefaultMockTemperatures = []float64{20, 30, 40, 50, 60}

// Synthesize builds a noise-free dataset whose vapour pressures follow the
// reference record exactly:
//
//	P_abs = exp(−ΔH/(R·T) + ΔS/R + ln P°)
//
// and stores them as transducer readings (P_abs − P_atm, Pa). Analysing it
// must give back the reference ΔH and ΔS, which makes it a self-check of
// the whole pipeline.
func Synthesize(compound string, ref clapeyron.ReferenceRecord, temperaturesC []float64, cfg constants.Config) (Dataset, error) {
	if len(temperaturesC) == 0 {
		temperaturesC = DefaultMockTemperatures
	}
	standard := cfg.StandardPressure
	if standard == 0 {
		// Without a standard state ΔS/R is the whole intercept.
		standard = 1
	}

	slope := -ref.Enthalpy / cfg.GasConstant
	intercept := ref.Entropy/cfg.GasConstant + math.Log(standard)

	ds := Dataset{
		Compound:         compound,
		Trial:            "mock",
		TemperatureScale: string(clapeyron.Celsius),
		PressureUnit:     string(clapeyron.Pascal),
	}
	for _, tc := range temperaturesC {
		tk := tc + clapeyron.CelsiusOffset
		if tk <= 0 {
			return Dataset{}, fmt.Errorf("mock temperature %g °C is below absolute zero", tc)
		}
		pAbs := math.Exp(slope/tk + intercept)
		ds.Measurements = append(ds.Measurements, Measurement{
			Temperature: tc,
			Pressure:    pAbs - cfg.AtmosphericPressure,
			Scale:       clapeyron.Celsius,
			Unit:        clapeyron.Pascal,
			Trial:       ds.Trial,
		})
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// SynthesizeAll returns one mock dataset per configured reference compound.
func SynthesizeAll(cfg constants.Config, temperaturesC []float64) ([]Dataset, error) {
	var out []Dataset
	for _, id := range cfg.Compounds() {
		ref, err := cfg.Reference(id)
		if err != nil {
			return nil, err
		}
		ds, err := Synthesize(id, ref, temperaturesC, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		out = append(out, ds)
	}
	return out, nil
}
