package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/constants"
)

// Measurement is one raw isoteniscope observation. Treat it as immutable
// once recorded.
type Measurement struct {
	// Temperature is the bath temperature on Scale.
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// Pressure is the transducer reading relative to atmosphere, in Unit.
	Pressure float64 `yaml:"pressure" json:"pressure"`

	Scale clapeyron.TemperatureScale `yaml:"scale,omitempty" json:"scale,omitempty"`
	Unit  clapeyron.PressureUnit     `yaml:"unit,omitempty" json:"unit,omitempty"`

	// Trial optionally identifies the run the reading belongs to.
	Trial string `yaml:"trial,omitempty" json:"trial,omitempty"`
}

// Reading returns the measurement as converter input.
func (m Measurement) Reading() clapeyron.Reading {
	return clapeyron.Reading{
		Temperature: m.Temperature,
		Scale:       m.Scale,
		Pressure:    m.Pressure,
		Unit:        m.Unit,
	}
}

// Dataset is the ordered measurements for one compound.
type Dataset struct {
	Compound string `yaml:"compound" json:"compound"`
	Trial    string `yaml:"trial,omitempty" json:"trial,omitempty"`

	// TemperatureScale and PressureUnit apply to measurements that leave
	// their own scale or unit empty.
	TemperatureScale string `yaml:"temperature_scale,omitempty" json:"temperature_scale,omitempty"`
	PressureUnit     string `yaml:"pressure_unit,omitempty" json:"pressure_unit,omitempty"`

	// AtmosphericPressure overrides the configured ambient pressure (Pa)
	// for this dataset only.
	AtmosphericPressure *float64 `yaml:"atmospheric_pressure,omitempty" json:"atmospheric_pressure,omitempty"`

	Measurements []Measurement `yaml:"measurements" json:"measurements"`
}

// Validate checks the structural invariants: a compound id and at least two
// measurements. Physical validity is checked by the converter.
func (d Dataset) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Compound) == "" {
		errs = append(errs, errors.New("compound is required"))
	}
	if len(d.Measurements) < 2 {
		errs = append(errs, fmt.Errorf("need at least 2 measurements, got %d", len(d.Measurements)))
	}
	if d.AtmosphericPressure != nil && !(*d.AtmosphericPressure > 0) {
		errs = append(errs, fmt.Errorf("atmospheric_pressure must be positive, got %g", *d.AtmosphericPressure))
	}
	for i, m := range d.Measurements {
		if math.IsNaN(m.Temperature) || math.IsNaN(m.Pressure) {
			errs = append(errs, fmt.Errorf("measurements[%d]: NaN reading", i))
		}
	}
	return errors.Join(errs...)
}

// Atmospheric returns the ambient pressure for this dataset.
func (d Dataset) Atmospheric(cfg constants.Config) float64 {
	if d.AtmosphericPressure != nil {
		return *d.AtmosphericPressure
	}
	return cfg.AtmosphericPressure
}

// Normalize resolves dataset-level scale/unit defaults into every
// measurement so downstream code never sees an empty scale or unit.
func (d Dataset) Normalize() (Dataset, error) {
	scale, err := clapeyron.ParseTemperatureScale(d.TemperatureScale)
	if err != nil {
		return d, err
	}
	unit, err := clapeyron.ParsePressureUnit(d.PressureUnit)
	if err != nil {
		return d, err
	}

	out := d
	out.TemperatureScale = string(scale)
	out.PressureUnit = string(unit)
	out.Measurements = make([]Measurement, len(d.Measurements))
	for i, m := range d.Measurements {
		if m.Scale == "" {
			m.Scale = scale
		} else if m.Scale, err = clapeyron.ParseTemperatureScale(string(m.Scale)); err != nil {
			return d, fmt.Errorf("measurements[%d]: %w", i, err)
		}
		if m.Unit == "" {
			m.Unit = unit
		} else if m.Unit, err = clapeyron.ParsePressureUnit(string(m.Unit)); err != nil {
			return d, fmt.Errorf("measurements[%d]: %w", i, err)
		}
		if m.Trial == "" {
			m.Trial = d.Trial
		}
		out.Measurements[i] = m
	}
	return out, nil
}
