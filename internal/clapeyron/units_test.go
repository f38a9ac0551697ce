package clapeyron

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTransducerOffset(t *testing.T) {
	c := NewConverter(101325)

	state, err := c.Convert(Reading{Temperature: 25.0, Scale: Celsius, Pressure: -500, Unit: Pascal})
	require.NoError(t, err)
	assert.InDelta(t, 100825.0, state.PressurePa, 1e-9)
	assert.InDelta(t, 298.15, state.TemperatureK, 1e-9)
}

func TestConvertKelvinPassthrough(t *testing.T) {
	c := NewConverter(101325)

	state, err := c.Convert(Reading{Temperature: 310, Scale: Kelvin, Pressure: 0})
	require.NoError(t, err)
	assert.Equal(t, 310.0, state.TemperatureK)
	assert.Equal(t, 101325.0, state.PressurePa)
}

func TestConvertDefaultsToCelsiusAndPascal(t *testing.T) {
	state, err := NewConverter(100000).Convert(Reading{Temperature: 0, Pressure: 250})
	require.NoError(t, err)
	assert.InDelta(t, 273.15, state.TemperatureK, 1e-12)
	assert.Equal(t, 100250.0, state.PressurePa)
}

func TestConvertUnits(t *testing.T) {
	c := NewConverter(101325)
	tests := []struct {
		name     string
		pressure float64
		unit     PressureUnit
		want     float64
	}{
		{"mbar", -5, Millibar, 100825},
		{"hPa", -5, Hectopascal, 100825},
		{"kPa", -0.5, Kilopascal, 100825},
		{"bar", -0.005, Bar, 100825},
		{"torr", 760, Torr, 202650},
		{"atm", 1, Atmosphere, 202650},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := c.Convert(Reading{Temperature: 20, Pressure: tt.pressure, Unit: tt.unit})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, state.PressurePa, 1e-6)
		})
	}
}

func TestConvertNonPhysical(t *testing.T) {
	c := NewConverter(101325)
	tests := []struct {
		name    string
		reading Reading
	}{
		{"vacuum below zero", Reading{Temperature: 20, Pressure: -101325}},
		{"deep vacuum", Reading{Temperature: 20, Pressure: -200000}},
		{"absolute zero", Reading{Temperature: -273.15, Pressure: 0}},
		{"negative kelvin", Reading{Temperature: -1, Scale: Kelvin}},
		{"NaN pressure", Reading{Temperature: 20, Pressure: math.NaN()}},
		{"infinite temperature", Reading{Temperature: math.Inf(1)}},
		{"unknown unit", Reading{Temperature: 20, Unit: "furlong"}},
		{"unknown scale", Reading{Temperature: 20, Scale: "rankine"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Convert(tt.reading)
			require.Error(t, err)
			assert.True(t, IsInvalidMeasurement(err), "got %v", err)
			assert.ErrorIs(t, err, ErrInvalidMeasurement)
		})
	}
}

func TestParsePressureUnit(t *testing.T) {
	u, err := ParsePressureUnit("KPA")
	require.NoError(t, err)
	assert.Equal(t, Kilopascal, u)

	u, err = ParsePressureUnit("MPa")
	require.NoError(t, err)
	assert.Equal(t, Megapascal, u)

	u, err = ParsePressureUnit("")
	require.NoError(t, err)
	assert.Equal(t, Pascal, u)

	_, err = ParsePressureUnit("mpa")
	assert.Error(t, err)
}

func TestParseTemperatureScale(t *testing.T) {
	for in, want := range map[string]TemperatureScale{
		"":        Celsius,
		"C":       Celsius,
		"celsius": Celsius,
		"K":       Kelvin,
		"Kelvin":  Kelvin,
	} {
		got, err := ParseTemperatureScale(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTemperatureScale("F")
	assert.Error(t, err)
}
