package testutil

import (
	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/dataset"
)

// AbsoluteDataset builds a dataset from absolute (T K, P Pa) pairs by
// expressing each pressure relative to atmosphericPa, the way a transducer
// would report it.
func AbsoluteDataset(compound string, atmosphericPa float64, pairs ...[2]float64) dataset.Dataset {
	ds := dataset.Dataset{
		Compound:            compound,
		TemperatureScale:    string(clapeyron.Kelvin),
		PressureUnit:        string(clapeyron.Pascal),
		AtmosphericPressure: &atmosphericPa,
	}
	for _, p := range pairs {
		ds.Measurements = append(ds.Measurements, dataset.Measurement{
			Temperature: p[0],
			Pressure:    p[1] - atmosphericPa,
			Scale:       clapeyron.Kelvin,
			Unit:        clapeyron.Pascal,
		})
	}
	return ds
}
