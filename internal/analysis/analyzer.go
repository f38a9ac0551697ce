package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/clapeyron/internal/clapeyron"
	"github.com/roach88/clapeyron/internal/constants"
	"github.com/roach88/clapeyron/internal/dataset"
)

// Rejection records a measurement dropped under the "drop" policy.
type Rejection struct {
	Index       int                 `json:"index"`
	Measurement dataset.Measurement `json:"measurement"`
	Reason      string              `json:"reason"`
}

// Result is the self-contained outcome of analysing one compound.
// Nothing in it is shared with the result of any other compound.
type Result struct {
	RunID    string
	Compound string
	Trial    string

	States   []clapeyron.State
	Points   []clapeyron.LinearPoint
	Rejected []Rejection

	Regression *clapeyron.RegressionResult
	Estimate   *clapeyron.ThermodynamicEstimate

	// BoilingPoint is the fitted normal boiling point in K, 0 if the fit
	// does not reach the standard pressure at a positive temperature.
	BoilingPoint float64

	// Reference and Outcome are nil when the compound has no reference record.
	Reference *clapeyron.ReferenceRecord
	Outcome   *clapeyron.Outcome

	// LowConfidence is set when R² falls below the configured minimum.
	// It never changes the validation verdict.
	LowConfidence bool

	// Err is the analysis error that stopped this compound, if any.
	Err error
}

// Failed reports whether the compound could not be analysed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Passed reports whether the compound was analysed and validated.
func (r Result) Passed() bool {
	return r.Err == nil && r.Outcome != nil && r.Outcome.Passed()
}

// Analyzer runs the conversion → linearization → fit → extraction →
// validation pipeline for datasets under one immutable configuration.
type Analyzer struct {
	cfg    constants.Config
	ids    RunIDGenerator
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRunIDGenerator overrides the run id generator (for testing).
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(a *Analyzer) {
		if g != nil {
			a.ids = g
		}
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Analyzer for cfg.
func New(cfg constants.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:    cfg,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() constants.Config {
	return a.cfg
}

// Analyze runs the pipeline for one dataset. Failures are carried in
// Result.Err rather than returned, so a caller iterating compounds never
// loses the others.
func (a *Analyzer) Analyze(ds dataset.Dataset) Result {
	return a.analyze(ds, a.ids.Generate())
}

// AnalyzeAll analyses datasets concurrently and returns results in input
// order. Compounds share no state; one failing does not affect the rest.
// Datasets not yet started when ctx is cancelled get ctx.Err() as their error.
func (a *Analyzer) AnalyzeAll(ctx context.Context, datasets []dataset.Dataset) []Result {
	results := make([]Result, len(datasets))

	var wg sync.WaitGroup
	for i, ds := range datasets {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Compound: ds.Compound, Trial: ds.Trial, Err: err}
			continue
		}
		// Ids are drawn in input order so fixed generators stay deterministic.
		runID := a.ids.Generate()
		wg.Add(1)
		go func(i int, ds dataset.Dataset, runID string) {
			defer wg.Done()
			results[i] = a.analyze(ds, runID)
		}(i, ds, runID)
	}
	wg.Wait()

	return results
}

func (a *Analyzer) analyze(ds dataset.Dataset, runID string) Result {
	log := a.logger.With("compound", ds.Compound, "run_id", runID)
	res := Result{RunID: runID, Compound: ds.Compound, Trial: ds.Trial}

	if err := ds.Validate(); err != nil {
		if len(ds.Measurements) < 2 {
			res.Err = fmt.Errorf("%s: %w", ds.Compound, clapeyron.NewInsufficientData(len(ds.Measurements)))
		} else {
			res.Err = fmt.Errorf("%s: invalid dataset: %w", ds.Compound, err)
		}
		log.Error("dataset rejected", "error", res.Err)
		return res
	}

	// Dataset-level scale and unit apply to measurements that leave theirs empty.
	ds, err := ds.Normalize()
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", ds.Compound, clapeyron.NewInvalidMeasurement(err.Error(), nil))
		log.Error("dataset rejected", "error", res.Err)
		return res
	}

	// Convert + linearize
	conv := clapeyron.NewConverter(ds.Atmospheric(a.cfg))
	for i, m := range ds.Measurements {
		state, err := conv.Convert(m.Reading())
		var point clapeyron.LinearPoint
		if err == nil {
			point, err = clapeyron.LinearizeState(state)
		}
		if err != nil {
			if a.cfg.OnInvalid == constants.InvalidDrop {
				log.Warn("dropping measurement", "index", i, "reason", err)
				res.Rejected = append(res.Rejected, Rejection{Index: i, Measurement: m, Reason: err.Error()})
				continue
			}
			res.Err = fmt.Errorf("%s: measurement %d: %w", ds.Compound, i, err)
			log.Error("invalid measurement", "index", i, "error", err)
			return res
		}
		res.States = append(res.States, state)
		res.Points = append(res.Points, point)
	}
	log.Debug("linearized", "points", len(res.Points), "rejected", len(res.Rejected))

	// Fit
	reg, err := clapeyron.Fit(res.Points)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", ds.Compound, err)
		log.Error("regression failed", "error", err)
		return res
	}
	res.Regression = &reg
	res.LowConfidence = reg.RSquared < a.cfg.MinRSquared
	log.Debug("fitted", "slope", reg.Slope, "intercept", reg.Intercept, "r_squared", reg.RSquared)
	if res.LowConfidence {
		log.Warn("low-confidence fit", "r_squared", reg.RSquared, "min_r_squared", a.cfg.MinRSquared)
	}

	// Extract
	var est clapeyron.ThermodynamicEstimate
	if a.cfg.StandardPressure > 0 {
		est, err = clapeyron.ExtractAt(reg, a.cfg.GasConstant, a.cfg.StandardPressure)
	} else {
		est, err = clapeyron.Extract(reg, a.cfg.GasConstant)
	}
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", ds.Compound, err)
		log.Error("extraction failed", "error", err)
		return res
	}
	res.Estimate = &est

	boilAt := a.cfg.StandardPressure
	if boilAt == 0 {
		boilAt = constants.StandardAtmosphere
	}
	if tb, err := clapeyron.BoilingPoint(reg, boilAt); err == nil {
		res.BoilingPoint = tb
	} else {
		log.Warn("no boiling point", "error", err)
	}

	// Validate
	ref, err := a.cfg.Reference(ds.Compound)
	if err != nil {
		if !errors.Is(err, constants.ErrUnknownCompound) {
			res.Err = err
			return res
		}
		log.Info("analysed without reference", "dh_vap", est.Enthalpy, "ds_vap", est.Entropy)
		return res
	}
	outcome, err := clapeyron.Validate(est, ref, a.cfg.Tolerance)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", ds.Compound, err)
		log.Error("validation failed", "error", err)
		return res
	}
	res.Reference = &ref
	res.Outcome = &outcome

	log.Info("analysed",
		"dh_vap", est.Enthalpy,
		"ds_vap", est.Entropy,
		"r_squared", reg.RSquared,
		"verdict", outcome.Verdict,
	)
	return res
}
