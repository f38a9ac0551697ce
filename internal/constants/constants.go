package constants

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/clapeyron/internal/clapeyron"
)

// Physical constants.
const (
	// GasConstant is the universal gas constant in J/(mol·K).
	GasConstant = 8.314

	// StandardAtmosphere is 1 atm in Pa.
	StandardAtmosphere = 101325.0

	// DefaultMinRSquared flags fits below this R² as low confidence.
	DefaultMinRSquared = 0.99
)

// InvalidPolicy decides what happens to a measurement that fails conversion.
type InvalidPolicy string

const (
	// InvalidAbort fails the whole compound on the first bad measurement.
	InvalidAbort InvalidPolicy = "abort"
	// InvalidDrop records the measurement as rejected and keeps going.
	InvalidDrop InvalidPolicy = "drop"
)

// ErrUnknownCompound is returned by Reference for compounds with no record.
var ErrUnknownCompound = errors.New("unknown compound")

// Config is the immutable set of constants and reference data for one run.
// Build it once at start-up and pass it to every component that needs it.
type Config struct {
	GasConstant         float64
	AtmosphericPressure float64
	StandardPressure    float64
	Tolerance           clapeyron.Tolerance
	MinRSquared         float64
	OnInvalid           InvalidPolicy

	references map[string]clapeyron.ReferenceRecord
}

// Cyclohexane and Methanol are the NIST WebBook values at 298 K
// (enthalpy J/mol, entropy J/(mol·K), normal boiling point K).
var (
	Cyclohexane = clapeyron.ReferenceRecord{
		Name:         "Cyclohexane",
		Enthalpy:     32000,
		Entropy:      90.4,
		BoilingPoint: 353.9,
		Source:       "https://webbook.nist.gov/cgi/cbook.cgi?ID=C110827&Units=SI&Mask=4",
	}
	Methanol = clapeyron.ReferenceRecord{
		Name:         "Methanol",
		Enthalpy:     37400,
		Entropy:      110.7,
		BoilingPoint: 337.8,
		Source:       "https://webbook.nist.gov/cgi/cbook.cgi?ID=C67561&Units=SI&Mask=4",
	}
)

// Default returns the built-in configuration.
func Default() Config {
	return New(
		GasConstant,
		StandardAtmosphere,
		StandardAtmosphere,
		map[string]clapeyron.ReferenceRecord{
			"cyclohexane": Cyclohexane,
			"methanol":    Methanol,
		},
	)
}

// New builds a Config with default tolerance, R² threshold and invalid policy.
// The references map is copied; keys are normalized with CompoundKey.
func New(gasConstant, atmosphericPa, standardPa float64, refs map[string]clapeyron.ReferenceRecord) Config {
	cfg := Config{
		GasConstant:         gasConstant,
		AtmosphericPressure: atmosphericPa,
		StandardPressure:    standardPa,
		Tolerance:           clapeyron.DefaultTolerance(),
		MinRSquared:         DefaultMinRSquared,
		OnInvalid:           InvalidAbort,
		references:          make(map[string]clapeyron.ReferenceRecord, len(refs)),
	}
	for id, ref := range refs {
		cfg.references[CompoundKey(id)] = ref
	}
	return cfg
}

// WithReference returns a copy of c with ref registered under id.
func (c Config) WithReference(id string, ref clapeyron.ReferenceRecord) Config {
	refs := make(map[string]clapeyron.ReferenceRecord, len(c.references)+1)
	for k, v := range c.references {
		refs[k] = v
	}
	refs[CompoundKey(id)] = ref
	c.references = refs
	return c
}

// CompoundKey folds a compound identifier for lookup: trimmed, case-folded
// and NFC-normalized, so "Cyclohexane" and " CYCLOHEXANE" agree.
func CompoundKey(id string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(id)))
}

// Reference returns the reference record for a compound.
func (c Config) Reference(id string) (clapeyron.ReferenceRecord, error) {
	ref, ok := c.references[CompoundKey(id)]
	if !ok {
		return clapeyron.ReferenceRecord{}, fmt.Errorf("%w: %q", ErrUnknownCompound, id)
	}
	return ref, nil
}

// Compounds returns the known compound keys in sorted order.
func (c Config) Compounds() []string {
	ids := make([]string, 0, len(c.references))
	for id := range c.references {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the configuration for non-physical constants.
func (c Config) Validate() error {
	var errs []error
	if !positiveFinite(c.GasConstant) {
		errs = append(errs, fmt.Errorf("gas_constant must be positive, got %g", c.GasConstant))
	}
	if !positiveFinite(c.AtmosphericPressure) {
		errs = append(errs, fmt.Errorf("atmospheric_pressure must be positive, got %g", c.AtmosphericPressure))
	}
	// Zero disables the standard-state entropy correction.
	if c.StandardPressure != 0 && !positiveFinite(c.StandardPressure) {
		errs = append(errs, fmt.Errorf("standard_pressure must be positive or 0, got %g", c.StandardPressure))
	}
	if err := c.Tolerance.Check(); err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(c.MinRSquared) || c.MinRSquared < 0 || c.MinRSquared > 1 {
		errs = append(errs, fmt.Errorf("min_r_squared must be within [0, 1], got %g", c.MinRSquared))
	}
	if c.OnInvalid != InvalidAbort && c.OnInvalid != InvalidDrop {
		errs = append(errs, fmt.Errorf("on_invalid must be %q or %q, got %q", InvalidAbort, InvalidDrop, c.OnInvalid))
	}
	for _, id := range c.Compounds() {
		ref := c.references[id]
		if math.IsNaN(ref.Enthalpy) || math.IsInf(ref.Enthalpy, 0) ||
			math.IsNaN(ref.Entropy) || math.IsInf(ref.Entropy, 0) {
			errs = append(errs, fmt.Errorf("reference %q: values must be finite", id))
		}
	}
	return errors.Join(errs...)
}

// ParseInvalidPolicy resolves "abort" or "drop".
func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch p := InvalidPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case InvalidAbort, InvalidDrop:
		return p, nil
	default:
		return "", fmt.Errorf("invalid policy %q: must be %q or %q", s, InvalidAbort, InvalidDrop)
	}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
