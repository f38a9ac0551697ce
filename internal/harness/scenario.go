package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/clapeyron/internal/constants"
)

// Scenario defines an acceptance scenario for the analysis pipeline.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an optional CUE configuration file or directory.
	// Relative paths are resolved against the scenario file location.
	Config string `yaml:"config,omitempty"`

	// Datasets lists dataset files or directories to analyse.
	// Relative paths are resolved against the scenario file location.
	Datasets []string `yaml:"datasets,omitempty"`

	// Mock analyses one synthetic dataset per reference compound instead of
	// Datasets.
	Mock bool `yaml:"mock,omitempty"`

	// OnInvalid overrides the configured invalid measurement policy.
	OnInvalid string `yaml:"on_invalid,omitempty"`

	// Assertions validate the per-compound results.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one compound's result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "verdict": validation verdict ("pass", "fail" or "none")
	// - "error": analysis error code
	// - "estimate": fitted quantity within a relative distance of Value
	// - "rejected": number of dropped measurements
	// - "low_confidence": low-confidence flag
	Type string `yaml:"type"`

	// Compound is the compound id; matched case-insensitively.
	Compound string `yaml:"compound"`

	// Verdict is the expected verdict (used by verdict).
	Verdict string `yaml:"verdict,omitempty"`

	// Code is the expected error code (used by error).
	Code string `yaml:"code,omitempty"`

	// Quantity, Value and Within are used by estimate. Within is a relative
	// distance and defaults to DefaultWithin.
	Quantity string  `yaml:"quantity,omitempty"`
	Value    float64 `yaml:"value,omitempty"`
	Within   float64 `yaml:"within,omitempty"`

	// Count is the expected number of rejected measurements (used by rejected).
	Count int `yaml:"count,omitempty"`

	// Expect is the expected flag (used by low_confidence).
	Expect *bool `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertVerdict       = "verdict"
	AssertError         = "error"
	AssertEstimate      = "estimate"
	AssertRejected      = "rejected"
	AssertLowConfidence = "low_confidence"
)

// VerdictNone is the verdict of a compound without a reference record.
const VerdictNone = "none"

// DefaultWithin is the relative distance used by estimate assertions that
// do not set one.
const DefaultWithin = 1e-6

// Estimate quantity names.
const (
	QuantityEnthalpy     = "dh_vap"
	QuantityEntropy      = "ds_vap"
	QuantityBoilingPoint = "boiling_point"
	QuantityRSquared     = "r_squared"
	QuantitySlope        = "slope"
	QuantityIntercept    = "intercept"
)

// LoadScenario reads and parses a scenario YAML file, resolving config and
// dataset paths relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(base, scenario.Config)
	}
	for i, p := range scenario.Datasets {
		if !filepath.IsAbs(p) {
			scenario.Datasets[i] = filepath.Join(base, p)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Mock == (len(s.Datasets) > 0) {
		return fmt.Errorf("exactly one of datasets or mock is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.OnInvalid != "" {
		if _, err := constants.ParseInvalidPolicy(s.OnInvalid); err != nil {
			return fmt.Errorf("on_invalid: %w", err)
		}
	}

	if s.Config != "" {
		if _, err := os.Stat(s.Config); os.IsNotExist(err) {
			return fmt.Errorf("config not found: %s", s.Config)
		}
	}
	for _, p := range s.Datasets {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("dataset not found: %s", p)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Compound == "" {
		return fmt.Errorf("assertions[%d]: compound is required", index)
	}

	switch a.Type {
	case AssertVerdict:
		switch a.Verdict {
		case "pass", "fail", VerdictNone:
		default:
			return fmt.Errorf("assertions[%d]: verdict must be pass, fail or none, got %q", index, a.Verdict)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	case AssertEstimate:
		switch a.Quantity {
		case QuantityEnthalpy, QuantityEntropy, QuantityBoilingPoint, QuantityRSquared, QuantitySlope, QuantityIntercept:
		default:
			return fmt.Errorf("assertions[%d]: unknown quantity %q for estimate", index, a.Quantity)
		}
		if a.Within < 0 {
			return fmt.Errorf("assertions[%d]: within must be non-negative", index)
		}
	case AssertRejected:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for rejected", index)
		}
	case AssertLowConfidence:
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for low_confidence", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
