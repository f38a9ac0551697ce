package constants

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/clapeyron/internal/clapeyron"
)

//go:embed schema.cue
var schemaCUE string

// Error code constants for configuration loading.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeLoadFailed      = "E004" // CUE load failed
	ErrCodeNotFound        = "E005" // Path not found
	ErrCodeBuildFailed     = "E006" // CUE build or schema validation failed
	ErrCodeInvalidConstant = "E201" // Decoded value is non-physical
)

// LoadError represents an error that occurred while loading a configuration.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// fileConfig mirrors #Config; pointer fields distinguish "absent" from zero.
type fileConfig struct {
	GasConstant         *float64                             `json:"gas_constant"`
	AtmosphericPressure *float64                             `json:"atmospheric_pressure"`
	StandardPressure    *float64                             `json:"standard_pressure"`
	MinRSquared         *float64                             `json:"min_r_squared"`
	OnInvalid           *string                              `json:"on_invalid"`
	Tolerance           *clapeyron.Tolerance                 `json:"tolerance"`
	IncludeDefaults     *bool                                `json:"include_defaults"`
	Reference           map[string]clapeyron.ReferenceRecord `json:"reference"`
}

// Load reads a CUE configuration from a file or a directory of .cue files,
// checks it against the embedded #Config schema and merges it over Default.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing config: %v", err)}
	}

	ctx := cuecontext.New()
	var value cue.Value
	if info.IsDir() {
		instances := load.Instances([]string{"."}, &load.Config{Dir: path})
		if len(instances) == 0 {
			return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
		}
		if inst := instances[0]; inst.Err != nil {
			return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
		}
		value = ctx.BuildInstance(instances[0])
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
		}
		value = ctx.CompileBytes(data, cue.Filename(path))
	}

	return decode(ctx, value)
}

// Parse compiles CUE source text; filename is used only in error positions.
func Parse(filename string, src []byte) (Config, error) {
	ctx := cuecontext.New()
	return decode(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func decode(ctx *cue.Context, value cue.Value) (Config, error) {
	if err := value.Err(); err != nil {
		return Config{}, cueLoadError(ErrCodeBuildFailed, "building CUE value", err)
	}

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, cueLoadError(ErrCodeGeneric, "embedded schema", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, cueLoadError(ErrCodeBuildFailed, "config does not match schema", err)
	}

	var fc fileConfig
	if err := unified.Decode(&fc); err != nil {
		return Config{}, cueLoadError(ErrCodeBuildFailed, "decoding config", err)
	}

	cfg := Default()
	if fc.IncludeDefaults != nil && !*fc.IncludeDefaults {
		cfg.references = map[string]clapeyron.ReferenceRecord{}
	}
	if fc.GasConstant != nil {
		cfg.GasConstant = *fc.GasConstant
	}
	if fc.AtmosphericPressure != nil {
		cfg.AtmosphericPressure = *fc.AtmosphericPressure
	}
	if fc.StandardPressure != nil {
		cfg.StandardPressure = *fc.StandardPressure
	}
	if fc.MinRSquared != nil {
		cfg.MinRSquared = *fc.MinRSquared
	}
	if fc.OnInvalid != nil {
		cfg.OnInvalid = InvalidPolicy(*fc.OnInvalid)
	}
	if fc.Tolerance != nil {
		cfg.Tolerance = *fc.Tolerance
	}
	for id, ref := range fc.Reference {
		if ref.Name == "" {
			ref.Name = id
		}
		cfg = cfg.WithReference(id, ref)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, &LoadError{Code: ErrCodeInvalidConstant, Message: err.Error(), Pos: value.Pos()}
	}
	return cfg, nil
}

// cueLoadError converts a CUE error into a LoadError with the first position
// CUE reports, if any.
func cueLoadError(code, context string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", context, err)}
	var cerr cueerrors.Error
	if errors.As(err, &cerr) {
		if pos := cueerrors.Positions(cerr); len(pos) > 0 {
			le.Pos = pos[0]
		}
	}
	return le
}
