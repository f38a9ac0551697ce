package harness

import (
	"bytes"

	"github.com/roach88/clapeyron/internal/analysis"
	"github.com/roach88/clapeyron/internal/report"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Analyses holds the per-compound results in dataset order.
	Analyses []analysis.Result `json:"-"`

	// MinRSquared is the low-confidence threshold the run used.
	MinRSquared float64 `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Summary renders the text report of the analyses, the content compared
// against golden files.
func (r *Result) Summary() ([]byte, error) {
	var buf bytes.Buffer
	if err := report.WriteSummary(&buf, r.Analyses, r.MinRSquared); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
