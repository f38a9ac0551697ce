// Package harness runs acceptance scenarios against the analysis pipeline.
//
// A scenario names a configuration and a set of dataset files (or asks for
// the mock datasets), runs the full analysis with deterministic run ids and
// checks the per-compound results against assertions. The text summary of
// the run can be compared against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files. Paths are relative to the scenario file:
//
//	name: methanol_drop
//	description: "A sub-vacuum reading is dropped and methanol still validates"
//	config: lab.cue
//	datasets:
//	  - data/methanol.yaml
//	on_invalid: drop
//	assertions:
//	  - type: verdict
//	    compound: methanol
//	    verdict: pass
//	  - type: rejected
//	    compound: methanol
//	    count: 1
//	  - type: estimate
//	    compound: methanol
//	    quantity: dh_vap
//	    value: 37400
//	    within: 0.001
//
// # Assertion Types
//
//   - verdict: the compound was analysed and validated with the given verdict
//     ("pass", "fail", or "none" when it has no reference record)
//   - error: the compound could not be analysed; code is the error kind
//     (e.g. DEGENERATE_FIT)
//   - estimate: a fitted quantity (dh_vap, ds_vap, boiling_point, r_squared,
//     slope, intercept) is within a relative distance of value
//   - rejected: exactly count measurements were dropped
//   - low_confidence: the low-confidence flag equals expect
//
// # Deterministic Runs
//
// Run ids come from testutil.SequentialRunIDs ("run-0001", ...) in dataset
// order and logs are discarded, so the summary of a scenario is stable and
// can be snapshotted with goldie.
package harness
