// Package clapeyron implements the numerical core of the vaporization
// analysis: unit conversion, Clausius-Clapeyron linearization, ordinary
// least squares, extraction of ΔvapH/ΔvapS and validation against
// reference data.
//
// PIPELINE:
//
//	Reading ──Convert──▶ State(P Pa, T K) ──Linearize──▶ (1/T, ln P)
//	  ──Fit──▶ RegressionResult ──Extract──▶ ThermodynamicEstimate
//	  ──Validate──▶ Outcome
//
// Every function is pure and safe for concurrent use. Failures are reported
// as *Error values carrying an ErrorCode; a failed validation is an Outcome
// with Verdict Fail, never an error.
package clapeyron
