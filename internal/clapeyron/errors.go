package clapeyron

import (
	"errors"
	"fmt"
)

// Error represents a failure detected while turning measurements into
// thermodynamic estimates.
//
// Analysis errors include:
//   - Invalid measurement: non-physical pressure or temperature
//   - Insufficient data: fewer than two usable points
//   - Degenerate fit: zero variance in 1/T
//   - Invalid regression: non-finite slope or intercept reaching extraction
//
// A failed validation is NOT an Error; see Outcome.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (index, value, unit, ...).
	Details map[string]string
}

// ErrorCode categorizes analysis errors.
type ErrorCode string

const (
	// ErrCodeInvalidMeasurement indicates P_abs <= 0 or T_abs <= 0 after conversion.
	ErrCodeInvalidMeasurement ErrorCode = "INVALID_MEASUREMENT"

	// ErrCodeInsufficientData indicates fewer than two points for a fit.
	ErrCodeInsufficientData ErrorCode = "INSUFFICIENT_DATA"

	// ErrCodeDegenerateFit indicates all x values are identical.
	ErrCodeDegenerateFit ErrorCode = "DEGENERATE_FIT"

	// ErrCodeInvalidRegression indicates a non-finite regression reached extraction.
	ErrCodeInvalidRegression ErrorCode = "INVALID_REGRESSION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so callers can
// match against the exported sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Code == e.Code && t.Message == ""
	}
	return false
}

// Sentinels for errors.Is matching on code only.
var (
	ErrInvalidMeasurement = &Error{Code: ErrCodeInvalidMeasurement}
	ErrInsufficientData   = &Error{Code: ErrCodeInsufficientData}
	ErrDegenerateFit      = &Error{Code: ErrCodeDegenerateFit}
	ErrInvalidRegression  = &Error{Code: ErrCodeInvalidRegression}
)

// IsInvalidMeasurement returns true if the error is an invalid measurement error.
// Uses errors.As to handle wrapped errors.
func IsInvalidMeasurement(err error) bool {
	return hasCode(err, ErrCodeInvalidMeasurement)
}

// IsInsufficientData returns true if the error is an insufficient data error.
func IsInsufficientData(err error) bool {
	return hasCode(err, ErrCodeInsufficientData)
}

// IsDegenerateFit returns true if the error is a degenerate fit error.
func IsDegenerateFit(err error) bool {
	return hasCode(err, ErrCodeDegenerateFit)
}

// IsInvalidRegression returns true if the error is an invalid regression error.
func IsInvalidRegression(err error) bool {
	return hasCode(err, ErrCodeInvalidRegression)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// NewInvalidMeasurement creates an Error for a non-physical reading.
func NewInvalidMeasurement(message string, details map[string]string) *Error {
	return &Error{Code: ErrCodeInvalidMeasurement, Message: message, Details: details}
}

// NewInsufficientData creates an Error for a dataset too small to fit.
func NewInsufficientData(points int) *Error {
	return &Error{
		Code:    ErrCodeInsufficientData,
		Message: fmt.Sprintf("need at least 2 points, got %d", points),
		Details: map[string]string{"points": fmt.Sprintf("%d", points)},
	}
}

// NewDegenerateFit creates an Error for zero variance in x.
func NewDegenerateFit(points int) *Error {
	return &Error{
		Code:    ErrCodeDegenerateFit,
		Message: fmt.Sprintf("all %d points share the same 1/T; slope is undefined", points),
		Details: map[string]string{"points": fmt.Sprintf("%d", points)},
	}
}

// NewInvalidRegression creates an Error for a non-finite regression value.
func NewInvalidRegression(message string) *Error {
	return &Error{Code: ErrCodeInvalidRegression, Message: message}
}
