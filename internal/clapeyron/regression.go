package clapeyron

import "math"

// RegressionResult is an ordinary least squares fit of y = Slope·x + Intercept.
//
// For Clausius-Clapeyron data the slope is expected to be negative; a sign or
// magnitude anomaly is for validation to judge, not for the fit to reject.
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`

	// SlopeStdErr and InterceptStdErr are the usual OLS standard errors.
	// Both are zero when N == 2 (no residual degrees of freedom).
	SlopeStdErr     float64 `json:"slope_stderr"`
	InterceptStdErr float64 `json:"intercept_stderr"`

	// N is the number of points fitted.
	N int `json:"n"`
}

// Predict evaluates the fitted line at x.
func (r RegressionResult) Predict(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// SumSquaredResiduals returns Σ(yᵢ − ŷᵢ)² of the fitted line over points.
func (r RegressionResult) SumSquaredResiduals(points []LinearPoint) float64 {
	return sumSquaredResiduals(points, r.Slope, r.Intercept)
}

// Fit computes the OLS line through points.
//
// The formula is order-independent. Fails with INSUFFICIENT_DATA for fewer
// than two points and DEGENERATE_FIT when every point has the same x.
func Fit(points []LinearPoint) (RegressionResult, error) {
	n := len(points)
	if n < 2 {
		return RegressionResult{}, NewInsufficientData(n)
	}

	// Exact comparison: the mean of identical values need not round back to
	// the value itself, so Sxx alone can miss this case.
	distinct := false
	for _, p := range points[1:] {
		if p.X != points[0].X {
			distinct = true
			break
		}
	}
	if !distinct {
		return RegressionResult{}, NewDegenerateFit(n)
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	fn := float64(n)
	meanX := sumX / fn
	meanY := sumY / fn

	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p.X - meanX
		dy := p.Y - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return RegressionResult{}, NewDegenerateFit(n)
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX
	ssRes := sumSquaredResiduals(points, slope, intercept)

	// A horizontal data set is fitted exactly by the horizontal line.
	rSquared := 1.0
	if syy > 0 {
		rSquared = 1 - ssRes/syy
	}

	result := RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		N:         n,
	}
	if n > 2 {
		s2 := ssRes / (fn - 2)
		result.SlopeStdErr = math.Sqrt(s2 / sxx)
		result.InterceptStdErr = math.Sqrt(s2 * (1/fn + meanX*meanX/sxx))
	}
	return result, nil
}

func sumSquaredResiduals(points []LinearPoint, slope, intercept float64) float64 {
	var ss float64
	for _, p := range points {
		r := p.Y - (slope*p.X + intercept)
		ss += r * r
	}
	return ss
}
