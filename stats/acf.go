package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ACF calculates the sample autocorrelation function of values.
// Returns ACF values for lags 0 to maxLag, or nil when the input has no variance.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// PACF calculates the Partial Autocorrelation Function from the sample ACF.
// Index 0 holds 1; lags 1 to maxLag follow.
func PACF(values []float64, maxLag int) []float64 {
	if maxLag >= len(values) {
		maxLag = len(values) - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}
	_, partial := Levinson(acf, maxLag)
	return append([]float64{1}, partial...)
}

// CorrelogramResult holds ACF or PACF values with approximate 95% bounds.
type CorrelogramResult struct {
	Values     []float64 `json:"values"`
	ConfBounds float64   `json:"conf_bounds"` // 1.96/sqrt(n)
}

// ACFWithConfidence calculates ACF with confidence bounds.
func ACFWithConfidence(values []float64, maxLag int) *CorrelogramResult {
	acf := ACF(values, maxLag)
	if acf == nil {
		return nil
	}
	return &CorrelogramResult{
		Values:     acf,
		ConfBounds: 1.96 / math.Sqrt(float64(len(values))),
	}
}

// PACFWithConfidence calculates PACF with confidence bounds.
func PACFWithConfidence(values []float64, maxLag int) *CorrelogramResult {
	pacf := PACF(values, maxLag)
	if pacf == nil {
		return nil
	}
	return &CorrelogramResult{
		Values:     pacf,
		ConfBounds: 1.96 / math.Sqrt(float64(len(values))),
	}
}

// SignificantLags returns the lags where the values exceed the bounds.
func (r *CorrelogramResult) SignificantLags() []int {
	var significant []int
	for i := 1; i < len(r.Values); i++ { // Skip lag 0
		if math.Abs(r.Values[i]) > r.ConfBounds {
			significant = append(significant, i)
		}
	}
	return significant
}
