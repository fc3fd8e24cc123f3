package stats

import "math"

// BIC converts an AIC into the Bayesian information criterion:
//
//	BIC = AIC + (ln(nObs) - 2) * k
//
// where k is the number of free coefficients and nObs the number of
// observations used in estimation.
func BIC(aic float64, nObs, k int) float64 {
	return aic + (math.Log(float64(nObs))-2)*float64(k)
}

// AICc calculates the corrected Akaike Information Criterion.
// AICc = AIC + 2(k)(k+1)/(n-k-1) where k is number of parameters.
func AICc(aic float64, nObs int, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}

	return aic + 2*k*(k+1)/(n-k-1)
}
