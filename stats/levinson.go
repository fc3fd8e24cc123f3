package stats

// Levinson runs the Durbin-Levinson recursion on autocorrelations (or
// autocovariances) acf[0..order]. It returns the coefficients of the AR(order)
// Yule-Walker fit and the partial autocorrelations at lags 1..order.
// Once the prediction error variance stops being positive the recursion
// halts and the remaining entries stay zero.
func Levinson(acf []float64, order int) (phi, partial []float64) {
	if order < 1 || len(acf) <= order {
		return nil, nil
	}

	phi = make([]float64, order)
	partial = make([]float64, order)
	prev := make([]float64, order)
	v := acf[0]
	for k := 0; k < order; k++ {
		if v <= 0 {
			break
		}
		num := acf[k+1]
		for j := 0; j < k; j++ {
			num -= phi[j] * acf[k-j]
		}
		a := num / v

		copy(prev, phi[:k])
		for j := 0; j < k; j++ {
			phi[j] = prev[j] - a*prev[k-1-j]
		}
		phi[k] = a
		partial[k] = a
		v *= 1 - a*a
	}
	return phi, partial
}
