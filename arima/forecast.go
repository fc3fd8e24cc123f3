package arima

import (
	"errors"
)

// Forecast returns point forecasts for the next horizon periods on the scale
// of the original series. Only likelihood-based fits carry the filter state
// needed here; CSS fits forecast from their conditional residuals.
func Forecast(fit *FitResult, horizon int) ([]float64, error) {
	if fit == nil || len(fit.series) == 0 {
		return nil, errors.New("model must be fitted before prediction")
	}
	if horizon < 1 {
		return nil, errors.New("horizon must be at least 1")
	}

	spec := fit.Spec
	ar, ma := fit.AR(), fit.MA()

	var noise []float64
	if fit.state != nil {
		noise = projectState(newStateSpace(ar, ma), fit.state, horizon)
	} else {
		noise = projectCSS(fit, ar, ma, horizon)
	}

	// Regression part on the differenced scale at the future periods.
	n := len(fit.series)
	var xreg [][]float64
	if spec.HasIntercept() {
		ones := make([]float64, horizon)
		for i := range ones {
			ones[i] = 1
		}
		xreg = append(xreg, ones)
	}
	if spec.Trend {
		trend := difference(trendIndex(n+horizon), spec.D)
		xreg = append(xreg, trend[len(trend)-horizon:])
	}

	w := make([]float64, horizon)
	for h := range w {
		w[h] = noise[h]
		for j, b := range fit.beta {
			w[h] += b * xreg[j][h]
		}
	}

	return integrate(fit.series, w, spec.D), nil
}

// projectState iterates the predicted state forward with no new innovations.
func projectState(ss *stateSpace, state *filterState, horizon int) []float64 {
	a := append([]float64(nil), state.a...)
	out := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		out[h] = a[0]
		next := make([]float64, ss.r)
		for i := 0; i < ss.r; i++ {
			for k := 0; k < ss.r; k++ {
				next[i] += ss.t[i][k] * a[k]
			}
		}
		a = next
	}
	return out
}

// projectCSS extends the ARMA recursion with future innovations set to zero.
func projectCSS(fit *FitResult, ar, ma []float64, horizon int) []float64 {
	prob := newProblem(fit.Spec, fit.series)
	u := prob.noise(fit.beta)
	n := len(u)
	resid := make([]float64, n-len(fit.Residuals), n+horizon)
	resid = append(resid, fit.Residuals...)

	ext := append(u, make([]float64, horizon)...)
	resid = append(resid, make([]float64, horizon)...)
	for t := n; t < n+horizon; t++ {
		pred := 0.0
		for i := 0; i < len(ar) && t-i-1 >= 0; i++ {
			pred += ar[i] * ext[t-i-1]
		}
		for j := 0; j < len(ma) && t-j-1 >= 0; j++ {
			pred += ma[j] * resid[t-j-1]
		}
		ext[t] = pred
	}
	return ext[n:]
}

// integrate undoes d differences of series for forecasts w of the d-th difference.
func integrate(series, w []float64, d int) []float64 {
	out := append([]float64(nil), w...)
	for level := d - 1; level >= 0; level-- {
		base := difference(series, level)
		last := base[len(base)-1]
		for h := range out {
			out[h] += last
			last = out[h]
		}
	}
	return out
}
