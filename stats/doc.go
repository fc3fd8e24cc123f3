// Package stats provides the regression and testing machinery used to decide
// how many differences a series needs and whether a fitted model's residuals
// are white.
//
// # Lag matrices
//
// BuildLags returns the zero-filled lag matrix of a sequence. Every column
// keeps the full row count; the first k rows of column k are zero:
//
//	m, err := stats.BuildLags(values, 4)
//	lag2 := m.Lag(2) // values shifted by 2, two leading zeros
//
// # Augmented Dickey-Fuller
//
// AugmentedDF runs the Dickey-Fuller regression at every lag order up to
// maxLag and reports the pseudo-t statistic of the lagged level (and of the
// trend when requested). It never decides stationarity on its own:
//
//	adf, err := stats.AugmentedDF(series.Values, 4, true)
//	for _, l := range adf.Lags {
//	    fmt.Printf("lag %d: %.3f (trend %.3f)\n", l.Order, l.Statistic, l.TrendStatistic)
//	}
//	cv := stats.DickeyFullerCriticalValues(true, adf.NObs)
//
// # Residual diagnostics
//
// LjungBox and BoxPierce return a DiagnosticResult. When the degrees of
// freedom are exhausted the result is NotApplicable rather than an error:
//
//	lb := stats.LjungBox(fit.Residuals, fit.NObs, p+q, 8)
//	if lb.Applicable && lb.PValue < 0.05 {
//	    // residual autocorrelation left
//	}
//
// # Information criteria
//
// BIC derives the Bayesian criterion from an AIC so the pair always satisfies
// BIC - AIC = (ln T - 2) k.
package stats
