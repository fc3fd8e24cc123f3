package stats

import "fmt"

// LjungBox performs the Ljung-Box portmanteau test on model residuals.
//
// nObs is the number of observations the model was estimated on, fitdf the
// number of estimated ARMA coefficients and lags the number of
// autocorrelations K. The statistic is
//
//	Q = T(T+2) * sum_{k=1..K} rho_k^2 / (T-k)
//
// compared with a chi-squared law on K - fitdf degrees of freedom. The result
// is NotApplicable when K - fitdf <= 0 or T <= K.
func LjungBox(residuals []float64, nObs, fitdf, lags int) DiagnosticResult {
	dof := lags - fitdf
	switch {
	case lags < 1:
		return NotApplicable("no lags requested")
	case dof <= 0:
		return NotApplicable(fmt.Sprintf("K=%d does not exceed %d estimated parameters", lags, fitdf))
	case nObs <= lags:
		return NotApplicable(fmt.Sprintf("T=%d does not exceed K=%d", nObs, lags))
	case len(residuals) <= lags:
		return NotApplicable(fmt.Sprintf("%d residuals for K=%d", len(residuals), lags))
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return NotApplicable("residuals have zero variance")
	}

	n := float64(nObs)
	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / (n - float64(k))
	}
	q *= n * (n + 2)

	return DiagnosticResult{
		Statistic:  q,
		DOF:        dof,
		PValue:     ChiSquaredSurvival(q, dof),
		Applicable: true,
	}
}

// BoxPierce performs the Box-Pierce test, Q = T * sum rho_k^2, with the same
// applicability rules as LjungBox.
func BoxPierce(residuals []float64, nObs, fitdf, lags int) DiagnosticResult {
	dof := lags - fitdf
	switch {
	case lags < 1:
		return NotApplicable("no lags requested")
	case dof <= 0:
		return NotApplicable(fmt.Sprintf("K=%d does not exceed %d estimated parameters", lags, fitdf))
	case nObs <= lags || len(residuals) <= lags:
		return NotApplicable(fmt.Sprintf("T=%d does not exceed K=%d", nObs, lags))
	}

	acf := ACF(residuals, lags)
	if acf == nil {
		return NotApplicable("residuals have zero variance")
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k]
	}
	q *= float64(nObs)

	return DiagnosticResult{
		Statistic:  q,
		DOF:        dof,
		PValue:     ChiSquaredSurvival(q, dof),
		Applicable: true,
	}
}
