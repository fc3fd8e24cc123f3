// Package arima estimates ARIMA(p,d,q) models and analyses their
// characteristic polynomials.
//
// # Specifications
//
// A Spec names the orders, an optional linear trend, an optional mask of
// coefficients fixed at zero, and the estimation method:
//
//	spec := arima.Spec{P: 2, D: 1, Q: 2}
//	restricted := spec.WithFixed([]bool{false, true, false, false}) // ar2 = 0
//	fmt.Println(restricted.Label()) // ARIMA(2,1,2)[ar2=0]
//
// # Estimation
//
// MLEstimator implements Estimator. The default method seeds exact Gaussian
// maximum likelihood (Kalman filter on the state-space form) with
// conditional-sum-of-squares estimates:
//
//	est := arima.NewMLEstimator()
//	fit, err := est.Fit(series, spec)
//	var estErr *arima.EstimationError
//	if errors.As(err, &estErr) {
//	    // this model failed; others are unaffected
//	}
//
// fit.AIC counts the free coefficients plus the innovation variance.
// fit.Covariance is the inverse numerical Hessian over the free coefficients.
//
// # Characteristic roots
//
// FindRoots returns the roots of 1 - phi1 z - ... - phiP z^P and
// 1 + theta1 z + ... + thetaQ z^Q. CommonRoots lists AR/MA pairs closer
// than a caller-chosen tolerance:
//
//	roots, _ := arima.FindRoots(fit.AR(), fit.MA())
//	for _, pair := range roots.CommonRoots(0.1) {
//	    fmt.Printf("AR %v ~ MA %v (%.3f)\n", pair.AR, pair.MA, pair.Distance)
//	}
//
// PolyRoots takes coefficients constant term first.
//
// # Forecasting
//
//	forecasts, _ := arima.Forecast(fit, 8)
package arima
