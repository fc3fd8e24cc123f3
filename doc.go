// Package arimaselect provides unit-root testing and ARMA order selection for
// a single quarterly series.
//
// The analysis follows the Box-Jenkins route: test the levels and first
// differences for a unit root, fit a grid of ARIMA(p,d,q) candidates, look for
// AR and MA roots that cancel, simplify the chosen model through nested
// restrictions, and check that its residuals are white noise. The library
// reports statistics and rankings; choosing the final model is left to the
// reader of the output.
//
// # Packages
//
//   - timeseries: the quarterly series type and strict CSV ingestion
//   - stats: lag matrices, OLS, augmented Dickey-Fuller statistics, ACF/PACF,
//     Ljung-Box and Box-Pierce tests, information criteria
//   - arima: model specifications, exact and conditional likelihood
//     estimation, characteristic roots and forecasts
//   - selection: the candidate grid, coefficient z-tests, AIC/BIC rankings and
//     nested restrictions
//
// The arimaselect command (cmd/arimaselect) wires these together from a YAML
// configuration.
//
// # Quick Start
//
//	series, _ := timeseries.LoadCSV("ukinc.csv", &timeseries.CSVOptions{ValueColumn: "income", HasHeader: true, Delimiter: ','})
//	logged, _ := series.Log()
//
//	adf, _ := stats.AugmentedDF(logged.Values, 4, true)
//	fmt.Println(adf.Statistics(), stats.DickeyFullerCriticalValues(true, adf.NObs))
//
//	report, _ := selection.RunGrid(logged, selection.DefaultGridConfig(), arima.NewMLEstimator(), nil)
//	fmt.Println(report.RankByAIC()[0].Label, report.RankByBIC()[0].Label)
//
// # References
//
//   - Fuller, W. A. (1976). Introduction to Statistical Time Series
//   - Ljung, G. M., & Box, G. E. P. (1978). On a measure of lack of fit in time series models
//   - Harvey, A. C. (1989). Forecasting, Structural Time Series Models and the Kalman Filter
package arimaselect
