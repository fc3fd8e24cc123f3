// Package selection searches a grid of ARIMA specifications and compares
// restricted variants of a chosen model.
//
// Every candidate is fitted in isolation and yields an Outcome: an
// Evaluation with AIC, BIC, AICc and coefficient z-tests, or an error
// message. Outcomes are folded into a Registry keyed by model label, so one
// failing candidate never affects another:
//
//	report, err := selection.RunGrid(series, &selection.GridConfig{MaxP: 5, D: 1, MaxQ: 5},
//	    arima.NewMLEstimator(), &selection.Options{Workers: 4})
//	best := report.RankByAIC()[0]
//	parsimonious := report.RankByBIC()[0]
//
// BIC is derived from the estimator's AIC as AIC + (ln T - 2) k, where k is
// the number of free coefficients and T the number of observations used.
// z-scores carry one-tailed normal p-values.
//
// Nested restrictions fix coefficients of a base model at zero:
//
//	nested, err := selection.EvaluateRestrictions(series, arima.Spec{P: 2, D: 1, Q: 2},
//	    [][]bool{{false, true, false, false}}, est)
//
// The package reports criteria and rankings; it does not choose a model.
package selection
