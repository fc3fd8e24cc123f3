package selection

import (
	"fmt"
	"math"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/stats"
)

// CoefficientStat is the significance of one estimated coefficient.
// StdErr is zero when the variance is unavailable; Test then carries the reason.
type CoefficientStat struct {
	Name     string                 `json:"name"`
	Estimate float64                `json:"estimate"`
	StdErr   float64                `json:"std_err"`
	Test     stats.DiagnosticResult `json:"z_test"` // z-score with one-tailed normal p-value
}

// Evaluation holds the criteria and coefficient tests derived from one fit.
type Evaluation struct {
	Label        string            `json:"label"`
	Spec         arima.Spec        `json:"spec"`
	K            int               `json:"k"`     // free coefficients
	NObs         int               `json:"n_obs"` // observations used in estimation
	LogLik       float64           `json:"log_lik"`
	Sigma2       float64           `json:"sigma2"`
	AIC          float64           `json:"aic"`
	BIC          float64           `json:"bic"`
	AICc         float64           `json:"aicc,omitempty"` // zero when the sample is too small for the correction
	Coefficients []CoefficientStat `json:"coefficients,omitempty"`
	// Significance summarises the coefficient tests: NotApplicable without
	// estimated coefficients, otherwise the largest |z| and its p-value with
	// DOF set to the number of tested coefficients.
	Significance stats.DiagnosticResult `json:"significance"`
	Converged    bool                   `json:"converged"`
	Message      string                 `json:"message,omitempty"`

	Fit *arima.FitResult `json:"-"`
}

// Evaluate derives information criteria and z-tests from a fit. Fixed
// coefficients are excluded from the tests.
func Evaluate(label string, fit *arima.FitResult) *Evaluation {
	k := fit.NumFree()
	ev := &Evaluation{
		Label:     label,
		Spec:      fit.Spec,
		K:         k,
		NObs:      fit.NObs,
		LogLik:    fit.LogLik,
		Sigma2:    fit.Sigma2,
		AIC:       fit.AIC,
		BIC:       stats.BIC(fit.AIC, fit.NObs, k),
		Converged: fit.Converged,
		Message:   fit.Message,
		Fit:       fit,
	}
	if aicc := stats.AICc(fit.AIC, fit.NObs, k+1); !math.IsInf(aicc, 0) {
		ev.AICc = aicc
	}

	if k == 0 {
		ev.Significance = stats.NotApplicable("no estimated coefficients")
		return ev
	}

	best := -1.0
	ev.Significance = stats.NotApplicable("no coefficient has a usable variance")
	for i, name := range fit.Names {
		if !fit.Spec.IsFree(i) {
			continue
		}
		cs := coefficientStat(name, fit.Coefficients[i], fit.Variance(i))
		ev.Coefficients = append(ev.Coefficients, cs)
		if cs.Test.Applicable && math.Abs(cs.Test.Statistic) > best {
			best = math.Abs(cs.Test.Statistic)
			ev.Significance = stats.DiagnosticResult{
				Statistic:  best,
				PValue:     cs.Test.PValue,
				Applicable: true,
			}
		}
	}
	if ev.Significance.Applicable {
		ev.Significance.DOF = len(ev.Coefficients)
	}
	return ev
}

func coefficientStat(name string, estimate, variance float64) CoefficientStat {
	cs := CoefficientStat{Name: name, Estimate: estimate}
	switch {
	case math.IsNaN(variance) || math.IsInf(variance, 0):
		cs.Test = stats.NotApplicable("variance not available")
	case variance <= 0:
		cs.Test = stats.NotApplicable(fmt.Sprintf("non-positive variance %g", variance))
	default:
		cs.StdErr = math.Sqrt(variance)
		z := estimate / cs.StdErr
		cs.Test = stats.DiagnosticResult{
			Statistic:  z,
			PValue:     stats.NormalSurvival(math.Abs(z)),
			Applicable: true,
		}
	}
	return cs
}
