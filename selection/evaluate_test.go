package selection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/arimaselect/arima"
)

func TestEvaluateNoFreeCoefficients(t *testing.T) {
	fit := &arima.FitResult{Spec: arima.Spec{D: 1}, AIC: 250, LogLik: -124, NObs: 120}
	ev := Evaluate("ARIMA(0,1,0)", fit)

	assert.Equal(t, 0, ev.K)
	assert.Equal(t, ev.AIC, ev.BIC)
	assert.Empty(t, ev.Coefficients)
	assert.False(t, ev.Significance.Applicable)
	assert.NotEmpty(t, ev.Significance.Reason)
	assert.InDelta(t, 250+2.0*1*2/(120-1-1), ev.AICc, 1e-12)
}

func TestEvaluateZScores(t *testing.T) {
	spec := arima.Spec{P: 1, D: 1, Q: 1}
	cov := mat.NewSymDense(2, []float64{0.01, 0, 0, 0.04})
	fit := &arima.FitResult{
		Spec:         spec,
		Names:        spec.CoefficientNames(),
		Coefficients: []float64{0.1, -0.6},
		Covariance:   cov,
		AIC:          100,
		NObs:         80,
	}
	ev := Evaluate(spec.Label(), fit)

	require.Len(t, ev.Coefficients, 2)
	ar := ev.Coefficients[0]
	assert.Equal(t, "ar1", ar.Name)
	assert.InDelta(t, 0.1, ar.StdErr, 1e-12)
	assert.InDelta(t, 1.0, ar.Test.Statistic, 1e-12)
	assert.InDelta(t, 0.158655, ar.Test.PValue, 1e-6)

	ma := ev.Coefficients[1]
	assert.InDelta(t, -3.0, ma.Test.Statistic, 1e-12)
	// one-tailed at |z|
	assert.InDelta(t, 0.0013499, ma.Test.PValue, 1e-6)

	assert.True(t, ev.Significance.Applicable)
	assert.InDelta(t, 3.0, ev.Significance.Statistic, 1e-12)
	assert.Equal(t, 2, ev.Significance.DOF)
	assert.Equal(t, 100+(math.Log(80)-2)*2, ev.BIC)
}

func TestEvaluateDegenerateVariance(t *testing.T) {
	spec := arima.Spec{P: 2, D: 1}
	cov := mat.NewSymDense(2, []float64{-0.01, 0, 0, math.NaN()})
	fit := &arima.FitResult{
		Spec:         spec,
		Names:        spec.CoefficientNames(),
		Coefficients: []float64{0.5, 0.2},
		Covariance:   cov,
		AIC:          90,
		NObs:         50,
	}
	ev := Evaluate(spec.Label(), fit)

	require.Len(t, ev.Coefficients, 2)
	for _, c := range ev.Coefficients {
		assert.False(t, c.Test.Applicable, c.Name)
		assert.Zero(t, c.StdErr)
	}
	assert.False(t, ev.Significance.Applicable)
	assert.Equal(t, 90+(math.Log(50)-2)*2, ev.BIC)
}

func TestEvaluateExcludesFixedCoefficients(t *testing.T) {
	spec := arima.Spec{P: 2, D: 1, Q: 1}.WithFixed([]bool{false, true, false})
	cov := mat.NewSymDense(2, []float64{0.04, 0, 0, 0.01})
	fit := &arima.FitResult{
		Spec:         spec,
		Names:        spec.CoefficientNames(),
		Coefficients: []float64{0.4, 0, 0.3},
		Covariance:   cov,
		AIC:          120,
		NObs:         99,
	}
	ev := Evaluate(spec.Label(), fit)

	require.Len(t, ev.Coefficients, 2)
	assert.Equal(t, "ar1", ev.Coefficients[0].Name)
	assert.Equal(t, "ma1", ev.Coefficients[1].Name)
	assert.InDelta(t, 2.0, ev.Coefficients[0].Test.Statistic, 1e-12)
	assert.InDelta(t, 3.0, ev.Coefficients[1].Test.Statistic, 1e-12)
	assert.Equal(t, 2, ev.K)
}
