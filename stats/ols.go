package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxCondition is the X'X condition number above which a design is treated as singular.
const maxCondition = 1e14

// RegressionResult is the outcome of one ordinary least squares fit.
type RegressionResult struct {
	Coefficients []float64
	Covariance   *mat.SymDense // k x k, sigma^2 (X'X)^-1
	Residuals    []float64
	Sigma2       float64 // SSE / (n - k)
	NObs         int
}

// OLS regresses y on the columns of x.
func OLS(x mat.Matrix, y []float64) (*RegressionResult, error) {
	n, k := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("ols: %d rows in design, %d observations", n, len(y))
	}
	if n <= k {
		return nil, fmt.Errorf("%w: %d rows for %d regressors", ErrInsufficientRows, n, k)
	}

	xtx := mat.NewSymDense(k, nil)
	xtx.SymOuterK(1, x.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok || chol.Cond() > maxCondition {
		return nil, ErrSingularDesign
	}

	yv := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDesign, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	residuals := make([]float64, n)
	sse := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.AtVec(i)
		sse += residuals[i] * residuals[i]
	}
	s2 := sse / float64(n-k)

	cov := mat.NewSymDense(k, nil)
	if err := chol.InverseTo(cov); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularDesign, err)
	}
	cov.ScaleSym(s2, cov)

	return &RegressionResult{
		Coefficients: mat.Col(nil, 0, &beta),
		Covariance:   cov,
		Residuals:    residuals,
		Sigma2:       s2,
		NObs:         n,
	}, nil
}

// StdErr returns the standard error of coefficient j.
func (r *RegressionResult) StdErr(j int) float64 {
	return math.Sqrt(r.Covariance.At(j, j))
}

// TStat returns coefficient j divided by its standard error.
func (r *RegressionResult) TStat(j int) float64 {
	return r.Coefficients[j] / r.StdErr(j)
}
