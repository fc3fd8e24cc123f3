package arima

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/arimaselect/stats"
	"github.com/sartorproj/arimaselect/timeseries"
)

// Estimator fits one model specification to a series. An error means this
// model could not be estimated; it says nothing about other specifications.
type Estimator interface {
	Fit(series *timeseries.Series, spec Spec) (*FitResult, error)
}

// FitResult is an estimated model. It is not modified after Fit returns.
type FitResult struct {
	Spec         Spec
	Names        []string      // names of the full coefficient vector
	Coefficients []float64     // full vector; fixed coefficients are zero
	Covariance   *mat.SymDense // free x free; nil without free coefficients, NaN when the Hessian is not positive definite
	LogLik       float64
	Sigma2       float64
	AIC          float64
	NObs         int       // observations used in estimation
	Residuals    []float64 // one per observation used, NObs in all
	Converged    bool      // false when an optimisation stage stopped at its limit
	Message      string
	Iterations   int

	series []float64
	state  *filterState
	beta   []float64
}

// NumFree returns the number of estimated coefficients.
func (f *FitResult) NumFree() int {
	return f.Spec.NumFree()
}

// AR returns the AR coefficients.
func (f *FitResult) AR() []float64 {
	return append([]float64(nil), f.Coefficients[:f.Spec.P]...)
}

// MA returns the MA coefficients.
func (f *FitResult) MA() []float64 {
	p := f.Spec.P
	return append([]float64(nil), f.Coefficients[p:p+f.Spec.Q]...)
}

// Variance returns the estimated variance of coefficient i of the full
// vector, or NaN when the coefficient is fixed or the covariance is unavailable.
func (f *FitResult) Variance(i int) float64 {
	if f.Covariance == nil || !f.Spec.IsFree(i) {
		return math.NaN()
	}
	j := 0
	for k := 0; k < i; k++ {
		if f.Spec.IsFree(k) {
			j++
		}
	}
	return f.Covariance.At(j, j)
}

// MLEstimator estimates ARIMA models by exact Gaussian maximum likelihood
// (Kalman filter) and/or conditional sum of squares, using Nelder-Mead.
type MLEstimator struct {
	MaxIterations int     // major iteration cap per optimisation
	CSSIterations int     // cap for the CSS stage; zero means MaxIterations
	Tolerance     float64 // absolute objective tolerance for convergence
}

// NewMLEstimator returns an estimator with default limits.
func NewMLEstimator() *MLEstimator {
	return &MLEstimator{
		MaxIterations: 5000,
		Tolerance:     1e-10,
	}
}

// Fit estimates spec on series.
func (e *MLEstimator) Fit(series *timeseries.Series, spec Spec) (*FitResult, error) {
	label := spec.Label()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	fail := func(err error) (*FitResult, error) {
		return nil, &EstimationError{Model: label, Err: err}
	}

	values := series.Values
	if len(values)-spec.D < spec.NumFree()+spec.P+2 {
		return fail(fmt.Errorf("%w: %d observations", ErrInsufficientData, len(values)))
	}

	start := time.Now()
	prob := newProblem(spec, values)
	x0 := prob.initial()

	var (
		x     = x0
		iters int
		err   error
	)

	converged := true
	var note string
	if spec.Method == MethodCSS || spec.Method == MethodCSSML {
		var cssX []float64
		cssX, iters, err = e.minimize(prob.cssObjective, x, e.cssIterations())
		switch {
		case err == nil:
			x = cssX
		case spec.Method == MethodCSSML && cssX != nil:
			// The CSS point only seeds the ML search.
			x = cssX
			converged = false
			note = fmt.Sprintf("css start: %v", err)
			log.Debug().Str("model", label).Err(err).Msg("css stage stopped at its limit")
		default:
			return fail(fmt.Errorf("css: %w", err))
		}
	}

	if spec.Method == MethodCSSML {
		ar, _, _ := prob.split(prob.expand(x))
		if !arStationary(ar) {
			return fail(fmt.Errorf("%w from CSS", ErrNonStationary))
		}
	}

	if spec.Method == MethodML || spec.Method == MethodCSSML {
		if math.IsInf(prob.mlObjective(x), 1) {
			x = make([]float64, len(prob.free))
		}
		var mlIters int
		x, mlIters, err = e.minimize(prob.mlObjective, x, e.MaxIterations)
		if err != nil {
			return fail(fmt.Errorf("ml: %w", err))
		}
		iters += mlIters
	}

	full := prob.expand(x)
	fit := &FitResult{
		Spec:         spec,
		Names:        spec.CoefficientNames(),
		Coefficients: full,
		NObs:         len(prob.w),
		Converged:    converged,
		Message:      note,
		Iterations:   iters,
		series:       append([]float64(nil), values...),
	}
	_, _, fit.beta = prob.split(full)

	objective := prob.mlObjective
	if spec.Method == MethodCSS {
		ar, ma, beta := prob.split(full)
		resid, sse, used := cssResiduals(prob.noise(beta), ar, ma)
		fit.LogLik, fit.Sigma2 = cssLogLik(sse, used)
		fit.Residuals = resid[len(resid)-used:]
		fit.NObs = used
		objective = prob.cssObjective
	} else {
		loglik, sigma2, res, ok := prob.mlLogLik(full)
		if !ok {
			return fail(fmt.Errorf("%w: likelihood not finite at optimum", ErrNonConvergence))
		}
		fit.LogLik, fit.Sigma2 = loglik, sigma2
		fit.Residuals = res.residuals
		fit.state = &res.state
	}

	if math.IsNaN(fit.LogLik) || math.IsInf(fit.LogLik, 0) {
		return fail(fmt.Errorf("%w: log-likelihood %v", ErrNonConvergence, fit.LogLik))
	}

	k := spec.NumFree()
	fit.AIC = -2*fit.LogLik + 2*float64(k+1)

	if k > 0 {
		var msg string
		fit.Covariance, msg = covariance(objective, x)
		fit.Message = joinMessages(fit.Message, msg)
	}

	log.Debug().
		Str("model", label).
		Float64("aic", fit.AIC).
		Int("iterations", iters).
		Dur("elapsed", time.Since(start)).
		Msg("model estimated")

	return fit, nil
}

func (e *MLEstimator) cssIterations() int {
	if e.CSSIterations > 0 {
		return e.CSSIterations
	}
	return e.MaxIterations
}

func joinMessages(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "; " + b
}

// minimize runs Nelder-Mead from x0. Zero-dimensional problems return x0.
// When the search stops at an iteration, evaluation or runtime limit with a
// finite objective, the best point is returned together with an error
// wrapping ErrNonConvergence; every other failure returns a nil point.
func (e *MLEstimator) minimize(f func([]float64) float64, x0 []float64, maxIter int) ([]float64, int, error) {
	if len(x0) == 0 {
		if math.IsInf(f(x0), 1) {
			return nil, 0, fmt.Errorf("%w: objective not finite", ErrNonConvergence)
		}
		return x0, 0, nil
	}
	if math.IsInf(f(x0), 1) {
		return nil, 0, fmt.Errorf("%w: objective not finite at starting values", ErrNonConvergence)
	}

	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   e.Tolerance,
			Iterations: 200,
		},
	}
	problem := optimize.Problem{Func: f}

	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNonConvergence, err)
	}
	if math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, result.MajorIterations, fmt.Errorf("%w: objective not finite at optimum", ErrNonConvergence)
	}
	if statusErr := result.Status.Err(); statusErr != nil {
		err := fmt.Errorf("%w: %v", ErrNonConvergence, statusErr)
		switch result.Status {
		case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.RuntimeLimit:
			return result.X, result.MajorIterations, err
		}
		return nil, result.MajorIterations, err
	}
	return result.X, result.MajorIterations, nil
}

// covariance inverts the numerical Hessian of the negative log-likelihood.
// A Hessian that is not positive definite yields a NaN matrix and a message.
func covariance(f func([]float64) float64, x []float64) (*mat.SymDense, string) {
	k := len(x)
	hess := mat.NewSymDense(k, nil)
	fd.Hessian(hess, f, x, &fd.Settings{Formula: fd.Central})

	cov := mat.NewSymDense(k, nil)
	var chol mat.Cholesky
	if ok := chol.Factorize(hess); ok {
		if err := chol.InverseTo(cov); err == nil {
			return cov, ""
		}
	}

	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			cov.SetSym(i, j, math.NaN())
		}
	}
	return cov, "Hessian is not positive definite; standard errors unavailable"
}

// initial returns starting values for the free coefficients: regression
// coefficients by OLS, AR coefficients by Yule-Walker on the regression
// residuals when they are stationary, MA coefficients at zero.
func (m *armaProblem) initial() []float64 {
	full := make([]float64, m.spec.NumCoefficients())
	p, q := m.spec.P, m.spec.Q

	if len(m.xreg) > 0 {
		x := mat.NewDense(len(m.w), len(m.xreg), nil)
		for j, col := range m.xreg {
			x.SetCol(j, col)
		}
		if fit, err := stats.OLS(x, m.w); err == nil {
			copy(full[p+q:], fit.Coefficients)
		}
	}

	if p > 0 {
		_, _, beta := m.split(full)
		if acf := stats.ACF(m.noise(beta), p); len(acf) > p {
			if phi, _ := stats.Levinson(acf, p); phi != nil && arStationary(phi) {
				copy(full[:p], phi)
			}
		}
	}

	for i := range full {
		if !m.spec.IsFree(i) {
			full[i] = 0
		}
	}
	if p > 0 && !arStationary(full[:p]) {
		for i := 0; i < p; i++ {
			full[i] = 0
		}
	}

	x := make([]float64, len(m.free))
	for j, idx := range m.free {
		x[j] = full[idx]
	}
	return x
}
