package arima

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// armaProblem is the estimation problem for one Spec on one differenced series.
type armaProblem struct {
	spec Spec
	w    []float64   // differenced series
	xreg [][]float64 // differenced regressors, one slice per column
	free []int       // indices of free coefficients in the full vector
}

func newProblem(spec Spec, values []float64) *armaProblem {
	n := len(values)
	w := difference(values, spec.D)

	var xreg [][]float64
	if spec.HasIntercept() {
		ones := make([]float64, len(w))
		for i := range ones {
			ones[i] = 1
		}
		xreg = append(xreg, ones)
	}
	if spec.Trend {
		xreg = append(xreg, difference(trendIndex(n), spec.D))
	}

	free := make([]int, 0, spec.NumCoefficients())
	for i := 0; i < spec.NumCoefficients(); i++ {
		if spec.IsFree(i) {
			free = append(free, i)
		}
	}

	return &armaProblem{spec: spec, w: w, xreg: xreg, free: free}
}

// trendIndex returns the observation index 1..n.
func trendIndex(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i + 1)
	}
	return t
}

// difference applies first differencing d times.
func difference(values []float64, d int) []float64 {
	out := append([]float64(nil), values...)
	for k := 0; k < d; k++ {
		if len(out) < 2 {
			return nil
		}
		next := make([]float64, len(out)-1)
		for i := 1; i < len(out); i++ {
			next[i-1] = out[i] - out[i-1]
		}
		out = next
	}
	return out
}

// expand places free parameter values into the full coefficient vector.
func (m *armaProblem) expand(x []float64) []float64 {
	full := make([]float64, m.spec.NumCoefficients())
	for j, idx := range m.free {
		full[idx] = x[j]
	}
	return full
}

// split returns the AR, MA and regression parts of a full coefficient vector.
func (m *armaProblem) split(full []float64) (ar, ma, beta []float64) {
	p, q := m.spec.P, m.spec.Q
	return full[:p], full[p : p+q], full[p+q:]
}

// noise removes the regression part from the differenced series.
func (m *armaProblem) noise(beta []float64) []float64 {
	u := make([]float64, len(m.w))
	for t, v := range m.w {
		u[t] = v
		for j, b := range beta {
			u[t] -= b * m.xreg[j][t]
		}
	}
	return u
}

// cssResiduals computes conditional residuals with pre-sample values set to
// zero. The first P residuals are zero and excluded from the sum of squares.
func cssResiduals(u, ar, ma []float64) (resid []float64, sse float64, used int) {
	p, q := len(ar), len(ma)
	resid = make([]float64, len(u))
	for t := p; t < len(u); t++ {
		e := u[t]
		for i := 0; i < p; i++ {
			e -= ar[i] * u[t-i-1]
		}
		for j := 0; j < q && t-j-1 >= 0; j++ {
			e -= ma[j] * resid[t-j-1]
		}
		resid[t] = e
		sse += e * e
	}
	return resid, sse, len(u) - p
}

// cssObjective is half the conditional log residual variance scaled by the
// number of residuals used, i.e. the concentrated negative log-likelihood
// without constants.
func (m *armaProblem) cssObjective(x []float64) float64 {
	ar, ma, beta := m.split(m.expand(x))
	_, sse, used := cssResiduals(m.noise(beta), ar, ma)
	if used <= 0 || sse <= 0 || math.IsNaN(sse) || math.IsInf(sse, 0) {
		return math.Inf(1)
	}
	return 0.5 * float64(used) * math.Log(sse/float64(used))
}

// cssLogLik returns the Gaussian log-likelihood at the CSS estimate.
func cssLogLik(sse float64, used int) (loglik, sigma2 float64) {
	n := float64(used)
	sigma2 = sse / n
	return -0.5 * n * (math.Log(2*math.Pi*sigma2) + 1), sigma2
}

// stateSpace is the Harvey state-space form of a zero-mean ARMA(p,q):
//
//	u[t]   = Z a[t],            Z = (1, 0, ..., 0)
//	a[t+1] = T a[t] + R e[t+1]
//
// with r = max(p, q+1), T carrying the AR coefficients in its first column
// and ones on the superdiagonal, and R = (1, theta1, ..., theta_{r-1}).
type stateSpace struct {
	r  int
	t  [][]float64
	rv []float64
}

func newStateSpace(ar, ma []float64) *stateSpace {
	r := max(len(ar), len(ma)+1)
	t := make([][]float64, r)
	for i := range t {
		t[i] = make([]float64, r)
		if i < len(ar) {
			t[i][0] = ar[i]
		}
		if i+1 < r {
			t[i][i+1] = 1
		}
	}
	rv := make([]float64, r)
	rv[0] = 1
	copy(rv[1:], ma)
	return &stateSpace{r: r, t: t, rv: rv}
}

// initialCovariance solves P = T P T' + R R' for the stationary state
// covariance (in units of the innovation variance).
func (s *stateSpace) initialCovariance() ([][]float64, bool) {
	r := s.r
	r2 := r * r
	a := mat.NewDense(r2, r2, nil)
	b := mat.NewVecDense(r2, nil)

	// vec(P) = (T kron T) vec(P) + vec(R R'), row-major vec.
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			row := i*r + j
			b.SetVec(row, s.rv[i]*s.rv[j])
			for k := 0; k < r; k++ {
				for l := 0; l < r; l++ {
					v := -s.t[i][k] * s.t[j][l]
					if row == k*r+l {
						v++
					}
					a.Set(row, k*r+l, a.At(row, k*r+l)+v)
				}
			}
		}
	}

	var vecP mat.VecDense
	if err := vecP.SolveVec(a, b); err != nil {
		return nil, false
	}

	p := make([][]float64, r)
	for i := range p {
		p[i] = make([]float64, r)
		for j := range p[i] {
			p[i][j] = vecP.AtVec(i*r + j)
		}
		if p[i][i] < 0 || math.IsNaN(p[i][i]) {
			return nil, false
		}
	}
	return p, true
}

// filterState is the predicted state after the last observation.
type filterState struct {
	a []float64
	p [][]float64
}

// kalmanResult holds the output of one pass of the Kalman filter.
type kalmanResult struct {
	ssq       float64 // sum of v^2/F
	sumLogF   float64
	residuals []float64 // v/sqrt(F)
	state     filterState
}

// filter runs the Kalman filter over u. It reports false when the model
// is not stationary or a prediction variance collapses.
func (s *stateSpace) filter(u []float64) (*kalmanResult, bool) {
	p, ok := s.initialCovariance()
	if !ok {
		return nil, false
	}
	r := s.r
	a := make([]float64, r)
	res := &kalmanResult{residuals: make([]float64, len(u))}

	pz := make([]float64, r)
	tmp := make([][]float64, r)
	for i := range tmp {
		tmp[i] = make([]float64, r)
	}

	for t, obs := range u {
		f := p[0][0]
		if f <= 1e-12 || math.IsNaN(f) {
			return nil, false
		}
		v := obs - a[0]
		res.ssq += v * v / f
		res.sumLogF += math.Log(f)
		res.residuals[t] = v / math.Sqrt(f)

		// update
		for i := 0; i < r; i++ {
			pz[i] = p[i][0]
		}
		for i := 0; i < r; i++ {
			a[i] += pz[i] * v / f
			for j := 0; j < r; j++ {
				p[i][j] -= pz[i] * pz[j] / f
			}
		}

		// predict
		s.predict(a, p, tmp)
	}

	res.state = filterState{a: a, p: p}
	return res, true
}

// predict advances a and p one step in place: a = T a, p = T p T' + R R'.
func (s *stateSpace) predict(a []float64, p, tmp [][]float64) {
	r := s.r
	next := make([]float64, r)
	for i := 0; i < r; i++ {
		for k := 0; k < r; k++ {
			next[i] += s.t[i][k] * a[k]
		}
	}
	copy(a, next)

	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			sum := 0.0
			for k := 0; k < r; k++ {
				sum += s.t[i][k] * p[k][j]
			}
			tmp[i][j] = sum
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			sum := 0.0
			for k := 0; k < r; k++ {
				sum += tmp[i][k] * s.t[j][k]
			}
			p[i][j] = sum + s.rv[i]*s.rv[j]
		}
	}
}

// mlObjective is the concentrated negative exact log-likelihood without constants.
func (m *armaProblem) mlObjective(x []float64) float64 {
	ar, ma, beta := m.split(m.expand(x))
	if !arStationary(ar) {
		return math.Inf(1)
	}
	res, ok := newStateSpace(ar, ma).filter(m.noise(beta))
	if !ok || res.ssq <= 0 {
		return math.Inf(1)
	}
	n := float64(len(m.w))
	return 0.5 * (n*math.Log(res.ssq/n) + res.sumLogF)
}

// mlLogLik evaluates the exact Gaussian log-likelihood and returns the
// filter output needed for residuals and forecasting.
func (m *armaProblem) mlLogLik(full []float64) (loglik, sigma2 float64, res *kalmanResult, ok bool) {
	ar, ma, beta := m.split(full)
	res, ok = newStateSpace(ar, ma).filter(m.noise(beta))
	if !ok {
		return math.Inf(-1), math.NaN(), nil, false
	}
	n := float64(len(m.w))
	sigma2 = res.ssq / n
	loglik = -0.5 * (n*math.Log(2*math.Pi*sigma2) + res.sumLogF + n)
	return loglik, sigma2, res, true
}
