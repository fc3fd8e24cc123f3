package arima

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Root is one complex root of a characteristic polynomial.
type Root struct {
	Re      float64 `json:"re"`
	Im      float64 `json:"im"`
	Modulus float64 `json:"modulus"`
}

func newRoot(z complex128) Root {
	return Root{Re: real(z), Im: imag(z), Modulus: cmplx.Abs(z)}
}

// Complex returns the root as a complex128.
func (r Root) Complex() complex128 {
	return complex(r.Re, r.Im)
}

// PolyRoots returns the complex roots of
//
//	c[0] + c[1]*z + ... + c[n]*z^n
//
// Coefficients are given constant term first. Trailing zero coefficients
// lower the degree. Roots are the eigenvalues of the companion matrix and are
// returned sorted by modulus, then by argument.
func PolyRoots(coeffs []float64) ([]complex128, error) {
	n := len(coeffs) - 1
	for n >= 0 && coeffs[n] == 0 {
		n--
	}
	if n < 0 {
		return nil, errors.New("polynomial is identically zero")
	}
	if n == 0 {
		return nil, nil
	}

	lead := coeffs[n]
	companion := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		if i > 0 {
			companion.Set(i, i-1, 1)
		}
		companion.Set(i, n-1, -coeffs[i]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, errors.New("eigen decomposition of companion matrix failed")
	}
	roots := eig.Values(nil)

	sort.Slice(roots, func(i, j int) bool {
		mi, mj := cmplx.Abs(roots[i]), cmplx.Abs(roots[j])
		if math.Abs(mi-mj) > 1e-12 {
			return mi < mj
		}
		return cmplx.Phase(roots[i]) < cmplx.Phase(roots[j])
	})
	return roots, nil
}

// Roots holds the roots of the AR and MA characteristic polynomials.
type Roots struct {
	AR []Root `json:"ar"`
	MA []Root `json:"ma"`
}

// FindRoots builds the AR polynomial 1 - phi1 z - ... - phiP z^P and the MA
// polynomial 1 + theta1 z + ... + thetaQ z^Q and returns their roots.
func FindRoots(ar, ma []float64) (*Roots, error) {
	arPoly := make([]float64, len(ar)+1)
	arPoly[0] = 1
	for i, phi := range ar {
		arPoly[i+1] = -phi
	}

	maPoly := make([]float64, len(ma)+1)
	maPoly[0] = 1
	copy(maPoly[1:], ma)

	arRoots, err := PolyRoots(arPoly)
	if err != nil {
		return nil, err
	}
	maRoots, err := PolyRoots(maPoly)
	if err != nil {
		return nil, err
	}

	out := &Roots{
		AR: make([]Root, len(arRoots)),
		MA: make([]Root, len(maRoots)),
	}
	for i, z := range arRoots {
		out.AR[i] = newRoot(z)
	}
	for i, z := range maRoots {
		out.MA[i] = newRoot(z)
	}
	return out, nil
}

// Stationary reports whether every AR root lies outside the unit circle.
func (r *Roots) Stationary() bool {
	return minModulus(r.AR) > 1
}

// Invertible reports whether every MA root lies outside the unit circle.
func (r *Roots) Invertible() bool {
	return minModulus(r.MA) > 1
}

func minModulus(roots []Root) float64 {
	m := math.Inf(1)
	for _, r := range roots {
		m = math.Min(m, r.Modulus)
	}
	return m
}

// RootPair is an AR root and an MA root that nearly coincide.
type RootPair struct {
	AR       Root    `json:"ar"`
	MA       Root    `json:"ma"`
	Distance float64 `json:"distance"`
}

// CommonRoots returns every AR/MA root pair within tol of each other,
// closest first. A pair suggests the AR and MA polynomials share a factor
// and a smaller model fits as well. The result is advisory.
func (r *Roots) CommonRoots(tol float64) []RootPair {
	var pairs []RootPair
	for _, a := range r.AR {
		for _, m := range r.MA {
			d := cmplx.Abs(a.Complex() - m.Complex())
			if d <= tol {
				pairs = append(pairs, RootPair{AR: a, MA: m, Distance: d})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Distance < pairs[j].Distance
	})
	return pairs
}

// arStationary reports whether 1 - phi1 z - ... - phiP z^P has all roots outside the unit circle.
func arStationary(ar []float64) bool {
	allZero := true
	for _, phi := range ar {
		if phi != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return true
	}
	roots, err := FindRoots(ar, nil)
	if err != nil {
		return false
	}
	return roots.Stationary()
}
