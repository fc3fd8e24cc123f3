package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LagMatrix holds a series and its lags as columns lag0..lagK.
//
// Every column has the same number of rows as the input: lag k is the input
// shifted down by k positions with the first k entries set to zero. Callers
// that regress on the matrix must skip the leading rows themselves.
type LagMatrix struct {
	data   *mat.Dense
	maxLag int
}

// BuildLags builds the zero-filled lag matrix of series for lags 0..maxLag.
func BuildLags(series []float64, maxLag int) (*LagMatrix, error) {
	n := len(series)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrInvalidLag)
	}
	if maxLag < 0 || maxLag > n {
		return nil, fmt.Errorf("%w: max lag %d outside [0, %d]", ErrInvalidLag, maxLag, n)
	}

	data := mat.NewDense(n, maxLag+1, nil)
	for k := 0; k <= maxLag; k++ {
		for i := k; i < n; i++ {
			data.Set(i, k, series[i-k])
		}
	}

	return &LagMatrix{data: data, maxLag: maxLag}, nil
}

// Rows returns the number of rows, equal to the input length.
func (m *LagMatrix) Rows() int {
	r, _ := m.data.Dims()
	return r
}

// MaxLag returns the highest lag column.
func (m *LagMatrix) MaxLag() int {
	return m.maxLag
}

// At returns row i of column lag k.
func (m *LagMatrix) At(i, k int) float64 {
	return m.data.At(i, k)
}

// Lag returns a copy of column k.
func (m *LagMatrix) Lag(k int) []float64 {
	return mat.Col(nil, k, m.data)
}

// Matrix exposes the raw matrix, padded rows included, for inspection.
func (m *LagMatrix) Matrix() mat.Matrix {
	return m.data
}
