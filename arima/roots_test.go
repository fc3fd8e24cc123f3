package arima

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyRoots(t *testing.T) {
	// (1 - z)(1 - 0.5z) = 1 - 1.5z + 0.5z^2
	roots, err := PolyRoots([]float64{1, -1.5, 0.5})
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.InDelta(t, 1.0, real(roots[0]), 1e-10)
	assert.InDelta(t, 2.0, real(roots[1]), 1e-10)

	// 1 + z^2 has roots +-i
	roots, err = PolyRoots([]float64{1, 0, 1})
	require.NoError(t, err)
	require.Len(t, roots, 2)
	for _, z := range roots {
		assert.InDelta(t, 1.0, cmplx.Abs(z), 1e-10)
		assert.InDelta(t, 0.0, real(z), 1e-10)
	}

	// trailing zeros lower the degree
	roots, err = PolyRoots([]float64{2, -1, 0, 0})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.InDelta(t, 2.0, real(roots[0]), 1e-10)

	roots, err = PolyRoots([]float64{3})
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, err = PolyRoots([]float64{0, 0})
	assert.Error(t, err)
}

func TestFindRoots(t *testing.T) {
	roots, err := FindRoots([]float64{0.5}, []float64{0.5})
	require.NoError(t, err)

	require.Len(t, roots.AR, 1)
	require.Len(t, roots.MA, 1)
	assert.InDelta(t, 2.0, roots.AR[0].Re, 1e-10)
	assert.InDelta(t, -2.0, roots.MA[0].Re, 1e-10)
	assert.InDelta(t, 2.0, roots.MA[0].Modulus, 1e-10)
	assert.True(t, roots.Stationary())
	assert.True(t, roots.Invertible())

	empty, err := FindRoots(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.AR)
	assert.True(t, empty.Stationary())

	explosive, err := FindRoots([]float64{1.2}, nil)
	require.NoError(t, err)
	assert.False(t, explosive.Stationary())
}

func TestCommonRoots(t *testing.T) {
	// AR (1 - 0.5z)(1 - 0.2z), MA (1 - 0.48z): the 2.0 and 2.083 roots nearly cancel.
	roots, err := FindRoots([]float64{0.7, -0.1}, []float64{-0.48})
	require.NoError(t, err)

	pairs := roots.CommonRoots(0.1)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 2.0, pairs[0].AR.Re, 1e-9)
	assert.InDelta(t, 1/0.48, pairs[0].MA.Re, 1e-9)
	assert.InDelta(t, 1/0.48-2, pairs[0].Distance, 1e-9)

	assert.Empty(t, roots.CommonRoots(0.05))
	assert.Len(t, roots.CommonRoots(10), 2)
}

func TestCommonRootsComplexPair(t *testing.T) {
	ar := []float64{1.0, -0.5}  // roots 1 +- i
	ma := []float64{-1.0, 0.49} // roots close to 1.02 +- 1.02i
	roots, err := FindRoots(ar, ma)
	require.NoError(t, err)

	pairs := roots.CommonRoots(0.1)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Less(t, p.Distance, 0.1)
		assert.Equal(t, math.Signbit(p.AR.Im), math.Signbit(p.MA.Im))
	}
}

func TestArStationary(t *testing.T) {
	assert.True(t, arStationary(nil))
	assert.True(t, arStationary([]float64{0, 0}))
	assert.True(t, arStationary([]float64{0.5, 0.3}))
	assert.False(t, arStationary([]float64{1.0}))
	assert.False(t, arStationary([]float64{0.6, 0.5}))
}
