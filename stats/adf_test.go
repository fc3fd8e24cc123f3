package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// manualADF fits the ADF regression for one order from trimmed slices,
// without going through the lag matrix.
func manualADF(t *testing.T, series []float64, order int, trend bool) *RegressionResult {
	t.Helper()

	d := make([]float64, len(series)-1)
	for i := range d {
		d[i] = series[i+1] - series[i]
	}

	var rows [][]float64
	var y []float64
	for i := order; i < len(d); i++ {
		row := []float64{1, series[i]}
		if trend {
			row = append(row, float64(i+2))
		}
		for k := 1; k <= order; k++ {
			row = append(row, d[i-k])
		}
		rows = append(rows, row)
		y = append(y, d[i])
	}

	x := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		x.SetRow(i, row)
	}
	fit, err := OLS(x, y)
	require.NoError(t, err)
	return fit
}

func TestAugmentedDFMatchesTrimmedRegression(t *testing.T) {
	series := randomWalk(11, 80)

	for _, trend := range []bool{false, true} {
		res, err := AugmentedDF(series, 4, trend)
		require.NoError(t, err)
		require.Len(t, res.Lags, 5)
		assert.Equal(t, 79, res.NObs)

		for order := 0; order <= 4; order++ {
			want := manualADF(t, series, order, trend)
			got := res.Lags[order]

			assert.Equal(t, order, got.Order)
			assert.Equal(t, 79-order, got.NObs)
			assert.InDelta(t, want.TStat(1), got.Statistic, 1e-9, "order %d trend %v", order, trend)
			if trend {
				assert.InDelta(t, want.TStat(2), got.TrendStatistic, 1e-9)
			} else {
				assert.Equal(t, 0.0, got.TrendStatistic)
			}
		}
	}
}

func TestAugmentedDFExcludesPaddedRows(t *testing.T) {
	series := randomWalk(12, 60)
	const order = 3

	res, err := AugmentedDF(series, order, false)
	require.NoError(t, err)

	// Regress over every row of the lag matrix, padded zeros included.
	d := make([]float64, len(series)-1)
	for i := range d {
		d[i] = series[i+1] - series[i]
	}
	lags, err := BuildLags(d, order)
	require.NoError(t, err)

	x := mat.NewDense(len(d), 2+order, nil)
	for i := range d {
		x.Set(i, 0, 1)
		x.Set(i, 1, series[i])
		for k := 1; k <= order; k++ {
			x.Set(i, 1+k, lags.At(i, k))
		}
	}
	padded, err := OLS(x, d)
	require.NoError(t, err)

	assert.Equal(t, len(d)-order, res.Lags[order].NObs)
	assert.NotEqual(t, padded.NObs, res.Lags[order].NObs)
	assert.Greater(t, math.Abs(padded.TStat(1)-res.Lags[order].Statistic), 1e-6)
}

func TestAugmentedDFOrderZero(t *testing.T) {
	series := randomWalk(13, 40)

	res, err := AugmentedDF(series, 0, false)
	require.NoError(t, err)
	require.Len(t, res.Lags, 1)

	stat, ok := res.Statistic(0)
	require.True(t, ok)
	assert.InDelta(t, manualADF(t, series, 0, false).TStat(1), stat, 1e-9)
	assert.Equal(t, map[int]float64{0: stat}, res.Statistics())
	assert.Nil(t, res.TrendStatistics())

	_, ok = res.Statistic(1)
	assert.False(t, ok)
}

func TestAugmentedDFSeparatesStationaryFromRandomWalk(t *testing.T) {
	walk, err := AugmentedDF(randomWalk(14, 200), 2, false)
	require.NoError(t, err)
	stationary, err := AugmentedDF(ar1(14, 200, 0.3), 2, false)
	require.NoError(t, err)

	for order := 0; order <= 2; order++ {
		t.Logf("order %d: walk=%.3f stationary=%.3f", order, walk.Lags[order].Statistic, stationary.Lags[order].Statistic)
		assert.Less(t, stationary.Lags[order].Statistic, -4.0)
		assert.Greater(t, walk.Lags[order].Statistic, stationary.Lags[order].Statistic)
	}
}

func TestAugmentedDFInvalidLag(t *testing.T) {
	_, err := AugmentedDF([]float64{1, 2}, 0, false)
	assert.ErrorIs(t, err, ErrInvalidLag)

	_, err = AugmentedDF(randomWalk(1, 20), -1, false)
	assert.ErrorIs(t, err, ErrInvalidLag)

	_, err = AugmentedDF(randomWalk(1, 20), 9, true)
	assert.ErrorIs(t, err, ErrInvalidLag)
}

func TestAugmentedDFReferenceSeries(t *testing.T) {
	series := loadReference(t)

	res, err := AugmentedDF(series.Values, 0, false)
	require.NoError(t, err)
	assert.InDelta(t, -0.708, res.Lags[0].Statistic, 0.0005)

	res, err = AugmentedDF(series.Values, 0, true)
	require.NoError(t, err)
	assert.InDelta(t, -1.271, res.Lags[0].Statistic, 0.0005)
}

func TestDickeyFullerCriticalValues(t *testing.T) {
	cv := DickeyFullerCriticalValues(false, 58)
	assert.Equal(t, -2.93, cv["5%"])

	cv = DickeyFullerCriticalValues(true, 58)
	assert.Equal(t, -4.15, cv["1%"])

	cv = DickeyFullerCriticalValues(false, 10)
	assert.Equal(t, -3.75, cv["1%"])

	cv = DickeyFullerCriticalValues(true, 100000)
	assert.Equal(t, -3.12, cv["10%"])
}
