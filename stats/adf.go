package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ADFLag is the outcome of the Dickey-Fuller regression at one lag order.
type ADFLag struct {
	Order          int     `json:"order"`
	Statistic      float64 `json:"statistic"`                 // t-ratio of the lagged level
	TrendStatistic float64 `json:"trend_statistic,omitempty"` // t-ratio of the trend, when requested
	NObs           int     `json:"nobs"`                      // rows used in the regression
}

// ADFResult holds Dickey-Fuller pseudo-t statistics for lag orders 0..MaxLag.
//
// The statistics do not follow a normal or Student-t law. Compare them with
// a Dickey-Fuller table such as DickeyFullerCriticalValues.
type ADFResult struct {
	Lags   []ADFLag `json:"lags"`
	MaxLag int      `json:"max_lag"`
	Trend  bool     `json:"trend"`
	NObs   int      `json:"nobs"` // number of first differences
}

// AugmentedDF runs the augmented Dickey-Fuller regression
//
//	d[t] = a + b*y[t-1] (+ c*t) + g1*d[t-1] + ... + gj*d[t-j] + e[t]
//
// for every lag order j in 0..maxLag and reports the t-ratio of b (and of c
// when trend is set). Order j is fitted on rows j..T-1 of the differenced
// series so the zero-filled lag entries never enter a regression.
func AugmentedDF(series []float64, maxLag int, trend bool) (*ADFResult, error) {
	n := len(series)
	if n < 3 {
		return nil, fmt.Errorf("%w: series of length %d is too short", ErrInvalidLag, n)
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("%w: negative max lag %d", ErrInvalidLag, maxLag)
	}

	diff := make([]float64, n-1)
	for i := 1; i < n; i++ {
		diff[i-1] = series[i] - series[i-1]
	}
	t := len(diff)

	extra := 2 // intercept, lagged level
	if trend {
		extra++
	}
	if t-maxLag <= maxLag+extra {
		return nil, fmt.Errorf("%w: max lag %d leaves too few rows for %d differences", ErrInvalidLag, maxLag, t)
	}

	lags, err := BuildLags(diff, maxLag)
	if err != nil {
		return nil, err
	}

	result := &ADFResult{
		Lags:   make([]ADFLag, 0, maxLag+1),
		MaxLag: maxLag,
		Trend:  trend,
		NObs:   t,
	}

	for order := 0; order <= maxLag; order++ {
		design, y, levelCol, trendCol := adfDesign(series, lags, order, trend)

		fit, err := OLS(design, y)
		if err != nil {
			return nil, fmt.Errorf("adf regression at lag %d: %w", order, err)
		}

		row := ADFLag{
			Order:     order,
			Statistic: fit.TStat(levelCol),
			NObs:      fit.NObs,
		}
		if trend {
			row.TrendStatistic = fit.TStat(trendCol)
		}
		result.Lags = append(result.Lags, row)
	}

	return result, nil
}

// adfDesign assembles the regression for one lag order by column position:
// intercept, lagged level, [trend], d[t-1] .. d[t-order].
func adfDesign(series []float64, lags *LagMatrix, order int, trend bool) (x *mat.Dense, y []float64, levelCol, trendCol int) {
	start := order
	rows := lags.Rows() - start

	cols := 2 + order
	levelCol, trendCol = 1, -1
	if trend {
		trendCol = 2
		cols++
	}
	firstLag := cols - order

	x = mat.NewDense(rows, cols, nil)
	y = make([]float64, rows)
	for r := 0; r < rows; r++ {
		i := start + r
		y[r] = lags.At(i, 0)
		x.Set(r, 0, 1)
		x.Set(r, levelCol, series[i]) // y[t-1] for d[t] = y[t] - y[t-1]
		if trend {
			x.Set(r, trendCol, float64(i+2)) // period index of y[t]
		}
		for k := 1; k <= order; k++ {
			x.Set(r, firstLag+k-1, lags.At(i, k))
		}
	}
	return x, y, levelCol, trendCol
}

// Statistic returns the level statistic for a lag order.
func (r *ADFResult) Statistic(order int) (float64, bool) {
	if order < 0 || order >= len(r.Lags) {
		return math.NaN(), false
	}
	return r.Lags[order].Statistic, true
}

// Statistics returns the level statistic keyed by lag order.
func (r *ADFResult) Statistics() map[int]float64 {
	out := make(map[int]float64, len(r.Lags))
	for _, l := range r.Lags {
		out[l.Order] = l.Statistic
	}
	return out
}

// TrendStatistics returns the trend statistic keyed by lag order, or nil when
// the test was run without a trend.
func (r *ADFResult) TrendStatistics() map[int]float64 {
	if !r.Trend {
		return nil
	}
	out := make(map[int]float64, len(r.Lags))
	for _, l := range r.Lags {
		out[l.Order] = l.TrendStatistic
	}
	return out
}

// dfTable holds Fuller's finite-sample critical values for the t-ratio of the
// lagged level, keyed by sample size. The last row is asymptotic.
var dfTable = struct {
	sizes    []int
	constant [][3]float64
	trend    [][3]float64
}{
	sizes: []int{25, 50, 100, 250, 500, math.MaxInt},
	constant: [][3]float64{
		{-3.75, -3.00, -2.63},
		{-3.58, -2.93, -2.60},
		{-3.51, -2.89, -2.58},
		{-3.46, -2.88, -2.57},
		{-3.44, -2.87, -2.57},
		{-3.43, -2.86, -2.57},
	},
	trend: [][3]float64{
		{-4.38, -3.60, -3.24},
		{-4.15, -3.50, -3.18},
		{-4.04, -3.45, -3.15},
		{-3.99, -3.43, -3.13},
		{-3.98, -3.42, -3.13},
		{-3.96, -3.41, -3.12},
	},
}

// DickeyFullerCriticalValues returns the 1%, 5% and 10% critical values for a
// regression with a constant (and trend) at the table row for sample size n.
// Sizes between rows use the smaller tabulated size.
func DickeyFullerCriticalValues(trend bool, n int) map[string]float64 {
	idx := sort.SearchInts(dfTable.sizes, n)
	if idx >= len(dfTable.sizes) {
		idx = len(dfTable.sizes) - 1
	}
	if idx > 0 && dfTable.sizes[idx] != n {
		idx--
	}

	row := dfTable.constant[idx]
	if trend {
		row = dfTable.trend[idx]
	}
	return map[string]float64{
		"1%":  row[0],
		"5%":  row[1],
		"10%": row[2],
	}
}
