// Package timeseries provides the quarterly series type shared by every stage.
package timeseries

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Series represents an ordered time series with one timestamp per value.
// A Series is treated as read-only once constructed.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a series from values with quarterly timestamps starting at 1970 Q1.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 3*i, 0)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a series with explicit timestamps. Timestamps must
// be strictly increasing.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, &FormatError{Row: -1, Reason: "timestamps and values must have the same length"}
	}
	s := &Series{
		Timestamps: timestamps,
		Values:     values,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that periods are strictly increasing and values are finite.
func (s *Series) Validate() error {
	for i, v := range s.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &FormatError{Row: i, Value: fmt.Sprint(v), Reason: "value is not a finite number"}
		}
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if !s.Timestamps[i].After(s.Timestamps[i-1]) {
			return &FormatError{
				Row:    i,
				Value:  FormatQuarter(s.Timestamps[i]),
				Reason: "periods must be strictly increasing",
			}
		}
	}
	return nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN applies first differencing n times. The result is n observations
// shorter and keeps the timestamps of the later observation in each pair.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 {
		return s.Copy()
	}
	if len(s.Values) <= n {
		return &Series{Values: []float64{}, Name: s.Name + "_diff"}
	}

	values := make([]float64, len(s.Values))
	copy(values, s.Values)
	for k := 0; k < n; k++ {
		for i := len(values) - 1; i > k; i-- {
			values[i] -= values[i-1]
		}
	}
	result := make([]float64, len(values)-n)
	copy(result, values[n:])

	timestamps := make([]time.Time, len(result))
	if len(s.Timestamps) == len(s.Values) {
		copy(timestamps, s.Timestamps[n:])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_diff",
	}
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Log applies the natural logarithm. Non-positive values are a format error
// since the log series would not be numeric.
func (s *Series) Log() (*Series, error) {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if v <= 0 {
			return nil, &FormatError{Row: i, Value: fmt.Sprint(v), Reason: "log of non-positive value"}
		}
		result[i] = math.Log(v)
	}

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       "log_" + s.Name,
	}, nil
}

// Period returns the label of observation i, e.g. "1955 Q1".
func (s *Series) Period(i int) string {
	if i < 0 || i >= len(s.Timestamps) {
		return fmt.Sprintf("#%d", i+1)
	}
	return FormatQuarter(s.Timestamps[i])
}

// FormatQuarter renders a timestamp as "YYYY Qn".
func FormatQuarter(t time.Time) string {
	return fmt.Sprintf("%d Q%d", t.Year(), (int(t.Month())-1)/3+1)
}
