package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/internal/config"
	"github.com/sartorproj/arimaselect/timeseries"
)

func driftSeries(seed int64, n int) *timeseries.Series {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	level, u := 5.0, 0.0
	for i := range values {
		u = 0.4*u + 0.01*rng.NormFloat64()
		level += 0.008 + u
		values[i] = level
	}
	s := timeseries.New(values)
	s.Name = "synthetic"
	return s
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Data.Path = "synthetic.csv"
	cfg.ADF.MaxLag = 3
	cfg.Grid.MaxP = 1
	cfg.Grid.MaxQ = 1
	cfg.Grid.Trend = true
	cfg.Grid.Workers = 2
	cfg.Roots.Tolerance = 0.1
	cfg.Roots.Top = 2
	cfg.Diagnostics.LjungBoxLags = []int{4, 8}
	cfg.Forecast.Model = &config.ModelConfig{P: 1, D: 1, Q: 0, Trend: true}
	cfg.Forecast.Horizon = 4
	return cfg
}

type stageRecorder struct {
	mu         sync.Mutex
	stages     []string
	candidates int
}

func (s *stageRecorder) ObserveCandidate(label string, ok bool, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates++
}

func (s *stageRecorder) ObserveStage(stage string, elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
}

type failingEstimator struct{}

func (failingEstimator) Fit(series *timeseries.Series, spec arima.Spec) (*arima.FitResult, error) {
	return nil, &arima.EstimationError{Model: spec.Label(), Err: arima.ErrNonConvergence}
}

func TestRun(t *testing.T) {
	series := driftSeries(7, 120)
	rec := &stageRecorder{}

	report, err := Run(testConfig(), series, Options{Recorder: rec})
	require.NoError(t, err)

	assert.Equal(t, 120, report.Series.NObs)
	assert.Equal(t, "1970 Q1", report.Series.First)
	require.NotNil(t, report.Levels)
	assert.Len(t, report.Levels.Lags, 4)
	assert.Equal(t, 119, report.Levels.NObs)
	assert.Equal(t, 118, report.Differences.NObs)
	assert.Contains(t, report.Levels.CriticalValues, "5%")

	require.NotNil(t, report.Grid)
	assert.Equal(t, 4, len(report.Grid.Results)+len(report.Grid.Failures))
	assert.Len(t, report.ByAIC, len(report.Grid.Results))
	assert.Len(t, report.ByBIC, len(report.Grid.Results))

	require.NotEmpty(t, report.Roots)
	for _, ra := range report.Roots {
		assert.Contains(t, report.Grid.Results, ra.Label)
	}

	require.NotNil(t, report.Nested)
	assert.Equal(t, report.ByAIC[0], report.Nested.Labels[0])
	assert.Len(t, report.NestedByAIC, len(report.Nested.Results))

	require.NotEmpty(t, report.Residuals)
	assert.Equal(t, 0, len(report.Residuals)%2)

	require.NotNil(t, report.Forecast)
	assert.Equal(t, "ARIMA(1,1,0)+trend", report.Forecast.Label)
	assert.Equal(t, []string{"2000 Q1", "2000 Q2", "2000 Q3", "2000 Q4"}, report.Forecast.Periods)
	assert.Len(t, report.Forecast.Values, 4)

	assert.Equal(t, []string{"adf", "correlogram", "grid", "roots", "nested", "residuals", "forecast"}, rec.stages)
	assert.Equal(t, 4, rec.candidates)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"by_aic"`)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, report, 0))
	out := buf.String()
	assert.Contains(t, out, "ADF on levels")
	assert.Contains(t, out, "Ranked by BIC")
	assert.Contains(t, out, "Forecast from ARIMA(1,1,0)+trend")
}

func TestRunRecordsFailuresWithoutAborting(t *testing.T) {
	cfg := testConfig()
	cfg.Forecast.Model = nil

	report, err := Run(cfg, driftSeries(3, 80), Options{Estimator: failingEstimator{}})
	require.NoError(t, err)

	assert.Empty(t, report.Grid.Results)
	assert.Len(t, report.Grid.Failures, 4)
	assert.Empty(t, report.Roots)
	assert.Nil(t, report.Nested)
	assert.Empty(t, report.Residuals)
	assert.Nil(t, report.Forecast)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Roots.Tolerance = 0

	_, err := Run(cfg, driftSeries(1, 50), Options{})
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestRunRejectsInfeasibleLag(t *testing.T) {
	cfg := testConfig()
	cfg.ADF.MaxLag = 30

	_, err := Run(cfg, driftSeries(1, 40), Options{Estimator: failingEstimator{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adf")
}

func TestLoadSeries(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/inc.csv"
	csv := "quarter,income\n1955 Q1,100\n1955 Q2,102\n1955 Q3,101\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	series, err := LoadSeries(config.DataConfig{Path: path, ValueColumn: "income", Log: true})
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
	assert.InDelta(t, 4.60517, series.Values[0], 1e-5)
	assert.Equal(t, "1955 Q2", series.Period(1))

	_, err = LoadSeries(config.DataConfig{Path: dir + "/missing.csv"})
	assert.Error(t, err)
}
