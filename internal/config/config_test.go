package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/arimaselect/arima"
)

const sample = `
data:
  path: testdata/ukinc.csv
  period_column: quarter
  value_column: income
  log: true
adf:
  max_lag: 6
grid:
  max_p: 3
  max_q: 2
  method: ML
  workers: 2
roots:
  tolerance: 0.1
nested:
  base: {p: 2, d: 1, q: 2}
  masks:
    - [false, true, false, false]
diagnostics:
  ljung_box_lags: [8]
forecast:
  model: {p: 0, d: 1, q: 1, trend: true}
  horizon: 4
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "income", cfg.Data.ValueColumn)
	assert.True(t, cfg.Data.Log)
	assert.Equal(t, 6, cfg.ADF.MaxLag)
	assert.True(t, cfg.ADF.Trend, "default kept")
	assert.Equal(t, 3, cfg.Grid.MaxP)
	assert.Equal(t, 1, cfg.Grid.D, "default kept")
	assert.Equal(t, arima.MethodML, cfg.Grid.EstimationMethod())
	assert.Equal(t, 0.1, cfg.Roots.Tolerance)
	assert.Equal(t, []int{8}, cfg.Diagnostics.LjungBoxLags)

	require.NotNil(t, cfg.Nested.Base)
	base, err := cfg.Nested.Base.Spec()
	require.NoError(t, err)
	assert.Equal(t, "ARIMA(2,1,2)", base.Label())

	fc, err := cfg.Forecast.Model.Spec()
	require.NoError(t, err)
	assert.Equal(t, "ARIMA(0,1,1)+trend", fc.Label())
}

func TestDefaultRequiresTolerance(t *testing.T) {
	cfg := Default()
	cfg.Data.Path = "x.csv"
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "roots.tolerance")

	cfg.Roots.Tolerance = 0.05
	assert.NoError(t, cfg.Validate())
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Default()
	cfg.Roots.Tolerance = 0.1
	cfg.Data.Path = "x.csv"
	cfg.ADF.MaxLag = -1
	cfg.Grid.Method = "yule-walker"
	cfg.Nested.Base = &ModelConfig{P: 1, D: 1, Q: 1}
	cfg.Nested.Masks = [][]bool{{true}}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "adf.max_lag")
	assert.Contains(t, msg, "grid.method")
	assert.Contains(t, msg, "nested.masks[0]")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Grid.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("grid: [1, 2"))
	assert.Error(t, err)
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel("2,1,2")
	require.NoError(t, err)
	assert.Equal(t, ModelConfig{P: 2, D: 1, Q: 2}, *m)

	m, err = ParseModel("(0,1,1)+trend")
	require.NoError(t, err)
	assert.True(t, m.Trend)
	assert.Equal(t, 1, m.Q)

	_, err = ParseModel("two")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = ParseModel("1,2,0+trend")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateSections(t *testing.T) {
	cfg := Default()
	cfg.Data.Path = "x.csv"

	assert.NoError(t, cfg.ValidateSections(SectionData, SectionADF, SectionGrid))
	assert.ErrorIs(t, cfg.ValidateSections(SectionRoots), ErrInvalid)
	assert.Error(t, cfg.ValidateSections("plots"))
}

func TestReadDoesNotValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  max_p: 2\n"), 0o644))

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Grid.MaxP)
	assert.Error(t, cfg.Validate())
}
