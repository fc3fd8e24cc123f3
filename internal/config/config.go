// Package config loads the YAML configuration of an analysis run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sartorproj/arimaselect/arima"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full analysis configuration.
type Config struct {
	Data        DataConfig        `yaml:"data"`
	ADF         ADFConfig         `yaml:"adf"`
	Correlogram CorrelogramConfig `yaml:"correlogram"`
	Grid        GridConfig        `yaml:"grid"`
	Roots       RootsConfig       `yaml:"roots"`
	Nested      NestedConfig      `yaml:"nested"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Forecast    ForecastConfig    `yaml:"forecast"`
}

// DataConfig locates the input series.
type DataConfig struct {
	Path         string `yaml:"path"`
	PeriodColumn string `yaml:"period_column"` // empty: auto-detect
	ValueColumn  string `yaml:"value_column"`  // empty: last column
	Log          bool   `yaml:"log"`           // analyse the natural log of the values
}

// ADFConfig controls the unit-root regressions.
type ADFConfig struct {
	MaxLag int  `yaml:"max_lag"`
	Trend  bool `yaml:"trend"` // add a deterministic trend regressor
}

// CorrelogramConfig controls the ACF/PACF of the differenced series.
type CorrelogramConfig struct {
	MaxLag int `yaml:"max_lag"`
}

// GridConfig describes the (p,q) search.
type GridConfig struct {
	MaxP    int    `yaml:"max_p"`
	D       int    `yaml:"d"`
	MaxQ    int    `yaml:"max_q"`
	Trend   bool   `yaml:"trend"`
	Method  string `yaml:"method"`  // CSS-ML, ML or CSS
	Workers int    `yaml:"workers"` // 0: one per CPU
	Top     int    `yaml:"top"`     // rows printed per ranking, 0: all
}

// RootsConfig controls the common-root analysis. Tolerance has no default.
type RootsConfig struct {
	Tolerance float64 `yaml:"tolerance"`
	Top       int     `yaml:"top"` // best candidates per criterion analysed
}

// ModelConfig names one specification.
type ModelConfig struct {
	P      int    `yaml:"p"`
	D      int    `yaml:"d"`
	Q      int    `yaml:"q"`
	Trend  bool   `yaml:"trend"`
	Method string `yaml:"method"`
}

// NestedConfig lists restrictions of a base model. Without a base, the best
// grid candidate by AIC is used. Without masks, one mask per coefficient is
// generated, each fixing that coefficient alone.
type NestedConfig struct {
	Base  *ModelConfig `yaml:"base"`
	Masks [][]bool     `yaml:"masks"`
}

// DiagnosticsConfig controls the residual checks.
type DiagnosticsConfig struct {
	LjungBoxLags []int `yaml:"ljung_box_lags"`
}

// ForecastConfig selects the model to forecast with. Nothing is forecast
// unless a model is named.
type ForecastConfig struct {
	Model   *ModelConfig `yaml:"model"`
	Horizon int          `yaml:"horizon"`
}

// Default returns the configuration used when no file is given. The root
// tolerance is left unset and must be supplied.
func Default() *Config {
	return &Config{
		ADF: ADFConfig{
			MaxLag: 4,
			Trend:  true,
		},
		Correlogram: CorrelogramConfig{MaxLag: 12},
		Grid: GridConfig{
			MaxP:   5,
			D:      1,
			MaxQ:   5,
			Method: arima.MethodCSSML.String(),
			Top:    10,
		},
		Roots: RootsConfig{Top: 3},
		Diagnostics: DiagnosticsConfig{
			LjungBoxLags: []int{4, 8, 12},
		},
		Forecast: ForecastConfig{Horizon: 8},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes path over the defaults without validating, so that command
// line overrides can be applied first.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return decode(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return cfg, nil
}

// Section names accepted by ValidateSections.
const (
	SectionData        = "data"
	SectionADF         = "adf"
	SectionCorrelogram = "correlogram"
	SectionGrid        = "grid"
	SectionRoots       = "roots"
	SectionNested      = "nested"
	SectionDiagnostics = "diagnostics"
	SectionForecast    = "forecast"
)

var allSections = []string{
	SectionData, SectionADF, SectionCorrelogram, SectionGrid,
	SectionRoots, SectionNested, SectionDiagnostics, SectionForecast,
}

// Validate checks every section and reports all problems, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	return c.ValidateSections(allSections...)
}

// ValidateSections checks only the named sections. Commands that run part
// of the analysis validate the sections they use.
func (c *Config) ValidateSections(sections ...string) error {
	var problems []string
	for _, name := range sections {
		check, ok := c.checks()[name]
		if !ok {
			problems = append(problems, fmt.Sprintf("unknown section %q", name))
			continue
		}
		problems = append(problems, check()...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) checks() map[string]func() []string {
	return map[string]func() []string{
		SectionData:        c.checkData,
		SectionADF:         c.checkADF,
		SectionCorrelogram: c.checkCorrelogram,
		SectionGrid:        c.checkGrid,
		SectionRoots:       c.checkRoots,
		SectionNested:      c.checkNested,
		SectionDiagnostics: c.checkDiagnostics,
		SectionForecast:    c.checkForecast,
	}
}

func (c *Config) checkData() []string {
	if c.Data.Path == "" {
		return []string{"data.path is required"}
	}
	return nil
}

func (c *Config) checkADF() []string {
	if c.ADF.MaxLag < 0 {
		return []string{fmt.Sprintf("adf.max_lag %d is negative", c.ADF.MaxLag)}
	}
	return nil
}

func (c *Config) checkCorrelogram() []string {
	if c.Correlogram.MaxLag < 1 {
		return []string{"correlogram.max_lag must be at least 1"}
	}
	return nil
}

func (c *Config) checkGrid() []string {
	var problems []string
	if c.Grid.MaxP < 0 || c.Grid.MaxQ < 0 || c.Grid.D < 0 {
		problems = append(problems, "grid bounds must be non-negative")
	}
	if c.Grid.Trend && c.Grid.D > 1 {
		problems = append(problems, "grid.trend requires d <= 1")
	}
	if _, err := arima.ParseMethod(c.Grid.Method); err != nil {
		problems = append(problems, fmt.Sprintf("grid.method: %v", err))
	}
	if c.Grid.Workers < 0 {
		problems = append(problems, fmt.Sprintf("grid.workers %d is negative", c.Grid.Workers))
	}
	return problems
}

func (c *Config) checkRoots() []string {
	var problems []string
	if !(c.Roots.Tolerance > 0) {
		problems = append(problems, "roots.tolerance must be positive")
	}
	if c.Roots.Top < 1 {
		problems = append(problems, "roots.top must be at least 1")
	}
	return problems
}

func (c *Config) checkNested() []string {
	if c.Nested.Base == nil {
		if len(c.Nested.Masks) > 0 {
			return []string{"nested.masks requires nested.base"}
		}
		return nil
	}
	spec, err := c.Nested.Base.Spec()
	if err != nil {
		return []string{fmt.Sprintf("nested.base: %v", err)}
	}
	var problems []string
	for i, mask := range c.Nested.Masks {
		if len(mask) != spec.NumCoefficients() {
			problems = append(problems, fmt.Sprintf("nested.masks[%d] has %d entries, %s has %d coefficients",
				i, len(mask), spec.Label(), spec.NumCoefficients()))
		}
	}
	return problems
}

func (c *Config) checkDiagnostics() []string {
	for _, lag := range c.Diagnostics.LjungBoxLags {
		if lag < 1 {
			return []string{"diagnostics.ljung_box_lags entries must be positive"}
		}
	}
	return nil
}

func (c *Config) checkForecast() []string {
	if c.Forecast.Model == nil {
		return nil
	}
	var problems []string
	if _, err := c.Forecast.Model.Spec(); err != nil {
		problems = append(problems, fmt.Sprintf("forecast.model: %v", err))
	}
	if c.Forecast.Horizon < 1 {
		problems = append(problems, "forecast.horizon must be at least 1")
	}
	return problems
}

// EstimationMethod returns the parsed grid method, CSS-ML when unparsable.
func (g GridConfig) EstimationMethod() arima.Method {
	m, err := arima.ParseMethod(g.Method)
	if err != nil {
		return arima.MethodCSSML
	}
	return m
}

// Spec converts m into a validated model specification.
func (m *ModelConfig) Spec() (arima.Spec, error) {
	method, err := arima.ParseMethod(m.Method)
	if err != nil {
		return arima.Spec{}, err
	}
	spec := arima.Spec{P: m.P, D: m.D, Q: m.Q, Trend: m.Trend, Method: method}
	if err := spec.Validate(); err != nil {
		return arima.Spec{}, err
	}
	return spec, nil
}

// ParseModel parses "p,d,q" with an optional "+trend" suffix.
func ParseModel(s string) (*ModelConfig, error) {
	m := &ModelConfig{}
	body := strings.TrimSpace(s)
	if strings.HasSuffix(body, "+trend") {
		m.Trend = true
		body = strings.TrimSuffix(body, "+trend")
	}
	body = strings.TrimSuffix(strings.TrimPrefix(body, "("), ")")
	if _, err := fmt.Sscanf(body, "%d,%d,%d", &m.P, &m.D, &m.Q); err != nil {
		return nil, fmt.Errorf("%w: model %q, want p,d,q", ErrInvalid, s)
	}
	if _, err := m.Spec(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return m, nil
}
