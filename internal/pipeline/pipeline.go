// Package pipeline runs the full analysis of one series: unit-root tests on
// levels and differences, the model grid, common-root analysis, nested
// restrictions, residual checks and an optional forecast.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/internal/config"
	"github.com/sartorproj/arimaselect/selection"
	"github.com/sartorproj/arimaselect/stats"
	"github.com/sartorproj/arimaselect/timeseries"
)

// Recorder receives per-candidate and per-stage timings.
type Recorder interface {
	selection.Observer
	ObserveStage(stage string, elapsed time.Duration)
}

// Options carries the collaborators of a run.
type Options struct {
	Estimator arima.Estimator // nil: arima.NewMLEstimator()
	Recorder  Recorder        // optional
}

// SeriesSummary describes the analysed series.
type SeriesSummary struct {
	Name  string `json:"name"`
	NObs  int    `json:"n_obs"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// UnitRoot is an ADF result with reference critical values for its sample size.
type UnitRoot struct {
	*stats.ADFResult
	CriticalValues map[string]float64 `json:"critical_values"`
}

// RootAnalysis holds the characteristic roots of one candidate.
type RootAnalysis struct {
	Label      string           `json:"label"`
	AR         []arima.Root     `json:"ar"`
	MA         []arima.Root     `json:"ma"`
	Stationary bool             `json:"stationary"`
	Invertible bool             `json:"invertible"`
	Common     []arima.RootPair `json:"common"`
	Error      string           `json:"error,omitempty"`
}

// ResidualCheck holds portmanteau tests of one model's residuals at K lags.
type ResidualCheck struct {
	Label     string                 `json:"label"`
	Lags      int                    `json:"lags"`
	FitDF     int                    `json:"fitdf"`
	LjungBox  stats.DiagnosticResult `json:"ljung_box"`
	BoxPierce stats.DiagnosticResult `json:"box_pierce"`
}

// ForecastResult holds point forecasts of the named model.
type ForecastResult struct {
	Label   string    `json:"label"`
	Periods []string  `json:"periods"`
	Values  []float64 `json:"values"`
}

// Report aggregates every stage. Failed candidates and NotApplicable
// diagnostics are reported, never dropped.
type Report struct {
	Series      SeriesSummary            `json:"series"`
	Levels      *UnitRoot                `json:"adf_levels"`
	Differences *UnitRoot                `json:"adf_differences"`
	ACF         *stats.CorrelogramResult `json:"acf,omitempty"`
	PACF        *stats.CorrelogramResult `json:"pacf,omitempty"`
	Grid        *selection.GridReport    `json:"grid"`
	ByAIC       []string                 `json:"by_aic"`
	ByBIC       []string                 `json:"by_bic"`
	Roots       []RootAnalysis           `json:"roots"`
	Nested      *selection.NestedReport  `json:"nested,omitempty"`
	NestedByAIC []string                 `json:"nested_by_aic,omitempty"`
	NestedByBIC []string                 `json:"nested_by_bic,omitempty"`
	Residuals   []ResidualCheck          `json:"residual_checks"`
	Forecast    *ForecastResult          `json:"forecast,omitempty"`
}

// LoadSeries reads the configured CSV file.
func LoadSeries(cfg config.DataConfig) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	opts.PeriodColumn = cfg.PeriodColumn
	if cfg.ValueColumn != "" {
		opts.ValueColumn = cfg.ValueColumn
	}
	series, err := timeseries.LoadCSV(cfg.Path, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Log {
		return series.Log()
	}
	return series, nil
}

type runner struct {
	cfg    *config.Config
	series *timeseries.Series
	est    arima.Estimator
	rec    Recorder
	report *Report
}

// Run executes every stage on series. Only configuration problems abort a
// run; estimation failures are recorded in the report.
func Run(cfg *config.Config, series *timeseries.Series, opts Options) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() < 3 {
		return nil, errors.New("analysis requires at least 3 observations")
	}

	r := &runner{
		cfg:    cfg,
		series: series,
		est:    opts.Estimator,
		rec:    opts.Recorder,
		report: &Report{
			Series: SeriesSummary{
				Name:  series.Name,
				NObs:  series.Len(),
				First: series.Period(0),
				Last:  series.Period(series.Len() - 1),
			},
		},
	}
	if r.est == nil {
		r.est = arima.NewMLEstimator()
	}

	stages := []struct {
		name string
		fn   func() error
	}{
		{"adf", r.unitRoots},
		{"correlogram", r.correlogram},
		{"grid", r.grid},
		{"roots", r.roots},
		{"nested", r.nested},
		{"residuals", r.residuals},
		{"forecast", r.forecast},
	}
	for _, s := range stages {
		if err := r.stage(s.name, s.fn); err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return r.report, nil
}

func (r *runner) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if r.rec != nil {
		r.rec.ObserveStage(name, elapsed)
	}
	log.Info().Str("stage", name).Dur("elapsed", elapsed).Msg("stage finished")
	return err
}

// RunADF runs the augmented Dickey-Fuller regressions on values and attaches
// the reference critical values for the sample size.
func RunADF(values []float64, maxLag int, trend bool) (*UnitRoot, error) {
	res, err := stats.AugmentedDF(values, maxLag, trend)
	if err != nil {
		return nil, err
	}
	return &UnitRoot{
		ADFResult:      res,
		CriticalValues: stats.DickeyFullerCriticalValues(trend, res.NObs),
	}, nil
}

func (r *runner) unitRoots() error {
	levels, err := RunADF(r.series.Values, r.cfg.ADF.MaxLag, r.cfg.ADF.Trend)
	if err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	diffs, err := RunADF(r.series.Diff().Values, r.cfg.ADF.MaxLag, r.cfg.ADF.Trend)
	if err != nil {
		return fmt.Errorf("differences: %w", err)
	}
	r.report.Levels, r.report.Differences = levels, diffs
	return nil
}

func (r *runner) correlogram() error {
	w := r.series.DiffN(r.cfg.Grid.D).Values
	r.report.ACF = stats.ACFWithConfidence(w, r.cfg.Correlogram.MaxLag)
	r.report.PACF = stats.PACFWithConfidence(w, r.cfg.Correlogram.MaxLag)
	return nil
}

func (r *runner) grid() error {
	gc := &selection.GridConfig{
		MaxP:   r.cfg.Grid.MaxP,
		D:      r.cfg.Grid.D,
		MaxQ:   r.cfg.Grid.MaxQ,
		Trend:  r.cfg.Grid.Trend,
		Method: r.cfg.Grid.EstimationMethod(),
	}
	opts := &selection.Options{Workers: r.cfg.Grid.Workers}
	if r.rec != nil {
		opts.Observer = r.rec
	}

	report, err := selection.RunGrid(r.series, gc, r.est, opts)
	if err != nil {
		return err
	}
	r.report.Grid = report
	r.report.ByAIC = labels(report.RankByAIC())
	r.report.ByBIC = labels(report.RankByBIC())
	return nil
}

// shortlist returns the best Roots.Top candidates by AIC and by BIC, AIC
// first, without duplicates.
func (r *runner) shortlist() []*selection.Evaluation {
	top := r.cfg.Roots.Top
	seen := make(map[string]bool)
	var out []*selection.Evaluation
	for _, ranking := range [][]*selection.Evaluation{r.report.Grid.RankByAIC(), r.report.Grid.RankByBIC()} {
		for i, ev := range ranking {
			if i >= top {
				break
			}
			if !seen[ev.Label] {
				seen[ev.Label] = true
				out = append(out, ev)
			}
		}
	}
	return out
}

func (r *runner) roots() error {
	for _, ev := range r.shortlist() {
		ra := RootAnalysis{Label: ev.Label}
		roots, err := arima.FindRoots(ev.Fit.AR(), ev.Fit.MA())
		if err != nil {
			ra.Error = err.Error()
			log.Warn().Str("model", ev.Label).Err(err).Msg("root analysis failed")
		} else {
			ra.AR, ra.MA = roots.AR, roots.MA
			ra.Stationary = roots.Stationary()
			ra.Invertible = roots.Invertible()
			ra.Common = roots.CommonRoots(r.cfg.Roots.Tolerance)
		}
		r.report.Roots = append(r.report.Roots, ra)
	}
	return nil
}

func (r *runner) nested() error {
	var base arima.Spec
	if r.cfg.Nested.Base != nil {
		spec, err := r.cfg.Nested.Base.Spec()
		if err != nil {
			return err
		}
		base = spec
	} else {
		ranked := r.report.Grid.RankByAIC()
		if len(ranked) == 0 {
			log.Warn().Msg("no grid candidate succeeded; skipping nested restrictions")
			return nil
		}
		base = ranked[0].Spec
	}

	masks := r.cfg.Nested.Masks
	if len(masks) == 0 {
		masks = selection.DropOneMasks(base)
	}
	if len(masks) == 0 {
		log.Info().Str("base", base.Label()).Msg("base model has no coefficients to restrict")
		return nil
	}

	nested, err := selection.EvaluateRestrictions(r.series, base, masks, r.est)
	if err != nil {
		return err
	}
	r.report.Nested = nested
	r.report.NestedByAIC, r.report.NestedByBIC = nested.Ranked()
	return nil
}

// armaDF counts the free AR and MA coefficients of spec.
func armaDF(spec arima.Spec) int {
	n := 0
	for i := 0; i < spec.P+spec.Q; i++ {
		if spec.IsFree(i) {
			n++
		}
	}
	return n
}

func (r *runner) residuals() error {
	evals := r.shortlist()
	if r.report.Nested != nil {
		for _, label := range r.report.Nested.Labels {
			if ev, ok := r.report.Nested.Results[label]; ok {
				evals = append(evals, ev)
			}
		}
	}

	for _, ev := range evals {
		r.report.Residuals = append(r.report.Residuals, CheckResiduals(ev, r.cfg.Diagnostics.LjungBoxLags)...)
	}
	return nil
}

// CheckResiduals runs Ljung-Box and Box-Pierce tests of ev's residuals at
// each K in lags, with fitdf equal to the number of free AR and MA coefficients.
func CheckResiduals(ev *selection.Evaluation, lags []int) []ResidualCheck {
	fitdf := armaDF(ev.Spec)
	checks := make([]ResidualCheck, 0, len(lags))
	for _, k := range lags {
		checks = append(checks, ResidualCheck{
			Label:     ev.Label,
			Lags:      k,
			FitDF:     fitdf,
			LjungBox:  stats.LjungBox(ev.Fit.Residuals, ev.NObs, fitdf, k),
			BoxPierce: stats.BoxPierce(ev.Fit.Residuals, ev.NObs, fitdf, k),
		})
	}
	return checks
}

// ForecastPeriods labels the horizon quarters following the last observation.
func ForecastPeriods(series *timeseries.Series, horizon int) []string {
	last := series.Timestamps[series.Len()-1]
	periods := make([]string, horizon)
	for h := range periods {
		periods[h] = timeseries.FormatQuarter(last.AddDate(0, 3*(h+1), 0))
	}
	return periods
}

func (r *runner) forecast() error {
	if r.cfg.Forecast.Model == nil {
		return nil
	}
	spec, err := r.cfg.Forecast.Model.Spec()
	if err != nil {
		return err
	}

	label := spec.Label()
	var fit *arima.FitResult
	if ev, ok := r.report.Grid.Results[label]; ok {
		fit = ev.Fit
	} else {
		fit, err = r.est.Fit(r.series, spec)
		if err != nil {
			log.Warn().Str("model", label).Err(err).Msg("forecast model could not be estimated")
			return nil
		}
	}

	horizon := r.cfg.Forecast.Horizon
	values, err := arima.Forecast(fit, horizon)
	if err != nil {
		log.Warn().Str("model", label).Err(err).Msg("forecast failed")
		return nil
	}

	r.report.Forecast = &ForecastResult{Label: label, Periods: ForecastPeriods(r.series, horizon), Values: values}
	return nil
}

func labels(evals []*selection.Evaluation) []string {
	out := make([]string, len(evals))
	for i, ev := range evals {
		out[i] = ev.Label
	}
	return out
}
