package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/internal/config"
	"github.com/sartorproj/arimaselect/internal/pipeline"
	"github.com/sartorproj/arimaselect/selection"
	"github.com/sartorproj/arimaselect/timeseries"
)

var allSections = []string{
	config.SectionData, config.SectionADF, config.SectionCorrelogram, config.SectionGrid,
	config.SectionRoots, config.SectionNested, config.SectionDiagnostics, config.SectionForecast,
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis",
		Long:  "ADF on levels and differences, grid search, common roots, nested restrictions, residual checks and the configured forecast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(allSections...)
			if err != nil {
				return err
			}
			series, err := opts.loadSeries(cfg)
			if err != nil {
				return err
			}

			reg := opts.newMetrics()
			popts := pipeline.Options{}
			if reg != nil {
				popts.Recorder = reg
			}
			report, err := pipeline.Run(cfg, series, popts)
			opts.flushMetrics(reg)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("top") {
				top = cfg.Grid.Top
			}
			return opts.emit(stdout(), report, func(w io.Writer) error {
				return pipeline.WriteText(w, report, top)
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "Rows per ranking (default: grid.top, 0: all)")
	return cmd
}

func newADFCmd(opts *globalOptions) *cobra.Command {
	var (
		maxLag int
		trend  bool
	)
	cmd := &cobra.Command{
		Use:   "adf",
		Short: "Augmented Dickey-Fuller statistics on levels and first differences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-lag") {
				cfg.ADF.MaxLag = maxLag
			}
			if cmd.Flags().Changed("trend") {
				cfg.ADF.Trend = trend
			}
			if err := cfg.ValidateSections(config.SectionData, config.SectionADF); err != nil {
				return err
			}
			series, err := opts.loadSeries(cfg)
			if err != nil {
				return err
			}

			levels, err := pipeline.RunADF(series.Values, cfg.ADF.MaxLag, cfg.ADF.Trend)
			if err != nil {
				return fmt.Errorf("levels: %w", err)
			}
			diffs, err := pipeline.RunADF(series.Diff().Values, cfg.ADF.MaxLag, cfg.ADF.Trend)
			if err != nil {
				return fmt.Errorf("differences: %w", err)
			}

			out := struct {
				Levels      *pipeline.UnitRoot `json:"adf_levels"`
				Differences *pipeline.UnitRoot `json:"adf_differences"`
			}{levels, diffs}
			return opts.emit(stdout(), out, func(w io.Writer) error {
				if err := pipeline.WriteUnitRoot(w, "ADF on levels", levels); err != nil {
					return err
				}
				fmt.Fprintln(w)
				return pipeline.WriteUnitRoot(w, "ADF on first differences", diffs)
			})
		},
	}
	cmd.Flags().IntVar(&maxLag, "max-lag", 4, "Largest lagged-difference order")
	cmd.Flags().BoolVar(&trend, "trend", true, "Include a deterministic trend regressor")
	return cmd
}

func newGridCmd(opts *globalOptions) *cobra.Command {
	var (
		maxP, d, maxQ, top int
		trend              bool
		method             string
	)
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Fit every ARIMA(p,d,q) candidate and rank by AIC and BIC",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("max-p") {
				cfg.Grid.MaxP = maxP
			}
			if flags.Changed("d") {
				cfg.Grid.D = d
			}
			if flags.Changed("max-q") {
				cfg.Grid.MaxQ = maxQ
			}
			if flags.Changed("trend") {
				cfg.Grid.Trend = trend
			}
			if flags.Changed("method") {
				cfg.Grid.Method = method
			}
			if flags.Changed("top") {
				cfg.Grid.Top = top
			}
			if err := cfg.ValidateSections(config.SectionData, config.SectionGrid); err != nil {
				return err
			}
			series, err := opts.loadSeries(cfg)
			if err != nil {
				return err
			}

			gc := &selection.GridConfig{
				MaxP:   cfg.Grid.MaxP,
				D:      cfg.Grid.D,
				MaxQ:   cfg.Grid.MaxQ,
				Trend:  cfg.Grid.Trend,
				Method: cfg.Grid.EstimationMethod(),
			}
			gopts := &selection.Options{Workers: cfg.Grid.Workers}
			reg := opts.newMetrics()
			if reg != nil {
				gopts.Observer = reg
			}
			report, err := selection.RunGrid(series, gc, arima.NewMLEstimator(), gopts)
			opts.flushMetrics(reg)
			if err != nil {
				return err
			}
			return opts.emit(stdout(), report, func(w io.Writer) error {
				return selection.WriteGrid(w, report, cfg.Grid.Top)
			})
		},
	}
	cmd.Flags().IntVar(&maxP, "max-p", 5, "Maximum AR order")
	cmd.Flags().IntVar(&d, "d", 1, "Differencing order")
	cmd.Flags().IntVar(&maxQ, "max-q", 5, "Maximum MA order")
	cmd.Flags().BoolVar(&trend, "trend", false, "Include a linear trend in every candidate")
	cmd.Flags().StringVar(&method, "method", "CSS-ML", "Estimation method (CSS-ML|ML|CSS)")
	cmd.Flags().IntVar(&top, "top", 10, "Rows per ranking (0: all)")
	return cmd
}

// parseMask accepts "0101" or "false,true,false,true".
func parseMask(s string) ([]bool, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		var mask []bool
		for _, part := range strings.Split(s, ",") {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "true", "1":
				mask = append(mask, true)
			case "false", "0":
				mask = append(mask, false)
			default:
				return nil, fmt.Errorf("invalid mask entry %q", part)
			}
		}
		return mask, nil
	}
	mask := make([]bool, 0, len(s))
	for _, c := range s {
		switch c {
		case '1':
			mask = append(mask, true)
		case '0':
			mask = append(mask, false)
		default:
			return nil, fmt.Errorf("invalid mask %q: use 0 and 1", s)
		}
	}
	return mask, nil
}

func newNestedCmd(opts *globalOptions) *cobra.Command {
	var (
		base   string
		masks  []string
		method string
	)
	cmd := &cobra.Command{
		Use:   "nested",
		Short: "Fit restricted variants of a base model and rank them by AIC and BIC",
		Long: `Each --mask marks coefficients of the base model fixed at zero, in the order
ar1..arP, ma1..maQ, [intercept], [trend]. Without masks every coefficient is
dropped once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if base != "" {
				m, err := config.ParseModel(base)
				if err != nil {
					return err
				}
				m.Method = method
				cfg.Nested.Base = m
				cfg.Nested.Masks = nil
			}
			for _, s := range masks {
				mask, err := parseMask(s)
				if err != nil {
					return err
				}
				cfg.Nested.Masks = append(cfg.Nested.Masks, mask)
			}
			if cfg.Nested.Base == nil {
				return fmt.Errorf("%w: --base or nested.base is required", config.ErrInvalid)
			}
			if err := cfg.ValidateSections(config.SectionData, config.SectionNested); err != nil {
				return err
			}
			series, err := opts.loadSeries(cfg)
			if err != nil {
				return err
			}

			spec, err := cfg.Nested.Base.Spec()
			if err != nil {
				return err
			}
			list := cfg.Nested.Masks
			if len(list) == 0 {
				list = selection.DropOneMasks(spec)
			}
			report, err := selection.EvaluateRestrictions(series, spec, list, arima.NewMLEstimator())
			if err != nil {
				return err
			}
			return opts.emit(stdout(), report, func(w io.Writer) error {
				return selection.WriteNested(w, report)
			})
		},
	}
	cmd.Flags().StringVar(&base, "base", "", "Base model as p,d,q[+trend]")
	cmd.Flags().StringArrayVar(&masks, "mask", nil, "Restriction mask, e.g. 0100 (repeatable)")
	cmd.Flags().StringVar(&method, "method", "CSS-ML", "Estimation method (CSS-ML|ML|CSS)")
	return cmd
}

func newRootsCmd(opts *globalOptions) *cobra.Command {
	var ar, ma []float64
	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Characteristic roots of AR and MA coefficients and their common pairs",
		Long: `The AR polynomial is 1 - ar1 z - ... - arP z^P and the MA polynomial
1 + ma1 z + ... + maQ z^Q. Pairs of roots closer than --tolerance are listed;
the tolerance has no default.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(config.SectionRoots)
			if err != nil {
				return err
			}
			roots, err := arima.FindRoots(ar, ma)
			if err != nil {
				return err
			}
			ra := pipeline.RootAnalysis{
				Label:      fmt.Sprintf("ar=%v ma=%v", ar, ma),
				AR:         roots.AR,
				MA:         roots.MA,
				Stationary: roots.Stationary(),
				Invertible: roots.Invertible(),
				Common:     roots.CommonRoots(cfg.Roots.Tolerance),
			}
			return opts.emit(stdout(), ra, func(w io.Writer) error {
				if err := pipeline.WriteRoots(w, []pipeline.RootAnalysis{ra}); err != nil {
					return err
				}
				for _, r := range ra.AR {
					fmt.Fprintf(w, "AR root %.5f%+.5fi  |z|=%.5f\n", r.Re, r.Im, r.Modulus)
				}
				for _, r := range ra.MA {
					fmt.Fprintf(w, "MA root %.5f%+.5fi  |z|=%.5f\n", r.Re, r.Im, r.Modulus)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64SliceVar(&ar, "ar", nil, "AR coefficients ar1,...,arP")
	cmd.Flags().Float64SliceVar(&ma, "ma", nil, "MA coefficients ma1,...,maQ")
	return cmd
}

func newDiagnoseCmd(opts *globalOptions) *cobra.Command {
	var (
		model        string
		method       string
		lags         []int
		horizon      int
		residualsOut string
	)
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Fit one model and report coefficient tests, Ljung-Box checks and forecasts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lags") {
				cfg.Diagnostics.LjungBoxLags = lags
			}
			if err := cfg.ValidateSections(config.SectionData, config.SectionDiagnostics); err != nil {
				return err
			}
			m, err := config.ParseModel(model)
			if err != nil {
				return err
			}
			m.Method = method
			spec, err := m.Spec()
			if err != nil {
				return err
			}
			series, err := opts.loadSeries(cfg)
			if err != nil {
				return err
			}

			fit, err := arima.NewMLEstimator().Fit(series, spec)
			if err != nil {
				return err
			}
			ev := selection.Evaluate(spec.Label(), fit)
			checks := pipeline.CheckResiduals(ev, cfg.Diagnostics.LjungBoxLags)

			var fc *pipeline.ForecastResult
			if horizon > 0 {
				values, err := arima.Forecast(fit, horizon)
				if err != nil {
					return err
				}
				fc = &pipeline.ForecastResult{Label: ev.Label, Periods: pipeline.ForecastPeriods(series, horizon), Values: values}
			}

			if residualsOut != "" {
				if err := writeResiduals(residualsOut, series, fit); err != nil {
					return err
				}
				log.Info().Str("path", residualsOut).Msg("residuals written")
			}

			out := struct {
				Model     *selection.Evaluation    `json:"model"`
				Residuals []pipeline.ResidualCheck `json:"residual_checks"`
				Forecast  *pipeline.ForecastResult `json:"forecast,omitempty"`
			}{ev, checks, fc}
			return opts.emit(stdout(), out, func(w io.Writer) error {
				if err := selection.WriteCoefficients(w, ev); err != nil {
					return err
				}
				fmt.Fprintf(w, "logLik=%.3f  AIC=%.3f  BIC=%.3f  T=%d\n\n", ev.LogLik, ev.AIC, ev.BIC, ev.NObs)
				if err := pipeline.WriteResiduals(w, checks); err != nil {
					return err
				}
				if fc == nil {
					return nil
				}
				fmt.Fprintln(w)
				for i, p := range fc.Periods {
					fmt.Fprintf(w, "%s  %.5f\n", p, fc.Values[i])
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model as p,d,q[+trend] (required)")
	cmd.Flags().StringVar(&method, "method", "CSS-ML", "Estimation method (CSS-ML|ML|CSS)")
	cmd.Flags().IntSliceVar(&lags, "lags", nil, "Ljung-Box lags (default: diagnostics.ljung_box_lags)")
	cmd.Flags().IntVar(&horizon, "horizon", 0, "Forecast horizon in quarters (0: none)")
	cmd.Flags().StringVar(&residualsOut, "residuals-out", "", "Write residuals to this CSV file")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

// writeResiduals saves the model residuals aligned with the last periods of series.
func writeResiduals(path string, series *timeseries.Series, fit *arima.FitResult) error {
	n := len(fit.Residuals)
	offset := series.Len() - n
	if offset < 0 {
		return fmt.Errorf("%d residuals for %d observations", n, series.Len())
	}
	res, err := timeseries.NewWithTimestamps(series.Timestamps[offset:], fit.Residuals)
	if err != nil {
		return err
	}
	res.Name = "residual"
	return timeseries.SaveCSV(res, path)
}
