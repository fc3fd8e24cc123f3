package selection

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/timeseries"
)

// GridConfig describes the family of candidate models.
type GridConfig struct {
	MaxP   int          `json:"max_p"`  // Maximum AR order (default: 5)
	D      int          `json:"d"`      // Differencing order (default: 1)
	MaxQ   int          `json:"max_q"`  // Maximum MA order (default: 5)
	Trend  bool         `json:"trend"`  // Include a linear trend in every candidate
	Method arima.Method `json:"method"` // Estimation method (default: CSS-ML)
}

// DefaultGridConfig returns the default grid: p, q in [0,5] on first differences.
func DefaultGridConfig() *GridConfig {
	return &GridConfig{
		MaxP: 5,
		D:    1,
		MaxQ: 5,
	}
}

// Validate checks the grid bounds.
func (c *GridConfig) Validate() error {
	if c.MaxP < 0 || c.MaxQ < 0 || c.D < 0 {
		return fmt.Errorf("%w: grid bounds p<=%d d=%d q<=%d", arima.ErrInvalidSpec, c.MaxP, c.D, c.MaxQ)
	}
	return arima.Spec{D: c.D, Trend: c.Trend}.Validate()
}

// Specs enumerates the candidates in (p, q) order.
func (c *GridConfig) Specs() []arima.Spec {
	specs := make([]arima.Spec, 0, (c.MaxP+1)*(c.MaxQ+1))
	for p := 0; p <= c.MaxP; p++ {
		for q := 0; q <= c.MaxQ; q++ {
			specs = append(specs, arima.Spec{P: p, D: c.D, Q: q, Trend: c.Trend, Method: c.Method})
		}
	}
	return specs
}

// Observer is notified once per finished candidate. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveCandidate(label string, ok bool, elapsed time.Duration)
}

// Options controls how candidates are dispatched.
type Options struct {
	Workers  int      // concurrent fits; <= 0 uses runtime.NumCPU()
	Observer Observer // optional
}

func (o *Options) workers() int {
	if o == nil || o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

func (o *Options) observer() Observer {
	if o == nil {
		return nil
	}
	return o.Observer
}

// GridReport is the outcome of a grid search. It is read-only once RunGrid returns.
type GridReport struct {
	Config GridConfig `json:"config"`
	*Registry
}

// RankByAIC returns the successful candidates ordered by AIC.
func (r *GridReport) RankByAIC() []*Evaluation {
	return RankByAIC(r.Evaluations())
}

// RankByBIC returns the successful candidates ordered by BIC.
func (r *GridReport) RankByBIC() []*Evaluation {
	return RankByBIC(r.Evaluations())
}

// RunGrid fits every (p, q) candidate of cfg to series. A candidate that
// fails, including by panicking, is recorded under its label and never
// affects the others. Workers share no cancellation signal.
func RunGrid(series *timeseries.Series, cfg *GridConfig, est arima.Estimator, opts *Options) (*GridReport, error) {
	if cfg == nil {
		cfg = DefaultGridConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if series == nil || series.Len() == 0 {
		return nil, errors.New("grid search requires a non-empty series")
	}

	report := &GridReport{Config: *cfg, Registry: NewRegistry()}
	specs := cfg.Specs()
	workers := opts.workers()
	observer := opts.observer()

	log.Info().
		Int("candidates", len(specs)).
		Int("workers", workers).
		Int("d", cfg.D).
		Bool("trend", cfg.Trend).
		Msg("starting grid search")

	var g errgroup.Group
	g.SetLimit(workers)
	for _, spec := range specs {
		spec := spec
		g.Go(func() error {
			return report.Record(evaluateCandidate(series, spec, est, observer))
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	log.Info().
		Int("succeeded", len(report.Results)).
		Int("failed", len(report.Failures)).
		Msg("grid search finished")

	return report, nil
}

// evaluateCandidate fits one specification and converts any failure,
// including a panic inside the estimator, into a failed Outcome.
func evaluateCandidate(series *timeseries.Series, spec arima.Spec, est arima.Estimator, obs Observer) (out Outcome) {
	label := spec.Label()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Label: label, Err: fmt.Errorf("estimator panic: %v", r)}
		}
		if out.Err != nil {
			log.Warn().Str("model", label).Err(out.Err).Msg("candidate failed")
		}
		if obs != nil {
			obs.ObserveCandidate(label, out.OK(), time.Since(start))
		}
	}()

	fit, err := est.Fit(series, spec)
	if err != nil {
		return Outcome{Label: label, Err: err}
	}
	if fit == nil {
		return Outcome{Label: label, Err: errors.New("estimator returned no result")}
	}
	return Outcome{Label: label, Eval: Evaluate(label, fit)}
}
