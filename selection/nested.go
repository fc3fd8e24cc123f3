package selection

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/timeseries"
)

// NestedReport compares a base model with restricted variants of it. ByAIC
// and ByBIC are ranked independently; they may disagree.
type NestedReport struct {
	Base   arima.Spec `json:"base"`
	Labels []string   `json:"labels"` // base first, then one per mask
	*Registry
	ByAIC []*Evaluation `json:"-"`
	ByBIC []*Evaluation `json:"-"`
}

// EvaluateRestrictions fits base without restrictions and once per mask,
// where mask[i] fixes coefficient i of base at zero. Every mask must have
// one entry per coefficient of base and produce a distinct model; either
// violation is returned before any model is fitted. Estimation failures are
// recorded per model.
func EvaluateRestrictions(series *timeseries.Series, base arima.Spec, masks [][]bool, est arima.Estimator) (*NestedReport, error) {
	base = base.WithFixed(nil)
	if err := base.Validate(); err != nil {
		return nil, err
	}

	specs := []arima.Spec{base}
	seen := map[string]bool{base.Label(): true}
	for i, mask := range masks {
		if len(mask) != base.NumCoefficients() {
			return nil, fmt.Errorf("%w: mask %d has %d entries, %s has %d coefficients",
				ErrMaskLength, i, len(mask), base.Label(), base.NumCoefficients())
		}
		spec := base.WithFixed(mask)
		if seen[spec.Label()] {
			return nil, fmt.Errorf("%w: mask %d gives %s", ErrDuplicateLabel, i, spec.Label())
		}
		seen[spec.Label()] = true
		specs = append(specs, spec)
	}

	report := &NestedReport{Base: base, Registry: NewRegistry()}
	for _, spec := range specs {
		out := evaluateCandidate(series, spec, est, nil)
		if err := report.Record(out); err != nil {
			return nil, err
		}
		report.Labels = append(report.Labels, out.Label)
	}

	evals := report.Evaluations()
	report.ByAIC = RankByAIC(evals)
	report.ByBIC = RankByBIC(evals)

	log.Info().
		Str("base", base.Label()).
		Int("restrictions", len(masks)).
		Int("failed", len(report.Failures)).
		Msg("nested restrictions evaluated")

	return report, nil
}

// Ranked returns the labels of ByAIC and ByBIC.
func (r *NestedReport) Ranked() (byAIC, byBIC []string) {
	for _, ev := range r.ByAIC {
		byAIC = append(byAIC, ev.Label)
	}
	for _, ev := range r.ByBIC {
		byBIC = append(byBIC, ev.Label)
	}
	return byAIC, byBIC
}

// DropOneMasks returns one mask per coefficient of base, each fixing that
// coefficient alone at zero.
func DropOneMasks(base arima.Spec) [][]bool {
	n := base.NumCoefficients()
	masks := make([][]bool, n)
	for i := range masks {
		masks[i] = make([]bool, n)
		masks[i][i] = true
	}
	return masks
}
