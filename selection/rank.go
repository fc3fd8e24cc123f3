package selection

import "sort"

// Criterion names an information criterion used for ranking.
type Criterion string

const (
	CriterionAIC Criterion = "aic"
	CriterionBIC Criterion = "bic"
)

// Value returns the criterion value of ev.
func (c Criterion) Value(ev *Evaluation) float64 {
	if c == CriterionBIC {
		return ev.BIC
	}
	return ev.AIC
}

// Rank returns a new slice ordered by ascending criterion, ties broken by
// fewer free coefficients and then by label. The input is not modified.
func Rank(evals []*Evaluation, c Criterion) []*Evaluation {
	out := append([]*Evaluation(nil), evals...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := c.Value(out[i]), c.Value(out[j])
		if vi != vj {
			return vi < vj
		}
		if out[i].K != out[j].K {
			return out[i].K < out[j].K
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// RankByAIC orders evaluations by AIC.
func RankByAIC(evals []*Evaluation) []*Evaluation {
	return Rank(evals, CriterionAIC)
}

// RankByBIC orders evaluations by BIC.
func RankByBIC(evals []*Evaluation) []*Evaluation {
	return Rank(evals, CriterionBIC)
}
