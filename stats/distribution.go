package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalSurvival returns P(Z > x) for a standard normal Z.
func NormalSurvival(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// ChiSquaredSurvival returns P(X > x) for X chi-squared with dof degrees of freedom.
func ChiSquaredSurvival(x float64, dof int) float64 {
	if x <= 0 {
		return 1
	}
	p := distuv.ChiSquared{K: float64(dof)}.Survival(x)
	return math.Min(1, math.Max(0, p))
}
