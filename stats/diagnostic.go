package stats

import (
	"encoding/json"
	"fmt"
	"math"
)

// DiagnosticResult is a test statistic with its p-value, or a marker that the
// test could not be run on the given input. NotApplicable is an expected
// outcome, not an error.
type DiagnosticResult struct {
	Statistic  float64 `json:"statistic"`
	DOF        int     `json:"dof,omitempty"`
	PValue     float64 `json:"p_value"`
	Applicable bool    `json:"applicable"`
	Reason     string  `json:"reason,omitempty"`
}

// NotApplicable returns the sentinel result for a test that cannot be run.
func NotApplicable(reason string) DiagnosticResult {
	return DiagnosticResult{
		Statistic: math.NaN(),
		PValue:    math.NaN(),
		Reason:    reason,
	}
}

func (d DiagnosticResult) String() string {
	if !d.Applicable {
		return "NA (" + d.Reason + ")"
	}
	if d.DOF > 0 {
		return fmt.Sprintf("%.4f (df=%d, p=%.4f)", d.Statistic, d.DOF, d.PValue)
	}
	return fmt.Sprintf("%.4f (p=%.4f)", d.Statistic, d.PValue)
}

// MarshalJSON writes NaN fields of a NotApplicable result as zero.
func (d DiagnosticResult) MarshalJSON() ([]byte, error) {
	type plain DiagnosticResult
	p := plain(d)
	if !d.Applicable {
		p.Statistic, p.PValue = 0, 0
	}
	return json.Marshal(p)
}
