package selection

import (
	"fmt"
	"io"
	"text/tabwriter"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatCriterion(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

// WriteRanking prints evaluations in the given order with their criteria.
func WriteRanking(w io.Writer, title string, evals []*Evaluation) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Rank\tModel\tk\tT\tLogLik\tAIC\tBIC\tAICc")
	fmt.Fprintln(tw, "----\t-----\t-\t-\t------\t---\t---\t----")
	for i, ev := range evals {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.3f\t%.3f\t%.3f\t%s\n",
			i+1, ev.Label, ev.K, ev.NObs, ev.LogLik, ev.AIC, ev.BIC, formatCriterion(ev.AICc))
	}
	return tw.Flush()
}

// WriteFailures prints the failure registry sorted by label.
func WriteFailures(w io.Writer, r *Registry) error {
	labels := r.FailureLabels()
	if len(labels) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Failed candidates (%d)\n", len(labels)); err != nil {
		return err
	}
	tw := newTable(w)
	for _, label := range labels {
		fmt.Fprintf(tw, "%s\t%s\n", label, r.Failures[label])
	}
	return tw.Flush()
}

// WriteCoefficients prints the z-tests of one evaluation.
func WriteCoefficients(w io.Writer, ev *Evaluation) error {
	if _, err := fmt.Fprintf(w, "%s  (sigma2=%.6g)\n", ev.Label, ev.Sigma2); err != nil {
		return err
	}
	if len(ev.Coefficients) == 0 {
		_, err := fmt.Fprintf(w, "  coefficients: %s\n", ev.Significance)
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "  Coef\tEstimate\tStd.Err\tz\tP(>|z|) one-tailed")
	for _, c := range ev.Coefficients {
		if !c.Test.Applicable {
			fmt.Fprintf(tw, "  %s\t%.5f\tNA\tNA\t%s\n", c.Name, c.Estimate, c.Test.Reason)
			continue
		}
		fmt.Fprintf(tw, "  %s\t%.5f\t%.5f\t%.3f\t%.4f\n",
			c.Name, c.Estimate, c.StdErr, c.Test.Statistic, c.Test.PValue)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if ev.Message != "" {
		_, err := fmt.Fprintf(w, "  note: %s\n", ev.Message)
		return err
	}
	return nil
}

// WriteGrid prints both rankings of a grid report followed by its failures.
func WriteGrid(w io.Writer, r *GridReport, top int) error {
	byAIC, byBIC := r.RankByAIC(), r.RankByBIC()
	if top > 0 && top < len(byAIC) {
		byAIC, byBIC = byAIC[:top], byBIC[:top]
	}
	header := fmt.Sprintf("d=%d, p<=%d, q<=%d", r.Config.D, r.Config.MaxP, r.Config.MaxQ)
	if err := WriteRanking(w, "Ranked by AIC ("+header+")", byAIC); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := WriteRanking(w, "Ranked by BIC ("+header+")", byBIC); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return WriteFailures(w, r.Registry)
}

// WriteNested prints both rankings of a nested report followed by the
// coefficient tests of every fitted model in evaluation order.
func WriteNested(w io.Writer, r *NestedReport) error {
	if err := WriteRanking(w, "Restrictions of "+r.Base.Label()+" ranked by AIC", r.ByAIC); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := WriteRanking(w, "Restrictions of "+r.Base.Label()+" ranked by BIC", r.ByBIC); err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, label := range r.Labels {
		ev, ok := r.Results[label]
		if !ok {
			continue
		}
		if err := WriteCoefficients(w, ev); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	return WriteFailures(w, r.Registry)
}
