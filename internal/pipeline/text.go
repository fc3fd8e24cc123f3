package pipeline

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sartorproj/arimaselect/arima"
	"github.com/sartorproj/arimaselect/selection"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// WriteUnitRoot prints ADF statistics per lag order with the reference
// critical values. No verdict is printed.
func WriteUnitRoot(w io.Writer, title string, u *UnitRoot) error {
	fmt.Fprintf(w, "%s (T=%d, trend=%t)\n", title, u.NObs, u.Trend)
	tw := newTable(w)
	if u.Trend {
		fmt.Fprintln(tw, "Lag\tRows\ttau(level)\ttau(trend)")
	} else {
		fmt.Fprintln(tw, "Lag\tRows\ttau(level)")
	}
	for _, l := range u.Lags {
		if u.Trend {
			fmt.Fprintf(tw, "%d\t%d\t%.3f\t%.3f\n", l.Order, l.NObs, l.Statistic, l.TrendStatistic)
		} else {
			fmt.Fprintf(tw, "%d\t%d\t%.3f\n", l.Order, l.NObs, l.Statistic)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Dickey-Fuller reference: 1%% %.2f  5%% %.2f  10%% %.2f\n",
		u.CriticalValues["1%"], u.CriticalValues["5%"], u.CriticalValues["10%"])
	return err
}

// WriteRoots prints characteristic roots and common-root pairs.
func WriteRoots(w io.Writer, roots []RootAnalysis) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Model\tAR moduli\tMA moduli\tStationary\tInvertible\tCommon pairs")
	for _, ra := range roots {
		if ra.Error != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%s\n", ra.Label, ra.Error)
			continue
		}
		var pairs []string
		for _, p := range ra.Common {
			pairs = append(pairs, fmt.Sprintf("%.3f%+.3fi~%.3f%+.3fi (%.3f)", p.AR.Re, p.AR.Im, p.MA.Re, p.MA.Im, p.Distance))
		}
		common := "none"
		if len(pairs) > 0 {
			common = strings.Join(pairs, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\t%s\n",
			ra.Label, moduli(ra.AR), moduli(ra.MA), ra.Stationary, ra.Invertible, common)
	}
	return tw.Flush()
}

func moduli(roots []arima.Root) string {
	if len(roots) == 0 {
		return "-"
	}
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = fmt.Sprintf("%.3f", r.Modulus)
	}
	return strings.Join(parts, " ")
}

// WriteResiduals prints the Ljung-Box checks.
func WriteResiduals(w io.Writer, checks []ResidualCheck) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "Model\tK\tfitdf\tLjung-Box\tBox-Pierce")
	for _, c := range checks {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", c.Label, c.Lags, c.FitDF, c.LjungBox, c.BoxPierce)
	}
	return tw.Flush()
}

// WriteText prints the whole report. top limits the rows of each grid ranking.
func WriteText(w io.Writer, r *Report, top int) error {
	fmt.Fprintf(w, "Series %s: %d observations, %s to %s\n\n", r.Series.Name, r.Series.NObs, r.Series.First, r.Series.Last)

	if r.Levels != nil {
		if err := WriteUnitRoot(w, "ADF on levels", r.Levels); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	if r.Differences != nil {
		if err := WriteUnitRoot(w, "ADF on first differences", r.Differences); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if r.ACF != nil && r.PACF != nil {
		fmt.Fprintf(w, "Correlogram (bounds +-%.3f): ACF significant at %v, PACF significant at %v\n\n",
			r.ACF.ConfBounds, r.ACF.SignificantLags(), r.PACF.SignificantLags())
	}

	if r.Grid != nil {
		if err := selection.WriteGrid(w, r.Grid, top); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.Roots) > 0 {
		fmt.Fprintln(w, "Characteristic roots")
		if err := WriteRoots(w, r.Roots); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if r.Nested != nil {
		if err := selection.WriteNested(w, r.Nested); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if len(r.Residuals) > 0 {
		fmt.Fprintln(w, "Residual checks")
		if err := WriteResiduals(w, r.Residuals); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if r.Forecast != nil {
		fmt.Fprintf(w, "Forecast from %s\n", r.Forecast.Label)
		tw := newTable(w)
		for i, p := range r.Forecast.Periods {
			fmt.Fprintf(tw, "%s\t%.5f\n", p, r.Forecast.Values[i])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
