// Package timeseries provides the Series type and strict CSV ingestion for
// quarterly economic data.
//
// # Creating a Series
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values) // quarters from 1970 Q1
//
// # Loading from CSV
//
// Ingestion fails with a *FormatError (matching ErrDataFormat) when a value is
// not numeric or a period does not strictly follow the previous one:
//
//	opts := timeseries.DefaultCSVOptions()
//	opts.PeriodColumn = "quarter"
//	opts.ValueColumn = "income"
//	series, err := timeseries.LoadCSV("ukinc.csv", opts)
//	if errors.Is(err, timeseries.ErrDataFormat) {
//	    // malformed input
//	}
//
// Period labels may be written "1955 Q1", "1955Q1", "1955-Q1", as ISO dates,
// or as observation numbers.
//
// # Transformations
//
//	logged, err := series.Log()
//	diff := logged.Diff()     // first difference
//	diff2 := logged.DiffN(2)  // second difference
package timeseries
