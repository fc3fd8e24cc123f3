package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	PeriodColumn string // Column name for periods (optional; default: auto-detect)
	ValueColumn  string // Column name for values (default: "y")
	IDColumn     string // Column name for series ID (optional, for filtering)
	IDFilter     string // Value to filter by ID column
	HasHeader    bool   // Whether CSV has header row (default: true)
	Delimiter    rune   // Field delimiter (default: ',')
	SkipRows     int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSV loads a time series from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	series, err := LoadCSVFromReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return series, nil
}

// LoadCSVFromReader loads a time series from an io.Reader.
//
// Loading is strict: a value that does not parse as a number, or a period
// that does not follow the previous one, fails with a *FormatError.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	valueIdx, periodIdx, idIdx := -1, -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.ValueColumn:
				valueIdx = i
			case opts.PeriodColumn != "" && h == opts.PeriodColumn:
				periodIdx = i
			case opts.PeriodColumn == "" && isPeriodHeader(h):
				if periodIdx == -1 {
					periodIdx = i
				}
			case opts.IDColumn != "" && h == opts.IDColumn:
				idIdx = i
			}
		}

		if valueIdx == -1 {
			if opts.ValueColumn != "" && opts.ValueColumn != "y" {
				return nil, &FormatError{Row: -1, Reason: fmt.Sprintf("value column %q not found", opts.ValueColumn)}
			}
			valueIdx = len(header) - 1
		}
		if opts.PeriodColumn != "" && periodIdx == -1 {
			return nil, &FormatError{Row: -1, Reason: fmt.Sprintf("period column %q not found", opts.PeriodColumn)}
		}
	} else {
		periodIdx = 0
		valueIdx = 1
	}

	var values []float64
	var timestamps []time.Time

	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			id := strings.TrimSpace(strings.Trim(record[idIdx], "\""))
			if id != opts.IDFilter {
				continue
			}
		}

		if valueIdx >= len(record) {
			return nil, &FormatError{Row: row, Reason: "missing value field"}
		}
		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil || valStr == "" || strings.EqualFold(valStr, "nan") || strings.Contains(strings.ToLower(valStr), "inf") {
			return nil, &FormatError{Row: row, Column: opts.ValueColumn, Value: valStr, Reason: "value is not numeric"}
		}
		values = append(values, val)

		if periodIdx >= 0 && periodIdx < len(record) {
			periodStr := strings.TrimSpace(strings.Trim(record[periodIdx], "\""))
			ts, err := ParsePeriod(periodStr)
			if err != nil {
				return nil, &FormatError{Row: row, Column: opts.PeriodColumn, Value: periodStr, Reason: err.Error()}
			}
			if n := len(timestamps); n > 0 && !ts.After(timestamps[n-1]) {
				return nil, &FormatError{Row: row, Column: opts.PeriodColumn, Value: periodStr, Reason: "periods must be strictly increasing"}
			}
			timestamps = append(timestamps, ts)
		}
	}

	if len(values) == 0 {
		return nil, &FormatError{Row: -1, Reason: "no data rows found in CSV"}
	}

	name := opts.ValueColumn
	if len(timestamps) == len(values) {
		return &Series{
			Timestamps: timestamps,
			Values:     values,
			Name:       name,
		}, nil
	}

	s := New(values)
	s.Name = name
	return s, nil
}

var quarterPattern = regexp.MustCompile(`^(\d{4})\s*[-:/ ]?\s*[Qq]([1-4])$`)

// ParsePeriod parses a quarterly period label. Accepted forms are
// "1955 Q1", "1955Q1", "1955-Q1", "1955:Q1", ISO dates, and plain
// positive integers (treated as the observation number from 1970 Q1).
func ParsePeriod(s string) (time.Time, error) {
	if m := quarterPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return time.Date(year, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC), nil
	}

	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", "2006/01/02", "2006-01"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		base := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 3*(n-1), 0), nil
	}

	return time.Time{}, errors.New("unrecognised period")
}

func isPeriodHeader(h string) bool {
	switch strings.ToLower(h) {
	case "ds", "date", "period", "quarter", "time", "qtr":
		return true
	}
	return false
}

// SaveCSV writes a series as "period,value" rows.
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, series)
}

// WriteCSV writes a series as "period,value" rows to w.
func WriteCSV(w io.Writer, series *Series) error {
	writer := bufio.NewWriter(w)

	name := series.Name
	if name == "" {
		name = "y"
	}
	if _, err := writer.WriteString("period," + name + "\n"); err != nil {
		return err
	}

	for i, v := range series.Values {
		writer.WriteString(series.Period(i))
		writer.WriteString(",")
		writer.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		writer.WriteString("\n")
	}

	return writer.Flush()
}
