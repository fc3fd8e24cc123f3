package timeseries

import (
	"errors"
	"fmt"
)

// ErrDataFormat is matched by every ingestion failure.
var ErrDataFormat = errors.New("malformed series data")

// FormatError describes a malformed row of the source table.
// Row is the zero-based data row (header excluded), -1 when not row specific.
type FormatError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Row < 0:
		return fmt.Sprintf("data format: %s", e.Reason)
	case e.Column != "":
		return fmt.Sprintf("data format: row %d, column %q, value %q: %s", e.Row+1, e.Column, e.Value, e.Reason)
	default:
		return fmt.Sprintf("data format: row %d, value %q: %s", e.Row+1, e.Value, e.Reason)
	}
}

// Unwrap lets errors.Is match ErrDataFormat.
func (e *FormatError) Unwrap() error {
	return ErrDataFormat
}
