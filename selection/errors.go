package selection

import (
	"errors"

	"github.com/sartorproj/arimaselect/arima"
)

var (
	// ErrMaskLength is returned when a restriction mask does not match the
	// coefficient count of the base specification.
	ErrMaskLength = arima.ErrMaskLength
	// ErrDuplicateLabel is returned when two candidates share a model label.
	ErrDuplicateLabel = errors.New("duplicate model label")
)
