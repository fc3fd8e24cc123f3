package arima

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData = errors.New("insufficient data points for the specified order")
	ErrInvalidSpec      = errors.New("invalid model specification")
	ErrMaskLength       = errors.New("fixed-parameter mask length does not match coefficient count")
	ErrNonConvergence   = errors.New("estimation did not converge")
	ErrNonStationary    = errors.New("non-stationary AR part")
)

// EstimationError reports that one model could not be estimated. It is local
// to that model; callers searching over many models record it and move on.
type EstimationError struct {
	Model string
	Err   error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimate %s: %v", e.Model, e.Err)
}

func (e *EstimationError) Unwrap() error {
	return e.Err
}
