package stats

import "errors"

var (
	// ErrInvalidLag reports a lag order that cannot be used with the input.
	ErrInvalidLag = errors.New("invalid lag order")
	// ErrSingularDesign reports a regression whose X'X cannot be inverted.
	ErrSingularDesign = errors.New("singular regression design")
	// ErrInsufficientRows reports a regression with no residual degrees of freedom.
	ErrInsufficientRows = errors.New("not enough observations for regression")
)
