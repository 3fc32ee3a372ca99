package spdi

import "errors"

// Sentinel kinds for engine errors.
var (
	// ErrDivisionByZero is returned when a team total is not positive. It marks a
	// caller contract violation: Validate does not check totals.
	ErrDivisionByZero = errors.New("division by zero: team total must be positive")
)
