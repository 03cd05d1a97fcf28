package matching

import "errors"

var (
	// ErrInvalidFeeRate rejects fee rates outside [0, 0.03] before any book
	// access.
	ErrInvalidFeeRate = errors.New("fee rate must take value in [0.0, 0.03]")

	// ErrInvalidPrice rejects non-positive bid prices.
	ErrInvalidPrice = errors.New("bid price must be positive")
)
