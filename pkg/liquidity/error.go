package liquidity

import "errors"

var (
	errInvalidFeeRate      = errors.New("fee rate must take value in [0.0, 0.03]")
	errNonPositiveQuantity = errors.New("quantity has to be a positive value")
	errNonPositiveSupply   = errors.New("pool supplies have to be positive")
	errUnknownToken        = errors.New("unknown token")

	// ErrInsufficientSupply reports that the pool cannot cover the requested
	// quantity. The pool is left unchanged; this is an expected outcome, not
	// a fault.
	ErrInsufficientSupply = errors.New("not enough token supply to fill the order")
)
