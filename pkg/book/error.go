package book

import "errors"

var (
	errNonPositivePrice = errors.New("entry price must be positive")
	errZeroQuantity     = errors.New("entry quantity must not be zero")
)
