package book

import "github.com/shopspring/decimal"

// Side of an incoming order: positive quantity buys, negative sells. Resting
// offers carry positive quantities, so an incoming buy consumes entries with
// the same numeric sign as itself.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

// SideOf classifies a signed incoming quantity. Callers must handle the zero
// quantity no-op before asking for a side.
func SideOf(quantity decimal.Decimal) Side {
	if quantity.Sign() < 0 {
		return Sell
	}
	return Buy
}

// Mag maps a signed amount into this side's magnitude: for a sell the sign
// flips, so feasible surpluses and remaining quantities compare the same way
// on both sides.
func (s Side) Mag(d decimal.Decimal) decimal.Decimal {
	if s == Sell {
		return d.Neg()
	}
	return d
}

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}
