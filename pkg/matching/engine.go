package matching

import (
	"sort"

	"github.com/SaponinRacer/Market-Making/pkg/book"
	"github.com/shopspring/decimal"
)

// Order is one incoming order to match against a book. Quantity is signed:
// positive buys (consuming resting offers), negative sells (consuming resting
// bids). BidPrice is rounded to 2 decimals before matching; only entries at
// exactly that price are eligible.
type Order struct {
	BidPrice       decimal.Decimal
	Quantity       decimal.Decimal
	PartialAllowed bool
}

var maxFeeRate = decimal.RequireFromString("0.03")

// Match fills as much of the incoming order as the book allows and returns a
// report of what happened. The book is mutated exactly to the extent that
// liquidity was consumed: a partial fill that ends short of the full quantity
// is never rolled back, and a rejection or no-fill leaves the book untouched.
//
// Match holds no state between calls and is safe to invoke concurrently on
// independent books; access to a shared book must be serialized by the
// caller.
func Match(b *book.Book, order Order, feeRate decimal.Decimal) (*Report, error) {
	if feeRate.IsNegative() || feeRate.GreaterThan(maxFeeRate) {
		return newReport(StatusRejected), ErrInvalidFeeRate
	}

	qty := order.Quantity.Round(2)
	if qty.IsZero() {
		return newReport(StatusNoOp), nil
	}

	price := order.BidPrice.Round(2)
	if price.Sign() <= 0 {
		return newReport(StatusRejected), ErrInvalidPrice
	}

	side := book.SideOf(qty)
	eligible := resolve(b, price, side)
	if len(eligible) == 0 {
		return newReport(StatusNotFilled), nil
	}

	if best := bestMatch(eligible, qty, side); best != nil {
		return fillSingle(b, best, qty, side, feeRate), nil
	}

	if !order.PartialAllowed {
		// No single entry can satisfy the order; the caller may retry with
		// partial filling enabled.
		return newReport(StatusNotFilled), nil
	}

	return walk(b, eligible, price, qty, side, feeRate), nil
}

// resolve selects the entries an incoming order may consume: exact price
// match, opposite side. Resting offers are positive and resting bids are
// negative, so the eligible entries carry the same numeric sign as the
// incoming quantity. Entries are returned in book order.
func resolve(b *book.Book, price decimal.Decimal, side book.Side) []*book.Entry {
	var eligible []*book.Entry
	for _, e := range b.Entries() {
		if e.Price.Equal(price) && e.Quantity.Sign() == int(side) {
			eligible = append(eligible, e)
		}
	}
	return eligible
}

// bestMatch finds the eligible entry with the smallest non-negative surplus,
// i.e. the resting order that satisfies the whole incoming quantity while
// leaving the least excess behind. Ties keep the entry appearing first in
// book order. Returns nil when no single entry suffices.
func bestMatch(eligible []*book.Entry, qty decimal.Decimal, side book.Side) *book.Entry {
	var best *book.Entry
	var bestSurplus decimal.Decimal
	for _, e := range eligible {
		surplus := side.Mag(e.Quantity.Sub(qty))
		if surplus.IsNegative() {
			continue
		}
		if best == nil || surplus.LessThan(bestSurplus) {
			best = e
			bestSurplus = surplus
		}
	}
	return best
}

func fillSingle(b *book.Book, e *book.Entry, qty decimal.Decimal, side book.Side, feeRate decimal.Decimal) *Report {
	filled := side.Mag(qty)
	fee := filled.Mul(e.Price).Mul(feeRate)

	b.SetQuantity(e.ID, e.Quantity.Sub(qty))

	r := newReport(StatusFullyFilled)
	r.Transactions = 1
	r.FilledQuantity = filled
	r.FeeTotal = fee
	return r
}

// walk consumes eligible entries deepest-liquidity-first until the order is
// exhausted or the eligible side is drained. The last entry touched is
// reduced, not removed, when only part of it is needed; every fully consumed
// entry leaves the book. Fee increments accumulate per consumed amount at the
// bid price and are kept non-negative regardless of side.
func walk(b *book.Book, eligible []*book.Entry, price, qty decimal.Decimal, side book.Side, feeRate decimal.Decimal) *Report {
	sorted := append([]*book.Entry(nil), eligible...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return side.Mag(sorted[i].Quantity).GreaterThan(side.Mag(sorted[j].Quantity))
	})

	r := newReport(StatusPartiallyFilled)
	remaining := qty
	for _, e := range sorted {
		if remaining.IsZero() {
			break
		}
		avail := side.Mag(e.Quantity)
		need := side.Mag(remaining)
		r.Transactions++

		if avail.GreaterThan(need) {
			// Entry covers the rest of the order; a portion keeps resting.
			b.SetQuantity(e.ID, e.Quantity.Sub(remaining))
			r.FilledQuantity = r.FilledQuantity.Add(need)
			r.FeeTotal = r.FeeTotal.Add(need.Mul(price).Mul(feeRate))
			remaining = decimal.Zero
		} else {
			b.SetQuantity(e.ID, decimal.Zero)
			r.FilledQuantity = r.FilledQuantity.Add(avail)
			r.FeeTotal = r.FeeTotal.Add(avail.Mul(price).Mul(feeRate))
			remaining = remaining.Sub(e.Quantity)
		}
	}

	if remaining.IsZero() {
		r.Status = StatusFullyFilled
	}
	return r
}
