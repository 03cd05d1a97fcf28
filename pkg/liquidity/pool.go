package liquidity

import (
	"github.com/shopspring/decimal"
)

// Token names one side of the pool. The pool is quoted base-per-quote;
// accrued fees are always kept in base units.
type Token string

const (
	Base  Token = "BASE"
	Quote Token = "QUOTE"
)

var maxFeeRate = decimal.RequireFromString("0.03")

// Pool is a constant-product liquidity pool: BaseSupply * QuoteSupply stays
// at the characteristic product fixed at construction. It is a collaborator
// of the matching core, never invoked by it.
type Pool struct {
	BaseSupply  decimal.Decimal
	QuoteSupply decimal.Decimal
	FeesAccrued decimal.Decimal

	product decimal.Decimal
}

// SwapResult reports one executed swap: the realized price of the withdrawn
// token and the fee charged, both in the withdrawn token's units.
type SwapResult struct {
	Price decimal.Decimal
	Fee   decimal.Decimal
}

func New(baseSupply, quoteSupply decimal.Decimal) (*Pool, error) {
	baseSupply = baseSupply.Round(2)
	quoteSupply = quoteSupply.Round(2)
	if baseSupply.Sign() <= 0 || quoteSupply.Sign() <= 0 {
		return nil, errNonPositiveSupply
	}
	return &Pool{
		BaseSupply:  baseSupply,
		QuoteSupply: quoteSupply,
		product:     baseSupply.Mul(quoteSupply),
	}, nil
}

// Swap withdraws quantity of token from the pool, repricing the other side
// along the constant-product curve. An order exceeding the available supply
// returns ErrInsufficientSupply with the pool unchanged. Fees accrue on the
// pool in base units; a quote-side fee is converted at the realized price.
func (p *Pool) Swap(quantity, feeRate decimal.Decimal, token Token) (*SwapResult, error) {
	if feeRate.IsNegative() || feeRate.GreaterThan(maxFeeRate) {
		return nil, errInvalidFeeRate
	}
	if quantity.Sign() <= 0 {
		return nil, errNonPositiveQuantity
	}

	var supply, other decimal.Decimal
	switch token {
	case Base:
		supply, other = p.BaseSupply, p.QuoteSupply
	case Quote:
		supply, other = p.QuoteSupply, p.BaseSupply
	default:
		return nil, errUnknownToken
	}

	// A supply can never reach zero on a constant-product curve, so draining
	// it exactly is as unfillable as exceeding it.
	if quantity.GreaterThanOrEqual(supply) {
		return nil, ErrInsufficientSupply
	}

	newSupply := supply.Sub(quantity)
	newOther := p.product.Div(newSupply)
	priceAndFee := newOther.Sub(other)

	fee := quantity.Mul(feeRate)
	price := priceAndFee.Div(quantity.Mul(decimal.NewFromInt(1).Add(feeRate)))

	switch token {
	case Base:
		p.BaseSupply = newSupply
		p.QuoteSupply = newOther
		p.FeesAccrued = p.FeesAccrued.Add(fee)
	case Quote:
		p.QuoteSupply = newSupply
		p.BaseSupply = newOther
		p.FeesAccrued = p.FeesAccrued.Add(fee.Mul(price))
	}

	return &SwapResult{Price: price, Fee: fee}, nil
}
