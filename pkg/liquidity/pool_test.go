package liquidity

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return v
}

func newPool(t *testing.T) *Pool {
	t.Helper()
	p, err := New(d(t, "1000"), d(t, "100"))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	return p
}

func TestSwapQuoteRepricesAlongCurve(t *testing.T) {
	p := newPool(t)

	res, err := p.Swap(d(t, "1"), d(t, "0.01"), Quote)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	if !p.QuoteSupply.Equal(d(t, "99")) {
		t.Errorf("quote supply = %s, want 99", p.QuoteSupply)
	}
	// base supply moves to k/99 = 1010.1010...
	if !p.BaseSupply.Round(6).Equal(d(t, "1010.101010")) {
		t.Errorf("base supply = %s, want ~1010.101010", p.BaseSupply)
	}
	// realized price backs the fee out of the curve move
	if !res.Price.Round(4).Equal(d(t, "10.0010")) {
		t.Errorf("price = %s, want ~10.0010", res.Price)
	}
	// fee charged in quote units, accrued in base units via the price
	if !res.Fee.Equal(d(t, "0.01")) {
		t.Errorf("fee = %s, want 0.01", res.Fee)
	}
	if !p.FeesAccrued.Round(4).Equal(d(t, "0.1000")) {
		t.Errorf("fees accrued = %s, want ~0.1000", p.FeesAccrued)
	}
}

func TestSwapBaseAccruesBaseFee(t *testing.T) {
	p := newPool(t)

	res, err := p.Swap(d(t, "10"), d(t, "0.01"), Base)
	if err != nil {
		t.Fatalf("swap failed: %v", err)
	}

	if !p.BaseSupply.Equal(d(t, "990")) {
		t.Errorf("base supply = %s, want 990", p.BaseSupply)
	}
	// quote supply moves to k/990 = 101.0101...
	if !p.QuoteSupply.Round(6).Equal(d(t, "101.010101")) {
		t.Errorf("quote supply = %s, want ~101.010101", p.QuoteSupply)
	}
	// base-side fee accrues without conversion
	if !res.Fee.Equal(d(t, "0.1")) {
		t.Errorf("fee = %s, want 0.1", res.Fee)
	}
	if !p.FeesAccrued.Equal(d(t, "0.1")) {
		t.Errorf("fees accrued = %s, want 0.1", p.FeesAccrued)
	}
}

func TestSwapValidation(t *testing.T) {
	p := newPool(t)

	if _, err := p.Swap(d(t, "1"), d(t, "0.05"), Base); err == nil {
		t.Error("expected error for fee rate above 0.03")
	}
	if _, err := p.Swap(d(t, "0"), d(t, "0.01"), Base); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := p.Swap(d(t, "-1"), d(t, "0.01"), Base); err == nil {
		t.Error("expected error for negative quantity")
	}
	if _, err := p.Swap(d(t, "1"), d(t, "0.01"), Token("TOKEN3")); err == nil {
		t.Error("expected error for unknown token")
	}

	if !p.BaseSupply.Equal(d(t, "1000")) || !p.QuoteSupply.Equal(d(t, "100")) {
		t.Error("rejected swaps must leave the pool unchanged")
	}
}

func TestSwapInsufficientSupply(t *testing.T) {
	p := newPool(t)

	_, err := p.Swap(d(t, "101"), d(t, "0.01"), Quote)
	if err != ErrInsufficientSupply {
		t.Fatalf("err = %v, want ErrInsufficientSupply", err)
	}
	if !p.QuoteSupply.Equal(d(t, "100")) {
		t.Error("failed swap must leave the pool unchanged")
	}
}

func TestNewPoolValidation(t *testing.T) {
	if _, err := New(d(t, "0"), d(t, "100")); err == nil {
		t.Error("expected error for zero base supply")
	}
	if _, err := New(d(t, "1000"), d(t, "-5")); err == nil {
		t.Error("expected error for negative quote supply")
	}
}
