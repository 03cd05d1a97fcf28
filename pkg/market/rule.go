package market

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SaponinRacer/Market-Making/pkg/matching"
	"github.com/shopspring/decimal"
)

// Rule checks an incoming order before it reaches a book. A failing rule
// rejects the submission without touching the book.
type Rule interface {
	Check(pair string, order *matching.Order) error
}

type tickBand struct {
	MaxPrice decimal.Decimal `json:"maxPrice"` // 0 = no limit
	Step     decimal.Decimal `json:"step"`
}

// TickSizeRule holds per-pair tick bands: within each band the order price
// must sit on a multiple of the band's step.
type TickSizeRule struct {
	Config map[string][]tickBand
}

func NewTickSizeRuleFromFile(path string) (*TickSizeRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg map[string][]tickBand
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &TickSizeRule{Config: cfg}, nil
}

func (r *TickSizeRule) Check(pair string, order *matching.Order) error {
	bands, ok := r.Config[pair]
	if !ok { // no config -> no rule
		return nil
	}

	price := order.BidPrice.Round(2)
	for _, band := range bands {
		if band.MaxPrice.IsZero() || price.LessThanOrEqual(band.MaxPrice) {
			if !price.Mod(band.Step).IsZero() {
				return fmt.Errorf("invalid tick size")
			}
			return nil
		}
	}

	return nil
}

type priceBand struct {
	floor decimal.Decimal
	ceil  decimal.Decimal
}

// PriceBandRule rejects orders priced outside a per-pair [floor, ceil] band.
// Pairs without a band pass.
type PriceBandRule struct {
	bands map[string]priceBand
}

func NewPriceBandRule() *PriceBandRule {
	return &PriceBandRule{bands: make(map[string]priceBand)}
}

func (r *PriceBandRule) SetBand(pair string, floor, ceil decimal.Decimal) {
	r.bands[pair] = priceBand{floor: floor, ceil: ceil}
}

func (r *PriceBandRule) Check(pair string, order *matching.Order) error {
	band, ok := r.bands[pair]
	if !ok {
		return nil
	}
	price := order.BidPrice.Round(2)
	if price.GreaterThan(band.ceil) || price.LessThan(band.floor) {
		return fmt.Errorf("price limit violation")
	}
	return nil
}
