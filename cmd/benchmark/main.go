package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SaponinRacer/Market-Making/pkg/market"
	"github.com/SaponinRacer/Market-Making/pkg/matching"
)

const (
	pair        = "ABC/USD"
	numOrders   = 200_000
	numPrices   = 20    // distinct price points, cent-aligned
	basePrice   = 100.0 // lowest price point
	minQty      = 1
	maxQty      = 100
	restPerTick = 4 // resting entries seeded per price point
)

func pricePoint(i int) decimal.Decimal {
	return decimal.NewFromFloat(basePrice + float64(i)*0.25).Round(2)
}

func randomOrder() matching.Order {
	qty := decimal.NewFromInt(int64(rand.Intn(maxQty-minQty+1) + minQty))
	if rand.Intn(2) == 0 {
		qty = qty.Neg() // incoming sell
	}
	return matching.Order{
		BidPrice:       pricePoint(rand.Intn(numPrices)),
		Quantity:       qty,
		PartialAllowed: true,
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())

	manager := market.NewManager(&market.ManagerConfig{
		FeeRate: decimal.RequireFromString("0.01"),
	})

	ctx := context.Background()
	manager.Start(ctx)
	defer manager.Stop()

	// seed resting liquidity on both sides of every price point
	for i := 0; i < numPrices; i++ {
		for j := 0; j < restPerTick; j++ {
			qty := decimal.NewFromInt(int64(rand.Intn(maxQty) + 1))
			if _, err := manager.Rest(pair, pricePoint(i), qty); err != nil {
				panic(err)
			}
			if _, err := manager.Rest(pair, pricePoint(i), qty.Neg()); err != nil {
				panic(err)
			}
		}
	}

	var full, partial, none int
	start := time.Now()
	for i := 0; i < numOrders; i++ {
		report, err := manager.Submit(ctx, pair, randomOrder())
		if err != nil {
			panic(err)
		}
		switch report.Status {
		case matching.StatusFullyFilled:
			full++
		case matching.StatusPartiallyFilled:
			partial++
		default:
			none++
		}

		// replenish so the book never drains entirely
		if i%64 == 0 {
			qty := decimal.NewFromInt(int64(rand.Intn(maxQty) + 1))
			p := pricePoint(rand.Intn(numPrices))
			_, _ = manager.Rest(pair, p, qty)
			_, _ = manager.Rest(pair, p, qty.Neg())
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("processed %d orders in %s (%.0f orders/sec)\n",
		numOrders, elapsed, float64(numOrders)/elapsed.Seconds())
	fmt.Printf("fully filled: %d, partially filled: %d, not filled: %d\n", full, partial, none)
	fmt.Printf("book depth at end: %d entries\n", len(manager.Depth(pair)))
}
