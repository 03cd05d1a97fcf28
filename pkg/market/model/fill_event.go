package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FillEvent records the outcome of one submitted order: what was asked for,
// what the book gave, and what it cost. Events feed the report stream; the
// book itself is never persisted.
type FillEvent struct {
	EventID      string `gorm:"primaryKey"`
	Pair         string
	Side         string
	Price        decimal.Decimal
	Requested    decimal.Decimal
	Filled       decimal.Decimal
	Fee          decimal.Decimal
	Status       string
	Transactions uint
	Timestamp    time.Time
}

func (FillEvent) TableName() string {
	return "fill_events"
}
