package matching

import "github.com/shopspring/decimal"

type Status string

const (
	StatusNoOp            Status = "NoOp"
	StatusRejected        Status = "Rejected"
	StatusFullyFilled     Status = "FullyFilled"
	StatusPartiallyFilled Status = "PartiallyFilled"
	StatusNotFilled       Status = "NotFilled"
)

// Report describes the effect of one incoming order on the book.
// FilledQuantity is the filled magnitude regardless of side. FeeTotal is
// denominated in the quote currency: every fee increment is converted at the
// price of the entry consumed, and the total is never negative.
type Report struct {
	Status         Status
	Transactions   uint
	FilledQuantity decimal.Decimal
	FeeTotal       decimal.Decimal
}

func newReport(status Status) *Report {
	return &Report{
		Status:         status,
		FilledQuantity: decimal.Zero,
		FeeTotal:       decimal.Zero,
	}
}
