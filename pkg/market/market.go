package market

import (
	"context"
	"sync"
	"time"

	"github.com/SaponinRacer/Market-Making/pkg/book"
	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/SaponinRacer/Market-Making/pkg/matching"
	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type submitResult struct {
	report *matching.Report
	err    error
}

type submission struct {
	order matching.Order
	done  chan submitResult
}

// market is the single-writer actor for one asset pair: every submission is
// enqueued and drained by one goroutine, so the book sees one order at a
// time. Resting liquidity is added by the owner through rest().
type market struct {
	pair    string
	feeRate decimal.Decimal

	bk     *book.Book
	bookMu sync.Mutex

	queueMu sync.Mutex
	queue   deque.Deque[*submission]
	wake    chan struct{}

	onFill []func(*model.FillEvent)
}

func newMarket(pair string, feeRate decimal.Decimal) *market {
	return &market{
		pair:    pair,
		feeRate: feeRate,
		bk:      book.New(),
		wake:    make(chan struct{}, 1),
	}
}

func (m *market) registerFillCallback(fn func(*model.FillEvent)) {
	m.onFill = append(m.onFill, fn)
}

func (m *market) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.wake:
		}

		for {
			m.queueMu.Lock()
			if m.queue.Len() == 0 {
				m.queueMu.Unlock()
				break
			}
			sub := m.queue.PopFront()
			m.queueMu.Unlock()

			m.process(sub)
		}
	}
}

func (m *market) submit(ctx context.Context, order matching.Order) (*matching.Report, error) {
	sub := &submission{
		order: order,
		done:  make(chan submitResult, 1),
	}

	m.queueMu.Lock()
	m.queue.PushBack(sub)
	m.queueMu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}

	select {
	case res := <-sub.done:
		return res.report, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *market) process(sub *submission) {
	m.bookMu.Lock()
	report, err := matching.Match(m.bk, sub.order, m.feeRate)
	m.bookMu.Unlock()

	ev := &model.FillEvent{
		EventID:      uuid.New().String(),
		Pair:         m.pair,
		Side:         book.SideOf(sub.order.Quantity).String(),
		Price:        sub.order.BidPrice.Round(2),
		Requested:    sub.order.Quantity.Abs(),
		Filled:       report.FilledQuantity,
		Fee:          report.FeeTotal,
		Status:       string(report.Status),
		Transactions: report.Transactions,
		Timestamp:    time.Now(),
	}
	for _, cb := range m.onFill {
		cb(ev)
	}

	sub.done <- submitResult{report: report, err: err}
}

func (m *market) rest(price, quantity decimal.Decimal) (uint64, error) {
	m.bookMu.Lock()
	defer m.bookMu.Unlock()

	e, err := m.bk.Add(price, quantity)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// depth snapshots the book in insertion order.
func (m *market) depth() []book.Entry {
	m.bookMu.Lock()
	defer m.bookMu.Unlock()

	entries := m.bk.Entries()
	out := make([]book.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	return out
}
