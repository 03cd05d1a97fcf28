package market

import (
	"context"
	"sync"

	"github.com/SaponinRacer/Market-Making/pkg/book"
	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/SaponinRacer/Market-Making/pkg/matching"
	"github.com/shopspring/decimal"
)

type ManagerConfig struct {
	// FeeRate applies to every pair; matching validates it against [0, 0.03]
	// on each call.
	FeeRate decimal.Decimal
	Rules   []Rule
}

// Manager owns one market actor per asset pair. Submissions to the same pair
// are serialized by the pair's actor; independent pairs match concurrently.
type Manager struct {
	cfg *ManagerConfig

	markets   sync.Map
	callbacks []func(*model.FillEvent)

	ctx    context.Context
	cancel context.CancelFunc
}

func NewManager(cfg *ManagerConfig) *Manager {
	return &Manager{cfg: cfg}
}

func (s *Manager) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
}

func (s *Manager) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Submit runs one incoming order through the pair's book and waits for its
// fill report. Admission rules run first; a rule failure rejects the order
// without touching the book.
func (s *Manager) Submit(ctx context.Context, pair string, order matching.Order) (*matching.Report, error) {
	for _, r := range s.cfg.Rules {
		if err := r.Check(pair, &order); err != nil {
			return &matching.Report{Status: matching.StatusRejected}, err
		}
	}

	m := s.getOrCreateMarket(pair)
	return m.submit(ctx, order)
}

// Rest places caller-owned resting liquidity on a pair's book. Positive
// quantity rests an offer, negative a bid.
func (s *Manager) Rest(pair string, price, quantity decimal.Decimal) (uint64, error) {
	m := s.getOrCreateMarket(pair)
	return m.rest(price, quantity)
}

// Depth returns a snapshot of a pair's book in insertion order.
func (s *Manager) Depth(pair string) []book.Entry {
	m := s.getOrCreateMarket(pair)
	return m.depth()
}

// RegisterFillCallback subscribes to every fill event, across all pairs.
func (s *Manager) RegisterFillCallback(cb func(*model.FillEvent)) {
	s.callbacks = append(s.callbacks, cb)

	// apply callback to existing markets
	s.markets.Range(func(_, v any) bool {
		m := v.(*market)
		m.registerFillCallback(cb)
		return true
	})
}

func (s *Manager) getOrCreateMarket(pair string) *market {
	if val, ok := s.markets.Load(pair); ok {
		return val.(*market)
	}

	m := newMarket(pair, s.cfg.FeeRate)
	for _, cb := range s.callbacks {
		m.registerFillCallback(cb)
	}

	actual, loaded := s.markets.LoadOrStore(pair, m)
	m = actual.(*market)
	if !loaded {
		ctx := s.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		go m.run(ctx)
	}
	return m
}
