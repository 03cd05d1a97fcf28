package market

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/SaponinRacer/Market-Making/pkg/market/model"
	"github.com/SaponinRacer/Market-Making/pkg/matching"
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

func newTestManager(t *testing.T, rules ...Rule) *Manager {
	t.Helper()
	m := NewManager(&ManagerConfig{
		FeeRate: decimal.RequireFromString("0.01"),
		Rules:   rules,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)
	t.Cleanup(m.Stop)
	return m
}

func TestSubmitMatchesRestingLiquidity(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Rest("ABC/USD", d(t, "10.01"), d(t, "12")); err != nil {
		t.Fatalf("rest failed: %v", err)
	}

	report, err := m.Submit(context.Background(), "ABC/USD", matching.Order{
		BidPrice: d(t, "10.01"),
		Quantity: d(t, "5"),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if report.Status != matching.StatusFullyFilled {
		t.Errorf("status = %s, want FullyFilled", report.Status)
	}

	depth := m.Depth("ABC/USD")
	if len(depth) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(depth))
	}
	if !depth[0].Quantity.Equal(d(t, "7")) {
		t.Errorf("residual quantity = %s, want 7", depth[0].Quantity)
	}
}

func TestFillCallbackReceivesEvent(t *testing.T) {
	m := newTestManager(t)

	events := make(chan *model.FillEvent, 1)
	m.RegisterFillCallback(func(ev *model.FillEvent) {
		events <- ev
	})

	if _, err := m.Rest("ABC/USD", d(t, "10.0"), d(t, "12")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Submit(context.Background(), "ABC/USD", matching.Order{
		BidPrice: d(t, "10.0"),
		Quantity: d(t, "5"),
	}); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Pair != "ABC/USD" {
			t.Errorf("pair = %s, want ABC/USD", ev.Pair)
		}
		if ev.Side != "BUY" {
			t.Errorf("side = %s, want BUY", ev.Side)
		}
		if ev.Status != string(matching.StatusFullyFilled) {
			t.Errorf("status = %s, want FullyFilled", ev.Status)
		}
		if !ev.Filled.Equal(d(t, "5")) {
			t.Errorf("filled = %s, want 5", ev.Filled)
		}
		if ev.EventID == "" {
			t.Error("event ID not set")
		}
	case <-time.After(time.Second):
		t.Fatal("no fill event received")
	}
}

func TestRuleRejectsBeforeBook(t *testing.T) {
	band := NewPriceBandRule()
	band.SetBand("ABC/USD", d(t, "9.0"), d(t, "11.0"))
	m := newTestManager(t, band)

	if _, err := m.Rest("ABC/USD", d(t, "12.0"), d(t, "5")); err != nil {
		t.Fatal(err)
	}

	report, err := m.Submit(context.Background(), "ABC/USD", matching.Order{
		BidPrice: d(t, "12.0"),
		Quantity: d(t, "5"),
	})
	if err == nil {
		t.Fatal("expected rule violation error")
	}
	if report.Status != matching.StatusRejected {
		t.Errorf("status = %s, want Rejected", report.Status)
	}

	depth := m.Depth("ABC/USD")
	if len(depth) != 1 || !depth[0].Quantity.Equal(d(t, "5")) {
		t.Errorf("rejected order must not touch the book: %+v", depth)
	}
}

func TestTickSizeRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tick_rules.json")
	cfg := `{"ABC/USD": [{"maxPrice": "100", "step": "0.05"}]}`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	rule, err := NewTickSizeRuleFromFile(path)
	if err != nil {
		t.Fatalf("load rule: %v", err)
	}

	ok := matching.Order{BidPrice: d(t, "10.05"), Quantity: d(t, "5")}
	if err := rule.Check("ABC/USD", &ok); err != nil {
		t.Errorf("conforming price rejected: %v", err)
	}

	bad := matching.Order{BidPrice: d(t, "10.01"), Quantity: d(t, "5")}
	if err := rule.Check("ABC/USD", &bad); err == nil {
		t.Error("off-tick price accepted")
	}

	// unconfigured pair passes
	if err := rule.Check("XYZ/USD", &bad); err != nil {
		t.Errorf("unconfigured pair rejected: %v", err)
	}
}

func TestSubmissionsSerialized(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Rest("ABC/USD", d(t, "10.0"), d(t, "100")); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	filled := make([]decimal.Decimal, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report, err := m.Submit(context.Background(), "ABC/USD", matching.Order{
				BidPrice:       d(t, "10.0"),
				Quantity:       d(t, "10"),
				PartialAllowed: true,
			})
			if err != nil {
				t.Errorf("submit %d: %v", i, err)
				return
			}
			filled[i] = report.FilledQuantity
		}(i)
	}
	wg.Wait()

	total := decimal.Zero
	for _, f := range filled {
		total = total.Add(f)
	}
	if !total.Equal(d(t, "100")) {
		t.Errorf("total filled = %s, want exactly 100", total)
	}
	if depth := m.Depth("ABC/USD"); len(depth) != 0 {
		t.Errorf("book should be drained, got %+v", depth)
	}
}

func TestIndependentPairs(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Rest("ABC/USD", d(t, "10.0"), d(t, "5")); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Rest("XYZ/USD", d(t, "20.0"), d(t, "5")); err != nil {
		t.Fatal(err)
	}

	report, err := m.Submit(context.Background(), "ABC/USD", matching.Order{
		BidPrice: d(t, "10.0"),
		Quantity: d(t, "5"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != matching.StatusFullyFilled {
		t.Errorf("status = %s, want FullyFilled", report.Status)
	}

	if depth := m.Depth("XYZ/USD"); len(depth) != 1 {
		t.Errorf("other pair's book must be untouched, got %+v", depth)
	}
}
