package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/ledger"
)

// scriptedPrices is a PriceSource whose Advance walks a fixed sequence,
// so trigger scenarios are reproducible.
type scriptedPrices struct {
	current int64
	next    []int64
	ticks   int
}

func (s *scriptedPrices) Current() int64 { return s.current }

func (s *scriptedPrices) Advance() int64 {
	s.ticks++
	if len(s.next) > 0 {
		s.current = s.next[0]
		s.next = s.next[1:]
	}
	return s.current
}

func newTestEngine(prices *scriptedPrices) (*Engine, *ledger.Ledger, *Book) {
	l := ledger.New()
	b := NewBook()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(b, l, prices, logger), l, b
}

func marketOrder(accountID string, side domain.OrderSide, notional int64) *domain.Order {
	return &domain.Order{
		AccountID:     accountID,
		Kind:          domain.OrderKindMarket,
		Side:          side,
		NotionalCents: notional,
	}
}

// Account A: cash $1000, market buy $100 at price $50 → 2 units, cash $900.
func TestPlace_MarketBuy(t *testing.T) {
	e, l, _ := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 100000)

	p, err := e.Place(marketOrder("A", domain.OrderSideBuy, 10000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Trade == nil {
		t.Fatal("expected an immediate trade for a market order")
	}
	if p.OrderID != "" {
		t.Error("market placement must not carry an order ID")
	}
	if p.Trade.Quantity != 2 {
		t.Errorf("Quantity = %v, want 2", p.Trade.Quantity)
	}
	if p.Trade.Automatic {
		t.Error("market trades are directly requested, not automatic")
	}

	acct, _ := l.Account("A")
	if acct.CashCents != 90000 {
		t.Errorf("CashCents = %d, want 90000", acct.CashCents)
	}
	if acct.Holdings != 2 {
		t.Errorf("Holdings = %v, want 2", acct.Holdings)
	}
}

func TestPlace_MarketBuyInsufficientFunds(t *testing.T) {
	e, l, _ := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 5000)

	_, err := e.Place(marketOrder("A", domain.OrderSideBuy, 10000))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPlace_Invalid(t *testing.T) {
	e, l, b := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 100000)

	if _, err := e.Place(marketOrder("A", domain.OrderSideBuy, 0)); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Errorf("zero notional: expected ErrInvalidOrder, got %v", err)
	}

	withTrigger := marketOrder("A", domain.OrderSideBuy, 10000)
	withTrigger.TriggerCents = 4000
	if _, err := e.Place(withTrigger); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Errorf("market with trigger: expected ErrInvalidOrder, got %v", err)
	}

	unknownKind := marketOrder("A", domain.OrderSideBuy, 10000)
	unknownKind.Kind = domain.OrderKind("iceberg")
	if _, err := e.Place(unknownKind); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Errorf("unknown kind: expected ErrInvalidOrder, got %v", err)
	}

	noTrigger := newConditional("A", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 0)
	if _, err := e.Place(noTrigger); !errors.Is(err, domain.ErrInvalidOrder) {
		t.Errorf("limit without trigger: expected ErrInvalidOrder, got %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("rejected orders must not rest on the book, Len() = %d", b.Len())
	}
}

func TestPlace_ConditionalRestsOnBook(t *testing.T) {
	e, l, b := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 100000)

	p, err := e.Place(newConditional("A", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.OrderID == "" || p.Trade != nil {
		t.Fatal("conditional placement must return an order ID and no trade")
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}

	// Placing a conditional order must not touch balances.
	acct, _ := l.Account("A")
	if acct.CashCents != 100000 || acct.Holdings != 0 {
		t.Error("conditional placement changed balances")
	}
}

// Account B: cash $500, limit buy $100 trigger $40. Tick to $45 leaves it
// pending; tick to $38 executes at $38 for ≈2.63 units, cash $400.
func TestTick_LimitBuyLifecycle(t *testing.T) {
	prices := &scriptedPrices{current: 5000, next: []int64{4500, 3800}}
	e, l, b := newTestEngine(prices)
	l.CreateAccount("B", 50000)

	p, err := e.Place(newConditional("B", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Price advances to 45.00, above the trigger: no execution.
	if _, trades := e.Tick(); len(trades) != 0 {
		t.Fatalf("tick at 4500 executed %d trades, want 0", len(trades))
	}
	if b.Len() != 1 {
		t.Error("order should remain pending above its trigger")
	}

	// Price advances to 38.00, at or below the trigger: executes at 38.00.
	_, trades := e.Tick()
	if len(trades) != 1 {
		t.Fatalf("tick at 3800 executed %d trades, want 1", len(trades))
	}
	tr := trades[0]
	if tr.PriceCents != 3800 {
		t.Errorf("execution price = %d, want 3800", tr.PriceCents)
	}
	wantQty := 10000.0 / 3800.0
	if math.Abs(tr.Quantity-wantQty) > 1e-9 {
		t.Errorf("Quantity = %v, want %v", tr.Quantity, wantQty)
	}
	if !tr.Automatic {
		t.Error("triggered execution must be flagged automatic")
	}

	acct, _ := l.Account("B")
	if acct.CashCents != 40000 {
		t.Errorf("CashCents = %d, want 40000", acct.CashCents)
	}
	if math.Abs(acct.Holdings-wantQty) > 1e-9 {
		t.Errorf("Holdings = %v, want %v", acct.Holdings, wantQty)
	}
	if b.Len() != 0 {
		t.Error("executed order must be removed from the book")
	}
	if e.Cancel(p.OrderID, "B") {
		t.Error("executed order must no longer be cancellable")
	}
}

func TestTick_StopSellLifecycle(t *testing.T) {
	prices := &scriptedPrices{current: 5000, next: []int64{5200, 3500}}
	e, l, b := newTestEngine(prices)
	l.CreateAccount("A", 100000)

	// Hold 2 units bought at 50.00, protected by a stop sell at 40.00.
	if _, err := e.Place(marketOrder("A", domain.OrderSideBuy, 10000)); err != nil {
		t.Fatalf("market buy failed: %v", err)
	}
	if _, err := e.Place(newConditional("A", domain.OrderKindStop, domain.OrderSideSell, 7000, 4000)); err != nil {
		t.Fatalf("stop sell failed: %v", err)
	}

	// Rising price: stop sell stays pending.
	if _, trades := e.Tick(); len(trades) != 0 {
		t.Fatalf("tick at 5200 executed %d trades, want 0", len(trades))
	}

	// Falling through the stop: sells $70.00 at 35.00 → 2 units.
	_, trades := e.Tick()
	if len(trades) != 1 {
		t.Fatalf("tick at 3500 executed %d trades, want 1", len(trades))
	}
	if trades[0].Side != domain.OrderSideSell || trades[0].PriceCents != 3500 {
		t.Errorf("unexpected trade: side=%s price=%d", trades[0].Side, trades[0].PriceCents)
	}
	if b.Len() != 0 {
		t.Error("executed stop must be removed from the book")
	}
}

// A triggered order the ledger rejects stays pending and is retried on a
// later tick; it is never dropped, and it executes once funds exist.
func TestTick_FailedExecutionStaysPendingThenRetries(t *testing.T) {
	prices := &scriptedPrices{current: 5000, next: []int64{3800, 3800, 3800}}
	e, l, b := newTestEngine(prices)
	l.CreateAccount("B", 5000) // not enough for a $100 buy

	if _, err := e.Place(newConditional("B", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, trades := e.Tick(); len(trades) != 0 {
		t.Fatalf("underfunded order executed %d trades", len(trades))
	}
	if b.Len() != 1 {
		t.Fatal("underfunded order must stay pending")
	}

	// Still pending on the next sweep.
	if _, trades := e.Tick(); len(trades) != 0 {
		t.Fatal("underfunded order executed on retry without funds")
	}

	// Raise cash past the notional: buy 5 units at $10, sell them at $20.
	l.Execute("B", domain.OrderSideBuy, 5000, 1000, false)
	l.Execute("B", domain.OrderSideSell, 10000, 2000, false)

	_, trades := e.Tick()
	if len(trades) != 1 {
		t.Fatalf("funded retry executed %d trades, want 1", len(trades))
	}
	if b.Len() != 0 {
		t.Error("executed order must leave the book")
	}
}

// One failing order must not stop the sweep for others.
func TestTick_FailureIsolation(t *testing.T) {
	prices := &scriptedPrices{current: 5000, next: []int64{3800}}
	e, l, b := newTestEngine(prices)
	l.CreateAccount("poor", 100)
	l.CreateAccount("rich", 100000)

	// Same trigger level; the underfunded order inserted first.
	if _, err := e.Place(newConditional("poor", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000)); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Place(newConditional("rich", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000)); err != nil {
		t.Fatal(err)
	}

	_, trades := e.Tick()
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].AccountID != "rich" {
		t.Errorf("expected rich's order to execute, got %s", trades[0].AccountID)
	}
	if b.Len() != 1 {
		t.Errorf("expected poor's order to remain pending, Len() = %d", b.Len())
	}
}

// tick() with no pending orders returns an empty result and advances the
// price exactly once.
func TestTick_EmptyBook(t *testing.T) {
	prices := &scriptedPrices{current: 5000, next: []int64{5010}}
	e, _, _ := newTestEngine(prices)

	price, trades := e.Tick()
	if len(trades) != 0 {
		t.Errorf("expected no trades, got %d", len(trades))
	}
	if price != 5010 {
		t.Errorf("Tick returned price %d, want 5010", price)
	}
	if prices.ticks != 1 {
		t.Errorf("price advanced %d times, want 1", prices.ticks)
	}
	if prices.current != 5010 {
		t.Errorf("current price = %d, want 5010", prices.current)
	}
}

// steadyPrices always reports the same price and is safe for concurrent
// Advance calls, unlike scriptedPrices.
type steadyPrices struct{ price int64 }

func (s *steadyPrices) Current() int64 { return s.price }
func (s *steadyPrices) Advance() int64 { return s.price }

// The interval sweeper and the tick endpoint can sweep at the same time.
// A pending order both sweeps see must still settle exactly once, even
// when the account could afford executing it twice.
func TestTick_ConcurrentSweepsExecuteOnce(t *testing.T) {
	for i := 0; i < 25; i++ {
		l := ledger.New()
		b := NewBook()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		e := New(b, l, &steadyPrices{price: 3800}, logger)

		l.CreateAccount("B", 100000)
		if _, err := e.Place(newConditional("B", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000)); err != nil {
			t.Fatal(err)
		}

		start := make(chan struct{})
		var wg sync.WaitGroup
		var executed atomic.Int64
		for g := 0; g < 2; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, trades := e.Tick()
				executed.Add(int64(len(trades)))
			}()
		}
		close(start)
		wg.Wait()

		if got := executed.Load(); got != 1 {
			t.Fatalf("concurrent ticks executed the order %d times, want 1", got)
		}
		if history, _ := l.TradeHistory("B"); len(history) != 1 {
			t.Fatalf("trade history has %d entries, want 1", len(history))
		}
		acct, _ := l.Account("B")
		if acct.CashCents != 90000 {
			t.Fatalf("CashCents = %d, want 90000 (order settled more than once)", acct.CashCents)
		}
		if b.Len() != 0 {
			t.Fatal("executed order must leave the book")
		}
	}
}

// A conditional order for an unknown account could never execute, so it
// is rejected at placement rather than left to fail on every sweep.
func TestPlace_ConditionalUnknownAccount(t *testing.T) {
	e, _, b := newTestEngine(&scriptedPrices{current: 5000})

	for _, kind := range []domain.OrderKind{domain.OrderKindLimit, domain.OrderKindStop} {
		_, err := e.Place(newConditional("ghost", kind, domain.OrderSideBuy, 10000, 4000))
		if !errors.Is(err, domain.ErrAccountNotFound) {
			t.Errorf("%s: expected ErrAccountNotFound, got %v", kind, err)
		}
	}
	if b.Len() != 0 {
		t.Errorf("rejected orders must not rest on the book, Len() = %d", b.Len())
	}
}

func TestCancel_Delegates(t *testing.T) {
	e, l, _ := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 100000)

	p, _ := e.Place(newConditional("A", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000))
	if e.Cancel(p.OrderID, "mallory") {
		t.Error("cancel by non-owner must fail")
	}
	if !e.Cancel(p.OrderID, "A") {
		t.Error("cancel by owner must succeed")
	}
}

func TestPendingOrders(t *testing.T) {
	e, l, _ := newTestEngine(&scriptedPrices{current: 5000})
	l.CreateAccount("A", 100000)

	first, _ := e.Place(newConditional("A", domain.OrderKindLimit, domain.OrderSideBuy, 10000, 4000))
	second, _ := e.Place(newConditional("A", domain.OrderKindStop, domain.OrderSideSell, 5000, 3000))

	pending := e.PendingOrders("A")
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending orders, got %d", len(pending))
	}
	if pending[0].OrderID != first.OrderID || pending[1].OrderID != second.OrderID {
		t.Error("expected pending orders oldest first")
	}
}
