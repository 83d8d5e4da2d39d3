package engine

import (
	"log/slog"
	"sync"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/ledger"
)

// PriceSource supplies the reference price the engine matches against.
// The production implementation is pricefeed.Feed; tests script prices
// through a stub.
type PriceSource interface {
	Current() int64
	Advance() int64
}

// Placement is the result of placing an order. Market orders carry the
// executed Trade; limit and stop orders carry the resting order's ID.
type Placement struct {
	Trade   *domain.Trade
	OrderID string
}

// Engine coordinates the book, the ledger, and the price source. It owns
// no balance or order state of its own: market orders execute immediately
// through the ledger, conditional orders rest on the book, and each tick
// re-evaluates the book against the advanced price.
type Engine struct {
	book   *Book
	ledger *ledger.Ledger
	prices PriceSource
	logger *slog.Logger

	// tickMu serializes sweeps. The interval sweeper and the tick
	// endpoint can run concurrently; without this, two sweeps could both
	// see the same pending order in a Triggered scan and settle it twice.
	tickMu sync.Mutex
}

// New creates an Engine with the given dependencies. A nil logger falls
// back to slog.Default.
func New(book *Book, l *ledger.Ledger, prices PriceSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		book:   book,
		ledger: l,
		prices: prices,
		logger: logger,
	}
}

// Place validates and routes an incoming order. Market orders execute
// immediately against the ledger at the current reference price and any
// ledger error is returned as-is; limit and stop orders rest on the book
// until a tick triggers them.
func (e *Engine) Place(o *domain.Order) (*Placement, error) {
	if o.NotionalCents <= 0 {
		return nil, domain.ErrInvalidOrder
	}

	switch o.Kind {
	case domain.OrderKindMarket:
		if o.TriggerCents != 0 {
			return nil, domain.ErrInvalidOrder
		}
		trade, err := e.ledger.Execute(o.AccountID, o.Side, o.NotionalCents, e.prices.Current(), false)
		if err != nil {
			return nil, err
		}
		return &Placement{Trade: trade}, nil
	case domain.OrderKindLimit, domain.OrderKindStop:
		// A resting order for an unknown account could never execute and
		// would fail every sweep, so reject it up front.
		if _, err := e.ledger.Account(o.AccountID); err != nil {
			return nil, err
		}
		id, err := e.book.Add(o)
		if err != nil {
			return nil, err
		}
		return &Placement{OrderID: id}, nil
	default:
		return nil, domain.ErrInvalidOrder
	}
}

// Cancel removes a pending order if it belongs to ownerID. The return
// mirrors Book.Cancel: false for unknown orders or foreign owners, never
// an error. An order already handed to the ledger cannot be cancelled.
func (e *Engine) Cancel(orderID, ownerID string) bool {
	return e.book.Cancel(orderID, ownerID)
}

// Tick advances the reference price once and executes every order the
// new price triggers, returning that price and the executed trades in
// book iteration order. Executions the ledger rejects (insufficient funds
// or holdings) are logged and left pending for a later sweep; one failing
// order never stops the rest. Ticks run one at a time so an order can
// only ever execute once.
func (e *Engine) Tick() (int64, []*domain.Trade) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	price := e.prices.Advance()
	triggered := e.book.Triggered(price)

	trades := make([]*domain.Trade, 0, len(triggered))
	for _, o := range triggered {
		trade, err := e.ledger.Execute(o.AccountID, o.Side, o.NotionalCents, price, true)
		if err != nil {
			e.logger.Debug("triggered order left pending",
				slog.String("order_id", o.OrderID),
				slog.String("account_id", o.AccountID),
				slog.String("error", err.Error()),
			)
			continue
		}
		e.book.Remove(o.OrderID)
		trades = append(trades, trade)
	}
	return price, trades
}

// PendingOrders returns the account's conditional orders still resting on
// the book, oldest first.
func (e *Engine) PendingOrders(accountID string) []*domain.Order {
	return e.book.ListByOwner(accountID)
}
