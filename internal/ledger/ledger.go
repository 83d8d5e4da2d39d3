package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blen-az/investFX-sub001/internal/domain"
)

// account is a live balance record. Its mutex serializes every Execute
// call against the same account; the ledger-level lock only guards the
// accounts map.
type account struct {
	mu        sync.Mutex
	accountID string
	cashCents int64
	holdings  float64
	createdAt time.Time
	trades    []*domain.Trade // personal history, chronological
}

// snapshot copies the account's balances. Caller must hold account.mu.
func (a *account) snapshot() domain.Account {
	return domain.Account{
		AccountID: a.accountID,
		CashCents: a.cashCents,
		Holdings:  a.holdings,
		CreatedAt: a.createdAt,
	}
}

// Ledger is the sole authority over account balances and the trade audit
// log. Execute either fully applies both sides of a balance change and
// appends the trade record, or applies nothing; failures are reported as
// typed errors and never retried internally.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[string]*account

	logMu sync.Mutex
	log   []*domain.Trade // global append-only log, chronological
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[string]*account),
	}
}

// CreateAccount registers an account with the given starting cash.
// It returns domain.ErrAccountAlreadyExists if the ID is taken.
// Accounts are never deleted, only debited and credited.
func (l *Ledger) CreateAccount(id string, initialCashCents int64) (domain.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.accounts[id]; exists {
		return domain.Account{}, domain.ErrAccountAlreadyExists
	}
	acct := &account{
		accountID: id,
		cashCents: initialCashCents,
		createdAt: time.Now(),
	}
	l.accounts[id] = acct
	return acct.snapshot(), nil
}

// get retrieves the live record for an account ID.
func (l *Ledger) get(id string) (*account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct, nil
}

// Execute settles a trade of notionalCents at priceCents against the
// account's balances. A buy debits cash by the notional and credits
// holdings by notional/price; a sell debits holdings by notional/price
// and credits cash by the notional. On success the trade is appended to
// the global log and the account's history and returned.
//
// The account's mutex is held for the entire validate-mutate-append
// sequence, so concurrent executions against the same account serialize
// and a balance can never go negative or double-spend.
func (l *Ledger) Execute(accountID string, side domain.OrderSide, notionalCents, priceCents int64, automatic bool) (*domain.Trade, error) {
	if notionalCents <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	if priceCents <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	acct, err := l.get(accountID)
	if err != nil {
		return nil, err
	}

	quantity := float64(notionalCents) / float64(priceCents)

	acct.mu.Lock()
	defer acct.mu.Unlock()

	switch side {
	case domain.OrderSideBuy:
		if acct.cashCents < notionalCents {
			return nil, domain.ErrInsufficientFunds
		}
		acct.cashCents -= notionalCents
		acct.holdings += quantity
	case domain.OrderSideSell:
		if acct.holdings < quantity {
			return nil, domain.ErrInsufficientHoldings
		}
		acct.holdings -= quantity
		acct.cashCents += notionalCents
	default:
		return nil, domain.ErrInvalidOrder
	}

	trade := &domain.Trade{
		TradeID:       uuid.New().String(),
		AccountID:     accountID,
		Side:          side,
		NotionalCents: notionalCents,
		Quantity:      quantity,
		PriceCents:    priceCents,
		Automatic:     automatic,
		ExecutedAt:    time.Now(),
	}
	acct.trades = append(acct.trades, trade)

	l.logMu.Lock()
	l.log = append(l.log, trade)
	l.logMu.Unlock()

	return trade, nil
}

// Account returns a point-in-time snapshot of the account's balances.
func (l *Ledger) Account(id string) (domain.Account, error) {
	acct, err := l.get(id)
	if err != nil {
		return domain.Account{}, err
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()
	return acct.snapshot(), nil
}

// TradeHistory returns the account's trades, newest first. The returned
// slice is a copy; the underlying records are shared but immutable.
func (l *Ledger) TradeHistory(id string) ([]*domain.Trade, error) {
	acct, err := l.get(id)
	if err != nil {
		return nil, err
	}

	acct.mu.Lock()
	defer acct.mu.Unlock()

	result := make([]*domain.Trade, len(acct.trades))
	for i, t := range acct.trades {
		result[len(acct.trades)-1-i] = t
	}
	return result, nil
}

// AllTrades returns the global trade log, newest first.
func (l *Ledger) AllTrades() []*domain.Trade {
	l.logMu.Lock()
	defer l.logMu.Unlock()

	result := make([]*domain.Trade, len(l.log))
	for i, t := range l.log {
		result[len(l.log)-1-i] = t
	}
	return result
}
