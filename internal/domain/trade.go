package domain

import "time"

// Trade records a single settled execution against an account's balances.
// Trades are immutable once created; they are appended to the global log
// and to the owning account's personal history, and never modified or
// deleted afterwards.
type Trade struct {
	TradeID       string
	AccountID     string
	Side          OrderSide
	NotionalCents int64
	Quantity      float64 // asset units, notional ÷ execution price
	PriceCents    int64   // execution price in cents
	Automatic     bool    // true when a tick sweep triggered the execution
	ExecutedAt    time.Time
}
