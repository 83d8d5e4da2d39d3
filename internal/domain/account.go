package domain

import "time"

// Account is a point-in-time view of a user's balances. The live records
// are owned by the ledger; every other component mutates them only through
// Ledger.Execute.
type Account struct {
	AccountID string
	CashCents int64   // cash balance in cents, never negative
	Holdings  float64 // asset units held, never negative
	CreatedAt time.Time
}

// Cash returns the cash balance in dollars.
func (a Account) Cash() float64 {
	return CentsToDollars(a.CashCents)
}
