package domain

import "time"

// OrderKind distinguishes immediately-executed market orders from
// conditional limit and stop orders.
type OrderKind string

const (
	OrderKindMarket OrderKind = "market"
	OrderKindLimit  OrderKind = "limit"
	OrderKindStop   OrderKind = "stop"
)

// OrderSide indicates whether an order buys or sells the asset.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Order represents an instruction to trade a cash notional amount.
// Market orders are transient: they execute immediately and are never
// stored. Limit and stop orders rest on the book until triggered and
// executed, or cancelled.
type Order struct {
	OrderID       string
	AccountID     string
	Kind          OrderKind
	Side          OrderSide
	NotionalCents int64 // cash value of the order, always > 0
	TriggerCents  int64 // trigger price in cents, > 0 for limit/stop, 0 for market
	CreatedAt     time.Time
}

// Triggers reports whether the order's condition holds at the given
// reference price. Limit buys and stop sells fire when the price falls to
// or below the trigger; limit sells and stop buys fire when it rises to
// or above it. Market orders never rest, so they never trigger.
func (o *Order) Triggers(priceCents int64) bool {
	switch {
	case o.Kind == OrderKindLimit && o.Side == OrderSideBuy,
		o.Kind == OrderKindStop && o.Side == OrderSideSell:
		return priceCents <= o.TriggerCents
	case o.Kind == OrderKindLimit && o.Side == OrderSideSell,
		o.Kind == OrderKindStop && o.Side == OrderSideBuy:
		return priceCents >= o.TriggerCents
	}
	return false
}
