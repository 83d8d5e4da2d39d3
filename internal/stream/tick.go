package stream

import "github.com/blen-az/investFX-sub001/internal/domain"

// TickEvent is one reference-price advance together with the trades it
// triggered.
type TickEvent struct {
	PriceCents int64
	Trades     []*domain.Trade
}

// TickBroadcaster adapts a Hub of TickEvents to the engine's
// TickListener interface.
type TickBroadcaster struct {
	Hub *Hub[TickEvent]
}

// TickExecuted publishes the sweep outcome to all subscribers.
func (b *TickBroadcaster) TickExecuted(priceCents int64, trades []*domain.Trade) {
	b.Hub.Broadcast(TickEvent{PriceCents: priceCents, Trades: trades})
}
