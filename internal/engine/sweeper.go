package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/blen-az/investFX-sub001/internal/domain"
)

// TickListener receives the outcome of each sweep. The stream hub
// implements it to push tick events to websocket clients.
type TickListener interface {
	TickExecuted(priceCents int64, trades []*domain.Trade)
}

// Sweeper drives the engine's tick loop on a fixed interval, decoupling
// the background matching sweep from user-facing order placement.
type Sweeper struct {
	interval time.Duration
	engine   *Engine
	listener TickListener // optional
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. The listener may be nil.
func NewSweeper(interval time.Duration, engine *Engine, listener TickListener, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		interval: interval,
		engine:   engine,
		listener: listener,
		logger:   logger,
	}
}

// Start launches a background goroutine that sweeps at the configured
// interval. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.SweepOnce()
			}
		}
	}()
}

// SweepOnce runs a single tick, notifies the listener, and returns the
// price the tick matched at along with the trades executed. The HTTP
// tick endpoint calls this directly so an external scheduler can drive
// the sweep instead of the internal ticker.
func (s *Sweeper) SweepOnce() (int64, []*domain.Trade) {
	price, trades := s.engine.Tick()

	if len(trades) > 0 {
		s.logger.Info("sweep executed triggered orders",
			slog.Int("trades", len(trades)),
			slog.Int64("price_cents", price),
		)
	}
	if s.listener != nil {
		s.listener.TickExecuted(price, trades)
	}
	return price, trades
}
