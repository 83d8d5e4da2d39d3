package service

import (
	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/ledger"
)

// PriceController is the write side of the price feed the market service
// needs: the current value and the administrative override.
type PriceController interface {
	Current() int64
	Set(cents int64) error
}

// Sweep runs one matching pass. Implemented by engine.Sweeper.
type Sweep interface {
	SweepOnce() (priceCents int64, trades []*domain.Trade)
}

// MarketService handles reference-price queries, price overrides, manual
// tick runs, and the global trade feed.
type MarketService struct {
	prices  PriceController
	sweeper Sweep
	ledger  *ledger.Ledger
}

// NewMarketService creates a new MarketService.
func NewMarketService(prices PriceController, sweeper Sweep, l *ledger.Ledger) *MarketService {
	return &MarketService{
		prices:  prices,
		sweeper: sweeper,
		ledger:  l,
	}
}

// CurrentPrice returns the reference price in cents.
func (s *MarketService) CurrentPrice() int64 {
	return s.prices.Current()
}

// SetPrice overrides the reference price. The value is dollars.
func (s *MarketService) SetPrice(price float64) error {
	if price <= 0 {
		return domain.ErrInvalidPrice
	}
	cents, err := domain.DollarsToCents(price)
	if err != nil {
		return &domain.ValidationError{
			Message: "price must have at most 2 decimal places",
		}
	}
	return s.prices.Set(cents)
}

// RunTick advances the price once, executes triggered orders, and
// returns the price the sweep matched at together with the resulting
// trades.
func (s *MarketService) RunTick() (int64, []*domain.Trade) {
	return s.sweeper.SweepOnce()
}

// RecentTrades returns the global trade log, newest first.
func (s *MarketService) RecentTrades() []*domain.Trade {
	return s.ledger.AllTrades()
}
