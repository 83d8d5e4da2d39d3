package service

import (
	"fmt"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/engine"
)

// PlaceOrderRequest represents the input for order submission. Monetary
// values are dollars; the service converts to cents.
type PlaceOrderRequest struct {
	AccountID    string
	Kind         domain.OrderKind
	Side         domain.OrderSide
	Notional     float64
	TriggerPrice *float64 // required for limit/stop, must be nil for market
}

// TradingService validates order requests and hands them to the matching
// engine.
type TradingService struct {
	engine *engine.Engine
}

// NewTradingService creates a new TradingService.
func NewTradingService(e *engine.Engine) *TradingService {
	return &TradingService{engine: e}
}

// PlaceOrder validates the request and places the order. Market orders
// return a Placement carrying the executed trade; limit and stop orders
// return one carrying the resting order's ID.
func (s *TradingService) PlaceOrder(req PlaceOrderRequest) (*engine.Placement, error) {
	if !accountIDRegex.MatchString(req.AccountID) {
		return nil, &domain.ValidationError{
			Message: "account_id must match ^[a-zA-Z0-9_-]{1,64}$",
		}
	}
	switch req.Kind {
	case domain.OrderKindMarket, domain.OrderKindLimit, domain.OrderKindStop:
	default:
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown order kind: %s. Must be one of: market, limit, stop", req.Kind),
		}
	}
	if req.Side != domain.OrderSideBuy && req.Side != domain.OrderSideSell {
		return nil, &domain.ValidationError{
			Message: "side must be 'buy' or 'sell'",
		}
	}
	if req.Notional <= 0 {
		return nil, &domain.ValidationError{
			Message: "notional must be > 0",
		}
	}
	notionalCents, err := domain.DollarsToCents(req.Notional)
	if err != nil || notionalCents <= 0 {
		return nil, &domain.ValidationError{
			Message: "notional must be a positive amount with at most 2 decimal places",
		}
	}

	var triggerCents int64
	if req.Kind == domain.OrderKindMarket {
		if req.TriggerPrice != nil {
			return nil, &domain.ValidationError{
				Message: "trigger_price must be omitted for market orders",
			}
		}
	} else {
		if req.TriggerPrice == nil {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("trigger_price is required for %s orders", req.Kind),
			}
		}
		if *req.TriggerPrice <= 0 {
			return nil, &domain.ValidationError{
				Message: "trigger_price must be > 0",
			}
		}
		triggerCents, err = domain.DollarsToCents(*req.TriggerPrice)
		if err != nil || triggerCents <= 0 {
			return nil, &domain.ValidationError{
				Message: "trigger_price must be a positive amount with at most 2 decimal places",
			}
		}
	}

	order := &domain.Order{
		AccountID:     req.AccountID,
		Kind:          req.Kind,
		Side:          req.Side,
		NotionalCents: notionalCents,
		TriggerCents:  triggerCents,
	}
	return s.engine.Place(order)
}

// CancelOrder removes a pending order if it belongs to accountID.
// Idempotent: false for unknown orders or foreign owners.
func (s *TradingService) CancelOrder(orderID, accountID string) bool {
	return s.engine.Cancel(orderID, accountID)
}

// PendingOrders returns the account's conditional orders still on the
// book, oldest first.
func (s *TradingService) PendingOrders(accountID string) []*domain.Order {
	return s.engine.PendingOrders(accountID)
}
