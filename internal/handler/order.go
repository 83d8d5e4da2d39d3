package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/service"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	tradingSvc *service.TradingService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(tradingSvc *service.TradingService) *OrderHandler {
	return &OrderHandler{tradingSvc: tradingSvc}
}

// placeOrderRequest is the JSON request body for POST /orders.
type placeOrderRequest struct {
	AccountID    string   `json:"account_id"`
	Kind         string   `json:"kind"`
	Side         string   `json:"side"`
	Notional     float64  `json:"notional"`
	TriggerPrice *float64 `json:"trigger_price"`
}

// pendingPlacementResponse is the JSON response when a conditional order
// rests on the book.
type pendingPlacementResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// PlaceOrder handles POST /orders. Market orders respond with the
// executed trade; limit and stop orders respond with the pending order's
// ID.
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	placement, err := h.tradingSvc.PlaceOrder(service.PlaceOrderRequest{
		AccountID:    req.AccountID,
		Kind:         domain.OrderKind(req.Kind),
		Side:         domain.OrderSide(req.Side),
		Notional:     req.Notional,
		TriggerPrice: req.TriggerPrice,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if placement.Trade != nil {
		WriteJSON(w, http.StatusCreated, buildTradeResponse(placement.Trade))
		return
	}
	WriteJSON(w, http.StatusCreated, pendingPlacementResponse{
		OrderID: placement.OrderID,
		Status:  "pending",
	})
}

// cancelResponse is the JSON response for DELETE /orders/{order_id}.
type cancelResponse struct {
	OrderID   string `json:"order_id"`
	Cancelled bool   `json:"cancelled"`
}

// CancelOrder handles DELETE /orders/{order_id}?account_id=X. The result
// is always 200: cancellation is idempotent and reports a boolean rather
// than an error.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "order_id")
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		WriteError(w, http.StatusBadRequest, "validation_error", "account_id query parameter is required")
		return
	}

	cancelled := h.tradingSvc.CancelOrder(orderID, accountID)
	WriteJSON(w, http.StatusOK, cancelResponse{
		OrderID:   orderID,
		Cancelled: cancelled,
	})
}
