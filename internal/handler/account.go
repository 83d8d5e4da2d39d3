package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountSvc *service.AccountService
	tradingSvc *service.TradingService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc *service.AccountService, tradingSvc *service.TradingService) *AccountHandler {
	return &AccountHandler{
		accountSvc: accountSvc,
		tradingSvc: tradingSvc,
	}
}

// registerAccountRequest is the JSON request body for POST /accounts.
type registerAccountRequest struct {
	AccountID   string  `json:"account_id"`
	InitialCash float64 `json:"initial_cash"`
}

// balanceResponse is the JSON response for account balances.
type balanceResponse struct {
	AccountID string  `json:"account_id"`
	Cash      float64 `json:"cash"`
	Holdings  float64 `json:"holdings"`
	CreatedAt string  `json:"created_at"`
}

func buildBalanceResponse(a domain.Account) balanceResponse {
	return balanceResponse{
		AccountID: a.AccountID,
		Cash:      a.Cash(),
		Holdings:  a.Holdings,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// Register handles POST /accounts.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAccountRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	acct, err := h.accountSvc.Register(service.RegisterAccountRequest{
		AccountID:   req.AccountID,
		InitialCash: req.InitialCash,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildBalanceResponse(acct))
}

// GetBalance handles GET /accounts/{account_id}/balance.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	acct, err := h.accountSvc.GetBalance(accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildBalanceResponse(acct))
}

// tradeHistoryResponse is the JSON response for GET /accounts/{account_id}/trades.
type tradeHistoryResponse struct {
	AccountID string          `json:"account_id"`
	Trades    []tradeResponse `json:"trades"`
}

// GetTrades handles GET /accounts/{account_id}/trades.
func (h *AccountHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	trades, err := h.accountSvc.GetTradeHistory(accountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tradeHistoryResponse{
		AccountID: accountID,
		Trades:    buildTradeResponses(trades),
	})
}

// pendingOrderResponse is the JSON shape of a resting conditional order.
type pendingOrderResponse struct {
	OrderID      string  `json:"order_id"`
	AccountID    string  `json:"account_id"`
	Kind         string  `json:"kind"`
	Side         string  `json:"side"`
	Notional     float64 `json:"notional"`
	TriggerPrice float64 `json:"trigger_price"`
	CreatedAt    string  `json:"created_at"`
}

// GetOrders handles GET /accounts/{account_id}/orders.
func (h *AccountHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "account_id")

	// Resolve the account first so unknown IDs report 404 rather than an
	// empty list.
	if _, err := h.accountSvc.GetBalance(accountID); err != nil {
		writeDomainError(w, err)
		return
	}

	pending := h.tradingSvc.PendingOrders(accountID)
	out := make([]pendingOrderResponse, len(pending))
	for i, o := range pending {
		out[i] = pendingOrderResponse{
			OrderID:      o.OrderID,
			AccountID:    o.AccountID,
			Kind:         string(o.Kind),
			Side:         string(o.Side),
			Notional:     domain.CentsToDollars(o.NotionalCents),
			TriggerPrice: domain.CentsToDollars(o.TriggerCents),
			CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"account_id": accountID,
		"orders":     out,
	})
}
