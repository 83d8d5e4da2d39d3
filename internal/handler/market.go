package handler

import (
	"net/http"
	"time"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/service"
)

// MarketHandler handles HTTP requests for market endpoints.
type MarketHandler struct {
	marketSvc *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketSvc *service.MarketService) *MarketHandler {
	return &MarketHandler{marketSvc: marketSvc}
}

// priceResponse is the JSON response for GET /market/price.
type priceResponse struct {
	Price float64 `json:"price"`
	AsOf  string  `json:"as_of"`
}

// GetPrice handles GET /market/price.
func (h *MarketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, priceResponse{
		Price: domain.CentsToDollars(h.marketSvc.CurrentPrice()),
		AsOf:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// setPriceRequest is the JSON request body for PUT /market/price.
type setPriceRequest struct {
	Price float64 `json:"price"`
}

// SetPrice handles PUT /market/price, the administrative price override.
func (h *MarketHandler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.marketSvc.SetPrice(req.Price); err != nil {
		writeDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, priceResponse{
		Price: domain.CentsToDollars(h.marketSvc.CurrentPrice()),
		AsOf:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// tickResponse is the JSON response for POST /market/tick.
type tickResponse struct {
	Price  float64         `json:"price"`
	Trades []tradeResponse `json:"trades"`
}

// RunTick handles POST /market/tick: one price advance plus a sweep of
// the order book, for deployments that drive ticks from an external
// scheduler.
func (h *MarketHandler) RunTick(w http.ResponseWriter, r *http.Request) {
	price, trades := h.marketSvc.RunTick()
	WriteJSON(w, http.StatusOK, tickResponse{
		Price:  domain.CentsToDollars(price),
		Trades: buildTradeResponses(trades),
	})
}

// GetTrades handles GET /market/trades, the global trade feed.
func (h *MarketHandler) GetTrades(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"trades": buildTradeResponses(h.marketSvc.RecentTrades()),
	})
}
