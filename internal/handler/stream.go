package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/blen-az/investFX-sub001/internal/domain"
	"github.com/blen-az/investFX-sub001/internal/stream"
)

// StreamHandler upgrades clients to a websocket and forwards tick events
// from the hub.
type StreamHandler struct {
	hub      *stream.Hub[stream.TickEvent]
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(hub *stream.Hub[stream.TickEvent], logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// tickMessage is the JSON frame pushed per tick.
type tickMessage struct {
	Type   string          `json:"type"`
	Price  float64         `json:"price"`
	Trades []tradeResponse `json:"trades"`
}

// Stream handles GET /market/stream.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(16)
	defer h.hub.Unsubscribe(sub)

	// Drain client frames so closes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			msg := tickMessage{
				Type:   "tick",
				Price:  domain.CentsToDollars(ev.PriceCents),
				Trades: buildTradeResponses(ev.Trades),
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
