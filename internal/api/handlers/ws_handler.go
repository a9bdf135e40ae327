package handlers

import (
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/taxdesk/receipt-engine/internal/websocket"
)

// WSHandler upgrades HTTP connections to WebSocket clients on the draft
// event hub.
type WSHandler struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *websocket.Hub, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &WSHandler{
		hub:    hub,
		logger: logger,
	}
}

// Connect handles GET /ws
func (h *WSHandler) Connect(c echo.Context) error {
	upgrader := websocket.NewSecureUpgrader(h.logger)

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		h.logger.Error("websocket upgrade failed", "error", err)
		return nil
	}

	client := websocket.NewClient(h.hub, conn, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	return nil
}
