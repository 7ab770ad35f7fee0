package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/goalpost-app/tournament-platform/realtime"
)

type WebSocketHandler struct {
	hub      *realtime.Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *realtime.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades the connection and joins the tournament's room. The
// client then receives every event broadcast for that tournament until it
// disconnects.
func (h *WebSocketHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := realtime.NewClient(h.hub, conn, fmt.Sprintf("tournament:%d", tournamentID))
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
