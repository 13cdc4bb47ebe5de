package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/isdelr/artcampus-be/internal/auth"
	ws "github.com/isdelr/artcampus-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades HTTP connections for live notification push.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. The route sits behind
// the JWT middleware, so the connection is subscribed to the
// authenticated user's notification stream.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, session.UserID)
	h.hub.Register <- client

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleIncomingWSMessage)
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a client. The
// notification stream is one-way; anything a client sends is rejected.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	log.Warn().Str("user_id", client.UserID).Bytes("message", message).Msg("Unexpected websocket message from client")
	client.Send <- ws.NewErrorMessage("The notification stream does not accept messages")
}
