package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mdwlog "github.com/msto63/ccp/foundation/core/log"
	"github.com/msto63/ccp/internal/report"
)

// readTimeout closes idle connections that stop answering pings.
const readTimeout = 120 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "check", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSCheckPayload is the payload of a "check" message
type WSCheckPayload struct {
	Source     string `json:"source"`
	ShowTokens *bool  `json:"show_tokens,omitempty"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "result", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler checks sources sent over a WebSocket, one result per
// "check" message, in the order received.
type WebSocketHandler struct {
	api    *Handler
	logger *mdwlog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(api *Handler) *WebSocketHandler {
	return &WebSocketHandler{
		api:    api,
		logger: api.logger.WithField("transport", "websocket"),
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr("WebSocket upgrade failed", err)
		return
	}
	h.handleConnection(r, conn)
}

func (h *WebSocketHandler) handleConnection(r *http.Request, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", mdwlog.Fields{"remote": conn.RemoteAddr().String()})

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	send := func(resp WSResponse) {
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.WarnWithErr("Failed to send WebSocket response", err)
		}
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WarnWithErr("WebSocket read error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "ping":
			send(WSResponse{Type: "pong"})

		case "check":
			var payload WSCheckPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				send(errorResponse("invalid_payload", "Invalid check payload"))
				continue
			}
			showTokens := h.api.showTokens
			if payload.ShowTokens != nil {
				showTokens = *payload.ShowTokens
			}
			res := h.api.check(r.Context(), payload.Source)
			send(WSResponse{Type: "result", Payload: report.New(res, showTokens)})

		default:
			send(errorResponse("unknown_type", "Unknown message type: "+msg.Type))
		}
	}
}

func errorResponse(code, message string) WSResponse {
	return WSResponse{
		Type:    "error",
		Payload: WSErrorPayload{Code: code, Message: message},
	}
}
