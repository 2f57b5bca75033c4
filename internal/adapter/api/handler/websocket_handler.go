package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"lokapasar/internal/infrastructure/firebase"
	ws "lokapasar/internal/infrastructure/websocket"
	"lokapasar/pkg/errors"
	"lokapasar/pkg/response"
)

type WebSocketHandler struct {
	wsManager  *ws.Manager
	authClient *firebase.FirebaseAuthClient
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Restrict in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authClient *firebase.FirebaseAuthClient) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:  wsManager,
		authClient: authClient,
	}
}

// HandleWebSocket authenticates the connection, upgrades it, and hands
// it to the fan-out manager. Browsers cannot set headers on WebSocket
// requests, so the ID token travels in the `token` query param.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return response.Error(c, errors.Unauthorized("Authentication token required", nil))
	}

	userID, err := h.authClient.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := ws.NewClient(userID, conn)
	h.wsManager.RegisterClient(client)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
