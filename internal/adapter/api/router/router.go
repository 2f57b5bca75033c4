package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

type Handlers struct {
	Chat        *handler.ChatHandler
	BotResponse *handler.BotResponseHandler
	WebSocket   *handler.WebSocketHandler
	Health      *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupChatRouter(e, h.Chat, authMiddleware, adminMiddleware)
	SetupBotResponseRouter(e, h.BotResponse, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
}
