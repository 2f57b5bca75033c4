package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	chatGroup := e.Group("/v1/chat/rooms")
	chatGroup.Use(authMiddleware.Authenticate) // All chat endpoints require authentication

	// Room management
	chatGroup.POST("", chatHandler.CreateRoom)   // POST /v1/chat/rooms - Get or create a room
	chatGroup.GET("", chatHandler.ListRooms)     // GET /v1/chat/rooms - List caller's rooms
	chatGroup.GET("/:id", chatHandler.GetRoom)   // GET /v1/chat/rooms/:id - Get specific room
	chatGroup.PATCH("/:id", chatHandler.UpdateRoom, adminMiddleware.AdminOnly) // PATCH /v1/chat/rooms/:id - Open/close room

	// Message management
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)    // POST /v1/chat/rooms/:id/messages - Send message
	chatGroup.GET("/:id/messages", chatHandler.GetRoomMessages) // GET /v1/chat/rooms/:id/messages - Get room messages
	chatGroup.POST("/:id/read", chatHandler.MarkRoomAsRead)     // POST /v1/chat/rooms/:id/read - Mark room as read
}
