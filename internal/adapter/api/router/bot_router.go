package router

import (
	"github.com/labstack/echo/v4"

	"lokapasar/internal/adapter/api/handler"
	"lokapasar/internal/adapter/api/middleware"
)

// SetupBotResponseRouter sets up admin routes for managing canned bot replies
func SetupBotResponseRouter(e *echo.Echo, botHandler *handler.BotResponseHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminGroup := e.Group("/v1/admin/bot-responses")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)

	adminGroup.POST("", botHandler.CreateResponse)
	adminGroup.GET("", botHandler.ListResponses)
	adminGroup.GET("/:id", botHandler.GetResponse)
	adminGroup.PUT("/:id", botHandler.UpdateResponse)
	adminGroup.DELETE("/:id", botHandler.DeleteResponse)
}
