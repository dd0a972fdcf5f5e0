package routes

import (
	"github.com/gin-gonic/gin"

	"aichat_backend/internal/handlers"
	"aichat_backend/internal/middleware"
	"aichat_backend/ws"
)

// RegisterRoutes регистрирует все маршруты приложения
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers, wsHandler *ws.WebSocketHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Публичные маршруты
	h.AuthHandler.RegisterRoutes(api)

	// Защищенные маршруты
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		h.ConversationHandler.RegisterRoutes(protected)
		h.MembershipHandler.RegisterRoutes(protected)
		h.MessageHandler.RegisterRoutes(protected)
		h.FavoriteHandler.RegisterRoutes(protected)
		h.ModelHandler.RegisterRoutes(protected)
		h.UploadHandler.RegisterRoutes(protected)
	}

	if wsHandler != nil {
		wsGroup := router.Group("/ws")
		wsGroup.Use(middleware.AuthMiddleware())
		wsGroup.GET("", wsHandler.ServeWS)
	}
}
