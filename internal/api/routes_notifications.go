package api

import (
	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/permissions"
)

func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler, checker *permissions.Checker) {
	group := api.Group("/notifications")
	{
		group.GET("", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.List)
		group.GET("/context", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.PageContext)
		group.POST("/read-all", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.MarkAllRead)
		group.POST("/:id/read", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.MarkRead)
		group.POST("/:id/unread", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.MarkUnread)
		group.DELETE("/:id", middleware.RequireCapability(checker, permissions.CapNotificationView), handler.Delete)

		group.POST("/broadcast", middleware.RequireCapability(checker, permissions.CapNotificationBroadcast), handler.Broadcast)
	}
}
