package api

import (
	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/permissions"
)

func registerUserRoutes(api *gin.RouterGroup, handler *handlers.UserHandler, checker *permissions.Checker) {
	group := api.Group("/admin/users")
	{
		group.GET("", middleware.RequireCapability(checker, permissions.CapUserManage), handler.List)
		group.GET("/:id", middleware.RequireCapability(checker, permissions.CapUserManage), handler.Get)
		group.POST("/:id/active", middleware.RequireCapability(checker, permissions.CapUserManage), handler.SetActive)
	}
}
