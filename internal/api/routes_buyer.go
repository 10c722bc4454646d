package api

import (
	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/permissions"
)

func registerBuyerRoutes(api *gin.RouterGroup, favorites *handlers.FavoriteHandler, searches *handlers.SavedSearchHandler, checker *permissions.Checker) {
	favs := api.Group("/buyer/favorites")
	{
		favs.GET("", middleware.RequireCapability(checker, permissions.CapFavoriteManage), favorites.List)
		favs.POST("/:landID", middleware.RequireCapability(checker, permissions.CapFavoriteManage), favorites.Toggle)
	}

	saved := api.Group("/buyer/searches")
	{
		saved.POST("", middleware.RequireCapability(checker, permissions.CapSearchSave), searches.Create)
		saved.GET("", middleware.RequireCapability(checker, permissions.CapSearchSave), searches.List)
		saved.GET("/:id/matches", middleware.RequireCapability(checker, permissions.CapSearchSave), searches.Matches)
		saved.POST("/:id/toggle", middleware.RequireCapability(checker, permissions.CapSearchSave), searches.ToggleActive)
		saved.DELETE("/:id", middleware.RequireCapability(checker, permissions.CapSearchSave), searches.Delete)
	}
}
