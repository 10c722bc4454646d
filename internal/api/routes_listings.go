package api

import (
	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/permissions"
)

func registerListingRoutes(api *gin.RouterGroup, handler *handlers.ListingHandler, checker *permissions.Checker) {
	seller := api.Group("/seller/listings")
	{
		seller.POST("", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.Create)
		seller.GET("", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.ListForOwner)
		seller.GET("/:id", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.GetForOwner)
		seller.PATCH("/:id", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.Update)
		seller.DELETE("/:id", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.Delete)
		seller.POST("/:id/images", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.AddImage)
		seller.POST("/:id/submit", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.SubmitForApproval)
		seller.POST("/:id/sold", middleware.RequireCapability(checker, permissions.CapListingCreate), handler.MarkSold)
	}

	admin := api.Group("/admin/listings")
	{
		admin.GET("/pending", middleware.RequireCapability(checker, permissions.CapListingModerate), handler.ListPending)
		admin.POST("/:id/approve", middleware.RequireCapability(checker, permissions.CapListingModerate), handler.Approve)
		admin.POST("/:id/reject", middleware.RequireCapability(checker, permissions.CapListingModerate), handler.Reject)
	}
}
