package api

import (
	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/permissions"
)

func registerInquiryRoutes(api *gin.RouterGroup, handler *handlers.InquiryHandler, checker *permissions.Checker) {
	api.POST("/buyer/listings/:landID/inquiries",
		middleware.RequireCapability(checker, permissions.CapInquiryCreate), handler.Submit)

	buyer := api.Group("/buyer/inquiries")
	{
		buyer.GET("", middleware.RequireCapability(checker, permissions.CapInquiryCreate), handler.ListForBuyer)
		buyer.GET("/:id", middleware.RequireCapability(checker, permissions.CapInquiryCreate), handler.GetForBuyer)
	}

	seller := api.Group("/seller/inquiries")
	{
		seller.GET("", middleware.RequireCapability(checker, permissions.CapInquiryRespond), handler.ListForSeller)
		seller.GET("/stats", middleware.RequireCapability(checker, permissions.CapInquiryRespond), handler.Stats)
		seller.GET("/:id", middleware.RequireCapability(checker, permissions.CapInquiryRespond), handler.GetForSeller)
		seller.POST("/:id/read", middleware.RequireCapability(checker, permissions.CapInquiryRespond), handler.MarkRead)
		seller.POST("/:id/respond", middleware.RequireCapability(checker, permissions.CapInquiryRespond), handler.Respond)
	}
}
