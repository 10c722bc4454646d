package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/notifications"
	"github.com/landhub/landhub/internal/services"
	"github.com/landhub/landhub/pkg/errors"
	"github.com/landhub/landhub/pkg/response"
)

// InquiryHandler exposes the buyer and seller sides of the inquiry workflow.
type InquiryHandler struct {
	service *services.InquiryService
}

// NewInquiryHandler constructs an inquiry handler.
func NewInquiryHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*InquiryHandler, error) {
	service, err := services.NewInquiryService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &InquiryHandler{service: service}, nil
}

// Submit records a buyer inquiry about a listing.
func (h *InquiryHandler) Submit(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.SubmitInquiryInput
	if !bindAndValidate(c, &payload) {
		return
	}
	payload.BuyerID = userID
	payload.LandID = strings.TrimSpace(c.Param("landID"))

	dto, err := h.service.Submit(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// ListForBuyer returns the buyer's own inquiries.
func (h *InquiryHandler) ListForBuyer(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.ListForBuyer(requestContext(c), services.ListInquiriesInput{
		UserID: userID,
		Limit:  parseIntQuery(c, "limit", 25),
		Offset: parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// GetForBuyer returns one of the buyer's inquiries with its response.
func (h *InquiryHandler) GetForBuyer(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.GetForBuyer(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ListForSeller returns inquiries about the seller's listings.
func (h *InquiryHandler) ListForSeller(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.ListForSeller(requestContext(c), services.ListInquiriesInput{
		UserID: userID,
		Filter: c.Query("filter"),
		Search: c.Query("search"),
		Limit:  parseIntQuery(c, "limit", 25),
		Offset: parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Stats returns the seller's inquiry counts per state.
func (h *InquiryHandler) Stats(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	stats, err := h.service.StatsForSeller(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// GetForSeller returns an inquiry about the seller's listing, marking it read.
func (h *InquiryHandler) GetForSeller(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.GetForSeller(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// MarkRead flips an inquiry into the read state without responding.
func (h *InquiryHandler) MarkRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.MarkRead(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Respond stores the seller's answer and notifies the buyer.
func (h *InquiryHandler) Respond(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.RespondInquiryInput
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.Respond(requestContext(c), userID, strings.TrimSpace(c.Param("id")), payload.Response)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}
