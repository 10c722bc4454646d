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

// ListingHandler exposes the public catalogue, the seller listing lifecycle,
// and admin moderation.
type ListingHandler struct {
	service *services.ListingService
}

// NewListingHandler constructs a listing handler.
func NewListingHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*ListingHandler, error) {
	service, err := services.NewListingService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &ListingHandler{service: service}, nil
}

// Browse returns approved listings matching the catalogue filters.
func (h *ListingHandler) Browse(c *gin.Context) {
	items, err := h.service.Browse(requestContext(c), services.BrowseListingsInput{
		Search:       c.Query("search"),
		Location:     c.Query("location"),
		PropertyType: c.Query("property_type"),
		MinPrice:     parseFloatQuery(c, "min_price"),
		MaxPrice:     parseFloatQuery(c, "max_price"),
		MinSize:      parseFloatQuery(c, "min_size"),
		MaxSize:      parseFloatQuery(c, "max_size"),
		Limit:        parseIntQuery(c, "limit", 25),
		Offset:       parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// GetPublic returns one approved listing.
func (h *ListingHandler) GetPublic(c *gin.Context) {
	dto, err := h.service.GetPublic(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Create records a new draft listing for the seller.
func (h *ListingHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.CreateListingInput
	if !bindAndValidate(c, &payload) {
		return
	}
	payload.OwnerID = userID

	dto, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// ListForOwner returns the seller's own listings.
func (h *ListingHandler) ListForOwner(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.ListForOwner(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// GetForOwner returns one of the seller's listings regardless of status.
func (h *ListingHandler) GetForOwner(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.GetForOwner(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Update applies a partial edit to one of the seller's listings.
func (h *ListingHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.UpdateListingInput
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.Update(requestContext(c), userID, strings.TrimSpace(c.Param("id")), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// AddImage attaches a photo to one of the seller's listings.
func (h *ListingHandler) AddImage(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.AddImageInput
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.AddImage(requestContext(c), userID, strings.TrimSpace(c.Param("id")), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// Delete removes one of the seller's listings.
func (h *ListingHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(requestContext(c), userID, strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// SubmitForApproval queues a draft or rejected listing for moderation.
func (h *ListingHandler) SubmitForApproval(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.SubmitForApproval(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// MarkSold closes one of the seller's approved listings.
func (h *ListingHandler) MarkSold(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.MarkSold(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ListPending returns the moderation queue. Admin only.
func (h *ListingHandler) ListPending(c *gin.Context) {
	items, err := h.service.ListPending(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Approve publishes a pending listing. Admin only.
func (h *ListingHandler) Approve(c *gin.Context) {
	dto, err := h.service.Approve(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Reject declines a pending listing with moderator notes. Admin only.
func (h *ListingHandler) Reject(c *gin.Context) {
	var payload struct {
		AdminNotes string `json:"admin_notes"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	dto, err := h.service.Reject(requestContext(c), strings.TrimSpace(c.Param("id")), payload.AdminNotes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}
