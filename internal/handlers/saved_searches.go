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

// SavedSearchHandler exposes buyer saved-search endpoints.
type SavedSearchHandler struct {
	service  *services.SavedSearchService
	listings *services.ListingService
}

// NewSavedSearchHandler constructs a saved search handler.
func NewSavedSearchHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*SavedSearchHandler, error) {
	service, err := services.NewSavedSearchService(db)
	if err != nil {
		return nil, err
	}
	listings, err := services.NewListingService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &SavedSearchHandler{service: service, listings: listings}, nil
}

// Create stores a new saved search.
func (h *SavedSearchHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.SaveSearchInput
	if !bindAndValidate(c, &payload) {
		return
	}
	payload.UserID = userID

	dto, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// List returns the user's saved searches.
func (h *SavedSearchHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.ListForUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// ToggleActive flips the active flag on a saved search.
func (h *SavedSearchHandler) ToggleActive(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	dto, err := h.service.ToggleActive(requestContext(c), userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// Delete removes a saved search.
func (h *SavedSearchHandler) Delete(c *gin.Context) {
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

// Matches runs a saved search against the current catalogue.
func (h *SavedSearchHandler) Matches(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.Matches(requestContext(c), h.listings, userID, strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}
