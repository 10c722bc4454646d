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

// FavoriteHandler exposes buyer bookmark endpoints.
type FavoriteHandler struct {
	service *services.FavoriteService
}

// NewFavoriteHandler constructs a favorite handler.
func NewFavoriteHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*FavoriteHandler, error) {
	service, err := services.NewFavoriteService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &FavoriteHandler{service: service}, nil
}

// Toggle adds or removes the listing from the user's favorites.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	result, err := h.service.Toggle(requestContext(c), userID, strings.TrimSpace(c.Param("landID")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// List returns the user's favorites with their listings.
func (h *FavoriteHandler) List(c *gin.Context) {
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
