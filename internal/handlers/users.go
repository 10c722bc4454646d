package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/notifications"
	"github.com/landhub/landhub/internal/services"
	"github.com/landhub/landhub/pkg/response"
)

// UserHandler exposes admin user management endpoints.
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler constructs a user handler.
func NewUserHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*UserHandler, error) {
	service, err := services.NewUserService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &UserHandler{service: service}, nil
}

// List returns platform users, optionally filtered by role.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(requestContext(c), strings.TrimSpace(c.Query("role")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, users)
}

// Get returns a single user.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(requestContext(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

type setActivePayload struct {
	Active *bool `json:"active" validate:"required"`
}

// SetActive activates or deactivates a user account.
func (h *UserHandler) SetActive(c *gin.Context) {
	var payload setActivePayload
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.service.SetActive(requestContext(c), strings.TrimSpace(c.Param("id")), *payload.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
