package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/landhub/landhub/internal/auth"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/notifications"
	"github.com/landhub/landhub/internal/services"
	"github.com/landhub/landhub/pkg/errors"
	"github.com/landhub/landhub/pkg/response"
)

// AuthHandler exposes registration, login, and profile endpoints.
type AuthHandler struct {
	users *services.UserService
	jwt   *iauth.JWTService
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(db *gorm.DB, dispatcher *notifications.Dispatcher, jwt *iauth.JWTService) (*AuthHandler, error) {
	users, err := services.NewUserService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{users: users, jwt: jwt}, nil
}

// Register creates a new buyer or seller account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload services.RegisterInput
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Register(requestContext(c), payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID, Role: user.Role})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login authenticates by username or email and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.Authenticate(requestContext(c), payload.Username, payload.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: user.ID, Role: user.Role})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.users.Get(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}

// UpdateProfile applies a partial edit to the authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var payload services.UpdateProfileInput
	if !bindAndValidate(c, &payload) {
		return
	}

	user, err := h.users.UpdateProfile(requestContext(c), userID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
