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

// NotificationHandler exposes HTTP endpoints for notifications.
type NotificationHandler struct {
	service    *services.NotificationService
	dispatcher *notifications.Dispatcher
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(db *gorm.DB, dispatcher *notifications.Dispatcher) (*NotificationHandler, error) {
	service, err := services.NewNotificationService(db, dispatcher)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{service: service, dispatcher: dispatcher}, nil
}

// List returns notifications for the current user.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.service.ListForUser(requestContext(c), services.ListNotificationsInput{
		UserID:     userID,
		UnreadOnly: c.Query("unread") == "true",
		Limit:      parseIntQuery(c, "limit", 25),
		Offset:     parseIntQuery(c, "offset", 0),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// PageContext returns the unread badge count and recent notifications.
func (h *NotificationHandler) PageContext(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)

	pageCtx, err := h.service.GetPageContext(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, pageCtx)
}

// MarkRead toggles a notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.updateReadState(c, true)
}

// MarkUnread toggles a notification to unread.
func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	h.updateReadState(c, false)
}

func (h *NotificationHandler) updateReadState(c *gin.Context, read bool) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	var dto *services.NotificationDTO
	var err error
	if read {
		dto, err = h.service.MarkRead(requestContext(c), userID, id)
	} else {
		dto, err = h.service.MarkUnread(requestContext(c), userID, id)
	}

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// MarkAllRead marks all notifications read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.service.MarkAllRead(requestContext(c), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete removes a notification.
func (h *NotificationHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := h.service.Delete(requestContext(c), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Broadcast sends a system update to all active users, or to the listed
// user ids when given. Admin only.
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var payload struct {
		Message string   `json:"message" validate:"required,min=5"`
		UserIDs []string `json:"user_ids"`
	}
	if !bindAndValidate(c, &payload) {
		return
	}

	created, err := h.dispatcher.SystemUpdate(requestContext(c), payload.Message, payload.UserIDs)
	if err != nil && len(created) == 0 {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"delivered": len(created),
		"partial":   err != nil,
	})
}
