package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/notifications"
	apperrors "github.com/landhub/landhub/pkg/errors"
)

// NotificationDTO represents the API-friendly notification payload. ActionURL
// is resolved at read time from the related object, never stored.
type NotificationDTO struct {
	ID          string               `json:"id"`
	RecipientID string               `json:"recipient_id"`
	SenderID    *string              `json:"sender_id,omitempty"`
	Type        string               `json:"type"`
	Title       string               `json:"title"`
	Message     string               `json:"message"`
	ActionURL   string               `json:"action_url"`
	Metadata    map[string]any       `json:"metadata"`
	IsRead      bool                 `json:"is_read"`
	CreatedAt   time.Time            `json:"created_at"`
	ReadAt      *time.Time           `json:"read_at,omitempty"`
	Raw         *models.Notification `json:"-"`
}

// ListNotificationsInput defines filters for querying user notifications.
type ListNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// PageContext is the notification summary injected into every page render:
// the unread badge count and the most recent five notifications.
type PageContext struct {
	UnreadCount int64             `json:"unread_count"`
	Recent      []NotificationDTO `json:"recent"`
}

// NotificationService manages the recipient-facing side of notifications:
// listing, read-state changes, and deletion. Creation belongs to the
// notifications dispatcher.
type NotificationService struct {
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(db *gorm.DB, dispatcher *notifications.Dispatcher) (*NotificationService, error) {
	if db == nil {
		return nil, errors.New("notification service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("notification service: dispatcher is required")
	}
	return &NotificationService{db: db, dispatcher: dispatcher}, nil
}

// ListForUser returns notifications for the supplied user ordered by recency.
func (s *NotificationService) ListForUser(ctx context.Context, input ListNotificationsInput) ([]NotificationDTO, error) {
	ctx = ensureContext(ctx)
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("notification service: user id is required")
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	query := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID)
	if input.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: list notifications: %w", err)
	}

	return s.mapNotificationRows(ctx, rows), nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("notification service: count unread: %w", err)
	}
	return count, nil
}

// GetPageContext assembles the per-request notification summary. A blank user
// id yields the zero summary rather than an error so anonymous page renders
// stay cheap.
func (s *NotificationService) GetPageContext(ctx context.Context, userID string) (*PageContext, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return &PageContext{Recent: []NotificationDTO{}}, nil
	}

	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []models.Notification
	if err := s.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Limit(5).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("notification service: load recent: %w", err)
	}

	return &PageContext{
		UnreadCount: count,
		Recent:      s.mapNotificationRows(ctx, rows),
	}, nil
}

// MarkRead sets the notification read flag. Marking an already-read
// notification is a no-op that succeeds and keeps the original ReadAt.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)
	notification, err := s.loadOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	if !notification.IsRead {
		now := time.Now().UTC()
		if err := s.db.WithContext(ctx).Model(notification).
			Updates(map[string]any{
				"is_read": true,
				"read_at": now,
			}).Error; err != nil {
			return nil, fmt.Errorf("notification service: mark read: %w", err)
		}
		notification.IsRead = true
		notification.ReadAt = &now
	}

	dto := s.mapNotification(ctx, *notification)
	return &dto, nil
}

// MarkUnread unsets the notification read flag and clears the read timestamp.
// Also idempotent.
func (s *NotificationService) MarkUnread(ctx context.Context, userID, notificationID string) (*NotificationDTO, error) {
	ctx = ensureContext(ctx)
	notification, err := s.loadOwned(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}

	if notification.IsRead {
		if err := s.db.WithContext(ctx).Model(notification).
			Updates(map[string]any{
				"is_read": false,
				"read_at": nil,
			}).Error; err != nil {
			return nil, fmt.Errorf("notification service: mark unread: %w", err)
		}
		notification.IsRead = false
		notification.ReadAt = nil
	}

	dto := s.mapNotification(ctx, *notification)
	return &dto, nil
}

// MarkAllRead marks every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return errors.New("notification service: user id is required")
	}

	now := time.Now().UTC()
	if err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": now,
		}).Error; err != nil {
		return fmt.Errorf("notification service: mark all read: %w", err)
	}
	return nil
}

// Delete removes a notification owned by the supplied user.
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	ctx = ensureContext(ctx)
	result := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return fmt.Errorf("notification service: delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *NotificationService) loadOwned(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("notification service: load notification: %w", err)
	}
	return &notification, nil
}

func (s *NotificationService) mapNotificationRows(ctx context.Context, rows []models.Notification) []NotificationDTO {
	items := make([]NotificationDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.mapNotification(ctx, row))
	}
	return items
}

func (s *NotificationService) mapNotification(ctx context.Context, row models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		SenderID:    row.SenderID,
		Type:        row.Type,
		Title:       row.Title,
		Message:     row.Message,
		ActionURL:   s.dispatcher.ActionURL(ctx, &row),
		Metadata:    row.MetadataMap(),
		IsRead:      row.IsRead,
		CreatedAt:   row.CreatedAt,
		ReadAt:      row.ReadAt,
		Raw:         &row,
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
