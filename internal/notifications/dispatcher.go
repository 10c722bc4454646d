package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/pkg/metrics"
)

// Dispatcher owns notification creation. The generic Create primitive persists
// a single row; the typed wrappers in wrappers.go fix the recipient-resolution
// rule, message template, and metadata shape for each taxonomy type.
//
// Creation is synchronous: a wrapper returns once its row (or rows, for
// fan-out types) has been written. There is no queue, retry, or push delivery.
type Dispatcher struct {
	db *gorm.DB
}

// NewDispatcher constructs a Dispatcher backed by the provided database.
func NewDispatcher(db *gorm.DB) (*Dispatcher, error) {
	if db == nil {
		return nil, errors.New("notifications: db is required")
	}
	return &Dispatcher{db: db}, nil
}

// WithTx returns a Dispatcher bound to the supplied transaction handle, so a
// caller can persist a state transition and its notification atomically.
func (d *Dispatcher) WithTx(tx *gorm.DB) *Dispatcher {
	if tx == nil {
		return d
	}
	return &Dispatcher{db: tx}
}

// CreateInput defines the attributes of a notification to persist.
type CreateInput struct {
	RecipientID string
	SenderID    string // empty for system-generated notifications
	Type        string
	Title       string
	Message     string
	Related     *RelatedRef
	Metadata    map[string]any
}

// Create persists a new unread notification. The recipient and a recognized
// taxonomy type are caller contract; violating either is reported as an error
// rather than recovered. Exactly one row is inserted, no other side effects.
func (d *Dispatcher) Create(ctx context.Context, input CreateInput) (*models.Notification, error) {
	ctx = ensureContext(ctx)

	recipientID := strings.TrimSpace(input.RecipientID)
	if recipientID == "" {
		return nil, errors.New("notifications: recipient id is required")
	}

	notificationType := strings.TrimSpace(input.Type)
	if !models.KnownNotificationType(notificationType) {
		return nil, fmt.Errorf("notifications: unrecognized notification type %q", input.Type)
	}

	notification := models.Notification{
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       strings.TrimSpace(input.Title),
		Message:     strings.TrimSpace(input.Message),
		IsRead:      false,
	}

	if senderID := strings.TrimSpace(input.SenderID); senderID != "" {
		notification.SenderID = &senderID
	}

	if input.Related != nil {
		notification.RelatedKind = input.Related.Kind
		notification.RelatedID = input.Related.ID
	}

	if input.Metadata != nil {
		if err := notification.SetMetadataMap(input.Metadata); err != nil {
			return nil, fmt.Errorf("notifications: marshal metadata: %w", err)
		}
	}

	if err := d.db.WithContext(ctx).Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("notifications: create notification: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notificationType).Inc()
	return &notification, nil
}

// HasWelcome reports whether the user has already received a welcome
// notification. Registration uses this to keep the welcome idempotent.
func (d *Dispatcher) HasWelcome(ctx context.Context, userID string) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", userID, models.NotificationSystemWelcome).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("notifications: count welcome notifications: %w", err)
	}
	return count > 0, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
