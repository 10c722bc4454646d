package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Notification taxonomy. Each type fixes its own recipient-resolution and
// message-formatting rules in the notifications dispatcher.
const (
	NotificationInquiryNew        = "inquiry_new"
	NotificationInquiryResponse   = "inquiry_response"
	NotificationListingApproved   = "listing_approved"
	NotificationListingRejected   = "listing_rejected"
	NotificationListingPending    = "listing_pending"
	NotificationPropertyFavorited = "property_favorited"
	NotificationSystemWelcome     = "system_welcome"
	NotificationSystemUpdate      = "system_update"
	NotificationAdminMessage      = "admin_message"
)

// RelatedKind discriminates the polymorphic related-object link. The variant
// set is closed: only these entity kinds are ever referenced.
type RelatedKind string

const (
	RelatedKindLand     RelatedKind = "land"
	RelatedKindInquiry  RelatedKind = "inquiry"
	RelatedKindFavorite RelatedKind = "favorite"
	RelatedKindUser     RelatedKind = "user"
)

// Notification is a one-way informational record delivered to a single
// recipient. The related-object link is a weak reference: the referenced row
// may be deleted without touching the notification, leaving the link dangling.
type Notification struct {
	BaseModel

	RecipientID string `gorm:"type:uuid;index:idx_notifications_recipient_read;index:idx_notifications_recipient_created;not null" json:"recipient_id"`
	Recipient   *User  `json:"recipient,omitempty"`

	SenderID *string `gorm:"type:uuid" json:"sender_id"`
	Sender   *User   `json:"sender,omitempty"`

	Type    string `gorm:"type:varchar(20);not null;index" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	IsRead bool       `gorm:"default:false;index:idx_notifications_recipient_read" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	RelatedKind RelatedKind `gorm:"type:varchar(20)" json:"related_kind,omitempty"`
	RelatedID   string      `gorm:"type:uuid" json:"related_id,omitempty"`

	Metadata datatypes.JSON `json:"metadata"`
}

// KnownNotificationType reports whether the value belongs to the taxonomy.
func KnownNotificationType(notificationType string) bool {
	switch notificationType {
	case NotificationInquiryNew, NotificationInquiryResponse,
		NotificationListingApproved, NotificationListingRejected, NotificationListingPending,
		NotificationPropertyFavorited,
		NotificationSystemWelcome, NotificationSystemUpdate, NotificationAdminMessage:
		return true
	}
	return false
}

// HasRelated reports whether a related-object link is stored. It says nothing
// about whether the link still resolves.
func (n *Notification) HasRelated() bool {
	return n.RelatedKind != "" && n.RelatedID != ""
}

// MetadataMap decodes the stored metadata blob. Absent or malformed payloads
// yield an empty map, never an error.
func (n *Notification) MetadataMap() map[string]any {
	if len(n.Metadata) == 0 {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(n.Metadata, &out); err != nil || out == nil {
		return map[string]any{}
	}
	return out
}

// SetMetadataMap serialises the mapping into the stored blob. A nil map clears
// the field.
func (n *Notification) SetMetadataMap(data map[string]any) error {
	if data == nil {
		n.Metadata = nil
		return nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	n.Metadata = datatypes.JSON(encoded)
	return nil
}
