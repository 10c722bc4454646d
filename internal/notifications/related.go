package notifications

import (
	"context"
	"fmt"

	"github.com/landhub/landhub/internal/models"
)

// DefaultActionURL is where a notification navigates when it carries no
// resolvable related object.
const DefaultActionURL = "/notifications/"

// RelatedRef is the weak, polymorphic link a notification may carry to the
// entity that triggered it. It is a reference, never an ownership: the target
// row can disappear and the notification stays behind with a dangling link.
type RelatedRef struct {
	Kind models.RelatedKind
	ID   string
}

// RelatedLand links a notification to a listing.
func RelatedLand(land *models.Land) *RelatedRef {
	return &RelatedRef{Kind: models.RelatedKindLand, ID: land.ID}
}

// RelatedInquiry links a notification to an inquiry.
func RelatedInquiry(inquiry *models.Inquiry) *RelatedRef {
	return &RelatedRef{Kind: models.RelatedKindInquiry, ID: inquiry.ID}
}

// RelatedFavorite links a notification to a favorite.
func RelatedFavorite(favorite *models.Favorite) *RelatedRef {
	return &RelatedRef{Kind: models.RelatedKindFavorite, ID: favorite.ID}
}

// ActionURL derives the navigation target for a notification from its type
// and related object. Each kind resolves explicitly; if the related row no
// longer exists, or the type carries no navigation, the default notification
// page is returned. Resolution never fails loudly.
func (d *Dispatcher) ActionURL(ctx context.Context, n *models.Notification) string {
	ctx = ensureContext(ctx)

	switch n.Type {
	case models.NotificationInquiryNew, models.NotificationInquiryResponse:
		if n.RelatedKind != models.RelatedKindInquiry || !n.HasRelated() {
			break
		}
		if !d.exists(ctx, &models.Inquiry{}, n.RelatedID) {
			break
		}
		if d.recipientRole(ctx, n) == models.RoleSeller {
			return fmt.Sprintf("/seller/inquiries/%s/", n.RelatedID)
		}
		return fmt.Sprintf("/buyer/inquiries/%s/", n.RelatedID)

	case models.NotificationListingApproved, models.NotificationListingRejected, models.NotificationListingPending:
		if n.RelatedKind != models.RelatedKindLand || !n.HasRelated() {
			break
		}
		if !d.exists(ctx, &models.Land{}, n.RelatedID) {
			break
		}
		return fmt.Sprintf("/seller/listings/%s/edit/", n.RelatedID)

	case models.NotificationPropertyFavorited:
		if n.RelatedKind != models.RelatedKindFavorite || !n.HasRelated() {
			break
		}
		// The related object is the Favorite; the navigation target is the
		// land it points at.
		var favorite models.Favorite
		if err := d.db.WithContext(ctx).
			Select("land_id").
			First(&favorite, "id = ?", n.RelatedID).Error; err != nil {
			break
		}
		return fmt.Sprintf("/buyer/property/%s/", favorite.LandID)
	}

	return DefaultActionURL
}

func (d *Dispatcher) exists(ctx context.Context, model any, id string) bool {
	var count int64
	if err := d.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func (d *Dispatcher) recipientRole(ctx context.Context, n *models.Notification) string {
	if n.Recipient != nil {
		return n.Recipient.Role
	}

	var recipient models.User
	if err := d.db.WithContext(ctx).
		Select("role").
		First(&recipient, "id = ?", n.RecipientID).Error; err != nil {
		return ""
	}
	return recipient.Role
}
