package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/landhub/landhub/internal/models"
)

// NewInquiry notifies the listing owner that a buyer submitted an inquiry.
func (d *Dispatcher) NewInquiry(ctx context.Context, inquiry *models.Inquiry) (*models.Notification, error) {
	land, buyer, err := d.inquiryParties(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	return d.Create(ctx, CreateInput{
		RecipientID: land.OwnerID,
		SenderID:    buyer.ID,
		Type:        models.NotificationInquiryNew,
		Title:       fmt.Sprintf("New inquiry about %s", land.Title),
		Message: fmt.Sprintf("%s sent an inquiry about your property '%s'. Subject: %s",
			buyer.DisplayName(), land.Title, inquiry.Subject),
		Related: RelatedInquiry(inquiry),
		Metadata: map[string]any{
			"property_id":     land.ID,
			"property_title":  land.Title,
			"inquiry_subject": inquiry.Subject,
		},
	})
}

// InquiryResponse notifies the buyer that the seller answered their inquiry.
func (d *Dispatcher) InquiryResponse(ctx context.Context, inquiry *models.Inquiry) (*models.Notification, error) {
	land, buyer, err := d.inquiryParties(ctx, inquiry)
	if err != nil {
		return nil, err
	}

	owner, err := d.landOwner(ctx, land)
	if err != nil {
		return nil, err
	}

	return d.Create(ctx, CreateInput{
		RecipientID: buyer.ID,
		SenderID:    owner.ID,
		Type:        models.NotificationInquiryResponse,
		Title:       fmt.Sprintf("Response to your inquiry about %s", land.Title),
		Message: fmt.Sprintf("%s responded to your inquiry about '%s'.",
			owner.DisplayName(), land.Title),
		Related: RelatedInquiry(inquiry),
		Metadata: map[string]any{
			"property_id":     land.ID,
			"property_title":  land.Title,
			"inquiry_subject": inquiry.Subject,
		},
	})
}

// ListingApproved notifies the seller that their listing went live.
func (d *Dispatcher) ListingApproved(ctx context.Context, land *models.Land) (*models.Notification, error) {
	return d.Create(ctx, CreateInput{
		RecipientID: land.OwnerID,
		Type:        models.NotificationListingApproved,
		Title:       fmt.Sprintf("Listing approved: %s", land.Title),
		Message: fmt.Sprintf("Your property listing '%s' has been approved and is now live on the platform.",
			land.Title),
		Related: RelatedLand(land),
		Metadata: map[string]any{
			"property_id":    land.ID,
			"property_title": land.Title,
			"property_type":  land.PropertyType,
		},
	})
}

// ListingRejected notifies the seller that their listing was turned down,
// including the moderator's notes when present.
func (d *Dispatcher) ListingRejected(ctx context.Context, land *models.Land, adminNotes string) (*models.Notification, error) {
	message := fmt.Sprintf("Your property listing '%s' has been rejected.", land.Title)
	if adminNotes != "" {
		message += fmt.Sprintf(" Reason: %s", adminNotes)
	}

	return d.Create(ctx, CreateInput{
		RecipientID: land.OwnerID,
		Type:        models.NotificationListingRejected,
		Title:       fmt.Sprintf("Listing rejected: %s", land.Title),
		Message:     message,
		Related:     RelatedLand(land),
		Metadata: map[string]any{
			"property_id":    land.ID,
			"property_title": land.Title,
			"admin_notes":    adminNotes,
		},
	})
}

// ListingPendingApproval fans out one notification per admin-role user when a
// listing enters the moderation queue. Writes are independent: a failure for
// one admin does not roll back the others, and the rows created so far are
// returned alongside the aggregated error.
func (d *Dispatcher) ListingPendingApproval(ctx context.Context, land *models.Land) ([]*models.Notification, error) {
	owner, err := d.landOwner(ctx, land)
	if err != nil {
		return nil, err
	}

	var admins []models.User
	if err := d.db.WithContext(ctx).
		Where("role = ?", models.RoleAdmin).
		Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("notifications: list admins: %w", err)
	}

	title := fmt.Sprintf("New listing pending approval: %s", land.Title)
	message := fmt.Sprintf("A new property listing '%s' by %s is pending approval.",
		land.Title, owner.DisplayName())

	var created []*models.Notification
	var errs error
	for _, admin := range admins {
		notification, err := d.Create(ctx, CreateInput{
			RecipientID: admin.ID,
			SenderID:    owner.ID,
			Type:        models.NotificationListingPending,
			Title:       title,
			Message:     message,
			Related:     RelatedLand(land),
			Metadata: map[string]any{
				"property_id":    land.ID,
				"property_title": land.Title,
				"seller_name":    owner.DisplayName(),
			},
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		created = append(created, notification)
	}

	return created, errs
}

// PropertyFavorited notifies the listing owner that a buyer bookmarked their
// property. The related object is the favorite itself so the action URL can
// follow its land reference.
func (d *Dispatcher) PropertyFavorited(ctx context.Context, favorite *models.Favorite) (*models.Notification, error) {
	land, buyer, err := d.favoriteParties(ctx, favorite)
	if err != nil {
		return nil, err
	}

	return d.Create(ctx, CreateInput{
		RecipientID: land.OwnerID,
		SenderID:    buyer.ID,
		Type:        models.NotificationPropertyFavorited,
		Title:       fmt.Sprintf("Someone favorited your property: %s", land.Title),
		Message: fmt.Sprintf("%s added your property '%s' to their favorites.",
			buyer.DisplayName(), land.Title),
		Related: RelatedFavorite(favorite),
		Metadata: map[string]any{
			"property_id":    land.ID,
			"property_title": land.Title,
			"buyer_name":     buyer.DisplayName(),
		},
	})
}

var welcomeMessages = map[string]string{
	models.RoleBuyer:  "Welcome to LandHub! Start exploring amazing land properties and find your perfect piece of land.",
	models.RoleSeller: "Welcome to LandHub! You can now list your properties and connect with potential buyers.",
	models.RoleAdmin:  "Welcome to LandHub Admin! You have access to manage listings and oversee the platform.",
}

// Welcome creates the role-specific welcome notification for a new user.
// Idempotency is the caller's concern; see HasWelcome.
func (d *Dispatcher) Welcome(ctx context.Context, user *models.User) (*models.Notification, error) {
	message, ok := welcomeMessages[user.Role]
	if !ok {
		message = welcomeMessages[models.RoleBuyer]
	}

	return d.Create(ctx, CreateInput{
		RecipientID: user.ID,
		Type:        models.NotificationSystemWelcome,
		Title:       "Welcome to LandHub!",
		Message:     message,
		Metadata: map[string]any{
			"user_role":    user.Role,
			"welcome_date": user.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// SystemUpdate broadcasts a system notice. With a nil recipient list it fans
// out to every active user; otherwise only the named users receive it. Same
// partial-failure contract as ListingPendingApproval.
func (d *Dispatcher) SystemUpdate(ctx context.Context, message string, userIDs []string) ([]*models.Notification, error) {
	query := d.db.WithContext(ctx).Model(&models.User{})
	if userIDs == nil {
		query = query.Where("is_active = ?", true)
	} else {
		query = query.Where("id IN ?", userIDs)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("notifications: list recipients: %w", err)
	}

	var created []*models.Notification
	var errs error
	for _, user := range users {
		notification, err := d.Create(ctx, CreateInput{
			RecipientID: user.ID,
			Type:        models.NotificationSystemUpdate,
			Title:       "System Update",
			Message:     message,
			Metadata: map[string]any{
				"update_type": "system",
				"broadcast":   true,
			},
		})
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		created = append(created, notification)
	}

	return created, errs
}

// inquiryParties resolves the inquiry's listing and buyer, reusing preloaded
// associations when the caller provides them.
func (d *Dispatcher) inquiryParties(ctx context.Context, inquiry *models.Inquiry) (*models.Land, *models.User, error) {
	if inquiry == nil {
		return nil, nil, errors.New("notifications: inquiry is required")
	}

	land := inquiry.Land
	if land == nil {
		land = &models.Land{}
		if err := d.db.WithContext(ctx).First(land, "id = ?", inquiry.LandID).Error; err != nil {
			return nil, nil, fmt.Errorf("notifications: load inquiry listing: %w", err)
		}
	}

	buyer := inquiry.Buyer
	if buyer == nil {
		buyer = &models.User{}
		if err := d.db.WithContext(ctx).First(buyer, "id = ?", inquiry.BuyerID).Error; err != nil {
			return nil, nil, fmt.Errorf("notifications: load inquiry buyer: %w", err)
		}
	}

	return land, buyer, nil
}

func (d *Dispatcher) landOwner(ctx context.Context, land *models.Land) (*models.User, error) {
	if land == nil {
		return nil, errors.New("notifications: listing is required")
	}
	if land.Owner != nil {
		return land.Owner, nil
	}

	owner := &models.User{}
	if err := d.db.WithContext(ctx).First(owner, "id = ?", land.OwnerID).Error; err != nil {
		return nil, fmt.Errorf("notifications: load listing owner: %w", err)
	}
	return owner, nil
}

func (d *Dispatcher) favoriteParties(ctx context.Context, favorite *models.Favorite) (*models.Land, *models.User, error) {
	if favorite == nil {
		return nil, nil, errors.New("notifications: favorite is required")
	}

	land := favorite.Land
	if land == nil {
		land = &models.Land{}
		if err := d.db.WithContext(ctx).First(land, "id = ?", favorite.LandID).Error; err != nil {
			return nil, nil, fmt.Errorf("notifications: load favorited listing: %w", err)
		}
	}

	buyer := favorite.User
	if buyer == nil {
		buyer = &models.User{}
		if err := d.db.WithContext(ctx).First(buyer, "id = ?", favorite.UserID).Error; err != nil {
			return nil, nil, fmt.Errorf("notifications: load favoriting user: %w", err)
		}
	}

	return land, buyer, nil
}
