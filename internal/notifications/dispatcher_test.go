package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/database/testutil"
	"github.com/landhub/landhub/internal/models"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *gorm.DB) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	dispatcher, err := NewDispatcher(db)
	require.NoError(t, err)
	return dispatcher, db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestLand(t *testing.T, db *gorm.DB, owner *models.User, title string) *models.Land {
	t.Helper()

	land := &models.Land{
		OwnerID:      owner.ID,
		Title:        title,
		Description:  "Rolling hills with road access",
		Price:        125000,
		SizeAcres:    12.5,
		Location:     "Hill County",
		PropertyType: models.PropertyAgricultural,
		Status:       models.ListingStatusApproved,
		IsApproved:   true,
	}
	require.NoError(t, db.Create(land).Error)
	land.Owner = owner
	return land
}

func createTestInquiry(t *testing.T, db *gorm.DB, buyer *models.User, land *models.Land) *models.Inquiry {
	t.Helper()

	inquiry := &models.Inquiry{
		BuyerID: buyer.ID,
		LandID:  land.ID,
		Subject: "Water rights",
		Message: "Does the parcel include water rights?",
	}
	require.NoError(t, db.Create(inquiry).Error)
	inquiry.Buyer = buyer
	inquiry.Land = land
	return inquiry
}

func TestNewDispatcherRequiresDB(t *testing.T) {
	_, err := NewDispatcher(nil)
	require.Error(t, err)
}

func TestCreatePersistsUnreadNotification(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	recipient := createTestUser(t, db, "seller-one", models.RoleSeller)
	sender := createTestUser(t, db, "buyer-one", models.RoleBuyer)

	notification, err := dispatcher.Create(context.Background(), CreateInput{
		RecipientID: recipient.ID,
		SenderID:    sender.ID,
		Type:        models.NotificationAdminMessage,
		Title:       "  Heads up  ",
		Message:     "Your account was reviewed.",
		Metadata:    map[string]any{"reviewed_by": "admin"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, notification.ID)
	require.Equal(t, "Heads up", notification.Title)
	require.False(t, notification.IsRead)
	require.Nil(t, notification.ReadAt)
	require.NotNil(t, notification.SenderID)
	require.Equal(t, sender.ID, *notification.SenderID)
	require.Equal(t, "admin", notification.MetadataMap()["reviewed_by"])

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
	require.Equal(t, recipient.ID, stored.RecipientID)
	require.Equal(t, models.NotificationAdminMessage, stored.Type)
}

func TestCreateSystemNotificationHasNoSender(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	recipient := createTestUser(t, db, "buyer-two", models.RoleBuyer)

	notification, err := dispatcher.Create(context.Background(), CreateInput{
		RecipientID: recipient.ID,
		Type:        models.NotificationSystemUpdate,
		Title:       "System Update",
		Message:     "Scheduled maintenance tonight.",
	})
	require.NoError(t, err)
	require.Nil(t, notification.SenderID)
}

func TestCreateRejectsMissingRecipient(t *testing.T) {
	dispatcher, _ := newTestDispatcher(t)

	_, err := dispatcher.Create(context.Background(), CreateInput{
		Type:  models.NotificationSystemUpdate,
		Title: "System Update",
	})
	require.Error(t, err)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	recipient := createTestUser(t, db, "buyer-three", models.RoleBuyer)

	_, err := dispatcher.Create(context.Background(), CreateInput{
		RecipientID: recipient.ID,
		Type:        "carrier_pigeon",
		Title:       "Nope",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestHasWelcome(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	user := createTestUser(t, db, "newcomer", models.RoleBuyer)

	has, err := dispatcher.HasWelcome(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, has)

	_, err = dispatcher.Welcome(context.Background(), user)
	require.NoError(t, err)

	has, err = dispatcher.HasWelcome(context.Background(), user.ID)
	require.NoError(t, err)
	require.True(t, has)
}

func TestWithTxRollbackDiscardsNotification(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	recipient := createTestUser(t, db, "buyer-four", models.RoleBuyer)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := dispatcher.WithTx(tx).Create(context.Background(), CreateInput{
			RecipientID: recipient.ID,
			Type:        models.NotificationSystemUpdate,
			Title:       "System Update",
			Message:     "Will be rolled back.",
		})
		require.NoError(t, err)
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.Zero(t, count)
}
