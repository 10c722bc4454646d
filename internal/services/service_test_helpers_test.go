package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/database/testutil"
	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/notifications"
)

func newServiceTestDB(t *testing.T) (*gorm.DB, *notifications.Dispatcher) {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	dispatcher, err := notifications.NewDispatcher(db)
	require.NoError(t, err)
	return db, dispatcher
}

func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
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

func seedLand(t *testing.T, db *gorm.DB, owner *models.User, title, status string) *models.Land {
	t.Helper()

	land := &models.Land{
		OwnerID:      owner.ID,
		Title:        title,
		Description:  "Twenty acres of mixed pasture and timber",
		Price:        90000,
		SizeAcres:    20,
		Location:     "Cedar County",
		PropertyType: models.PropertyAgricultural,
		Status:       status,
		IsApproved:   status == models.ListingStatusApproved,
	}
	require.NoError(t, db.Create(land).Error)
	land.Owner = owner
	return land
}

func seedInquiry(t *testing.T, db *gorm.DB, buyer *models.User, land *models.Land) *models.Inquiry {
	t.Helper()

	inquiry := &models.Inquiry{
		BuyerID: buyer.ID,
		LandID:  land.ID,
		Subject: "Access road",
		Message: "Is the access road maintained by the county?",
	}
	require.NoError(t, db.Create(inquiry).Error)
	return inquiry
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID, notificationType string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, notificationType).
		Count(&count).Error)
	return count
}
