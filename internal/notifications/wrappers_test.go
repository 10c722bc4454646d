package notifications

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/landhub/landhub/internal/models"
)

func TestNewInquiryNotifiesListingOwner(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	buyer := createTestUser(t, db, "buyer", models.RoleBuyer)
	land := createTestLand(t, db, seller, "Sunny Meadow")
	inquiry := createTestInquiry(t, db, buyer, land)

	notification, err := dispatcher.NewInquiry(context.Background(), inquiry)
	require.NoError(t, err)

	require.Equal(t, seller.ID, notification.RecipientID)
	require.NotNil(t, notification.SenderID)
	require.Equal(t, buyer.ID, *notification.SenderID)
	require.Equal(t, models.NotificationInquiryNew, notification.Type)
	require.Equal(t, "New inquiry about Sunny Meadow", notification.Title)
	require.Contains(t, notification.Message, "sent an inquiry about your property 'Sunny Meadow'")
	require.Contains(t, notification.Message, "Subject: Water rights")
	require.Equal(t, models.RelatedKindInquiry, notification.RelatedKind)
	require.Equal(t, inquiry.ID, notification.RelatedID)
	require.Equal(t, land.ID, notification.MetadataMap()["property_id"])

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestNewInquiryLoadsAssociationsWhenMissing(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	buyer := createTestUser(t, db, "buyer", models.RoleBuyer)
	land := createTestLand(t, db, seller, "Bare Inquiry Acres")
	inquiry := createTestInquiry(t, db, buyer, land)
	inquiry.Land = nil
	inquiry.Buyer = nil

	notification, err := dispatcher.NewInquiry(context.Background(), inquiry)
	require.NoError(t, err)
	require.Equal(t, seller.ID, notification.RecipientID)
	require.Equal(t, "New inquiry about Bare Inquiry Acres", notification.Title)
}

func TestInquiryResponseNotifiesBuyer(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	buyer := createTestUser(t, db, "buyer", models.RoleBuyer)
	land := createTestLand(t, db, seller, "Creekside Lot")
	inquiry := createTestInquiry(t, db, buyer, land)

	notification, err := dispatcher.InquiryResponse(context.Background(), inquiry)
	require.NoError(t, err)

	require.Equal(t, buyer.ID, notification.RecipientID)
	require.NotNil(t, notification.SenderID)
	require.Equal(t, seller.ID, *notification.SenderID)
	require.Equal(t, models.NotificationInquiryResponse, notification.Type)
	require.Equal(t, "Response to your inquiry about Creekside Lot", notification.Title)
	require.Equal(t, models.RelatedKindInquiry, notification.RelatedKind)
	require.Equal(t, inquiry.ID, notification.RelatedID)
}

func TestListingApprovedNotifiesSeller(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	land := createTestLand(t, db, seller, "Ridge View")

	notification, err := dispatcher.ListingApproved(context.Background(), land)
	require.NoError(t, err)

	require.Equal(t, seller.ID, notification.RecipientID)
	require.Nil(t, notification.SenderID)
	require.Equal(t, models.NotificationListingApproved, notification.Type)
	require.Equal(t, "Listing approved: Ridge View", notification.Title)
	require.Contains(t, notification.Message, "approved and is now live")
	require.Equal(t, models.RelatedKindLand, notification.RelatedKind)
	require.Equal(t, land.PropertyType, notification.MetadataMap()["property_type"])
}

func TestListingRejectedIncludesNotes(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	land := createTestLand(t, db, seller, "Swampy Parcel")

	notification, err := dispatcher.ListingRejected(context.Background(), land, "Photos do not match the address")
	require.NoError(t, err)
	require.Equal(t, models.NotificationListingRejected, notification.Type)
	require.Contains(t, notification.Message, "Reason: Photos do not match the address")
	require.Equal(t, "Photos do not match the address", notification.MetadataMap()["admin_notes"])
}

func TestListingRejectedWithoutNotes(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	land := createTestLand(t, db, seller, "Plain Parcel")

	notification, err := dispatcher.ListingRejected(context.Background(), land, "")
	require.NoError(t, err)
	require.Equal(t, "Your property listing 'Plain Parcel' has been rejected.", notification.Message)
}

func TestListingPendingApprovalFansOutToAdmins(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	createTestUser(t, db, "buyer", models.RoleBuyer)
	var adminIDs []string
	for i := 0; i < 3; i++ {
		admin := createTestUser(t, db, fmt.Sprintf("admin-%d", i), models.RoleAdmin)
		adminIDs = append(adminIDs, admin.ID)
	}
	land := createTestLand(t, db, seller, "Queue Parcel")

	created, err := dispatcher.ListingPendingApproval(context.Background(), land)
	require.NoError(t, err)
	require.Len(t, created, 3)

	recipients := map[string]bool{}
	for _, notification := range created {
		require.Equal(t, models.NotificationListingPending, notification.Type)
		require.NotNil(t, notification.SenderID)
		require.Equal(t, seller.ID, *notification.SenderID)
		recipients[notification.RecipientID] = true
	}
	for _, id := range adminIDs {
		require.True(t, recipients[id], "admin %s not notified", id)
	}

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestListingPendingApprovalNoAdmins(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	land := createTestLand(t, db, seller, "Lonely Parcel")

	created, err := dispatcher.ListingPendingApproval(context.Background(), land)
	require.NoError(t, err)
	require.Empty(t, created)
}

func TestPropertyFavoritedLinksFavorite(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	seller := createTestUser(t, db, "seller", models.RoleSeller)
	buyer := createTestUser(t, db, "buyer", models.RoleBuyer)
	land := createTestLand(t, db, seller, "Popular Parcel")

	favorite := &models.Favorite{UserID: buyer.ID, LandID: land.ID}
	require.NoError(t, db.Create(favorite).Error)

	notification, err := dispatcher.PropertyFavorited(context.Background(), favorite)
	require.NoError(t, err)

	require.Equal(t, seller.ID, notification.RecipientID)
	require.NotNil(t, notification.SenderID)
	require.Equal(t, buyer.ID, *notification.SenderID)
	require.Equal(t, models.NotificationPropertyFavorited, notification.Type)
	require.Equal(t, models.RelatedKindFavorite, notification.RelatedKind)
	require.Equal(t, favorite.ID, notification.RelatedID)
	require.Equal(t, buyer.DisplayName(), notification.MetadataMap()["buyer_name"])
}

func TestWelcomePerRole(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)

	cases := []struct {
		role     string
		fragment string
	}{
		{models.RoleBuyer, "Start exploring amazing land properties"},
		{models.RoleSeller, "list your properties and connect with potential buyers"},
		{models.RoleAdmin, "manage listings and oversee the platform"},
	}

	for _, tc := range cases {
		user := createTestUser(t, db, "welcome-"+tc.role, tc.role)

		notification, err := dispatcher.Welcome(context.Background(), user)
		require.NoError(t, err)
		require.Equal(t, "Welcome to LandHub!", notification.Title)
		require.Contains(t, notification.Message, tc.fragment)
		require.Equal(t, tc.role, notification.MetadataMap()["user_role"])
		require.NotEmpty(t, notification.MetadataMap()["welcome_date"])
	}
}

func TestSystemUpdateBroadcastsToActiveUsers(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	createTestUser(t, db, "active-one", models.RoleBuyer)
	createTestUser(t, db, "active-two", models.RoleSeller)
	inactive := createTestUser(t, db, "inactive", models.RoleBuyer)
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	created, err := dispatcher.SystemUpdate(context.Background(), "New search filters are available.", nil)
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, notification := range created {
		require.Equal(t, models.NotificationSystemUpdate, notification.Type)
		require.Equal(t, "System Update", notification.Title)
		require.Equal(t, true, notification.MetadataMap()["broadcast"])
		require.NotEqual(t, inactive.ID, notification.RecipientID)
	}
}

func TestSystemUpdateTargetsNamedUsers(t *testing.T) {
	dispatcher, db := newTestDispatcher(t)
	target := createTestUser(t, db, "target", models.RoleBuyer)
	createTestUser(t, db, "bystander", models.RoleBuyer)

	created, err := dispatcher.SystemUpdate(context.Background(), "Your region gained new listings.", []string{target.ID})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, target.ID, created[0].RecipientID)
}
