package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/landhub/landhub/internal/models"
	apperrors "github.com/landhub/landhub/pkg/errors"
)

func TestToggleCreatesFavoriteAndNotifiesOwner(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	buyer := seedUser(t, db, "buyer", models.RoleBuyer)
	land := seedLand(t, db, seller, "Fave Acres", models.ListingStatusApproved)

	result, err := svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)
	require.True(t, result.Favorited)
	require.NotNil(t, result.Favorite)
	require.Equal(t, land.ID, result.Favorite.LandID)

	require.EqualValues(t, 1, countNotifications(t, db, seller.ID, models.NotificationPropertyFavorited))
}

func TestToggleTwiceRemovesFavorite(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	buyer := seedUser(t, db, "buyer", models.RoleBuyer)
	land := seedLand(t, db, seller, "Flip Acres", models.ListingStatusApproved)

	_, err = svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)

	result, err := svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)
	require.False(t, result.Favorited)

	favorited, err := svc.IsFavorited(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestToggleRollsBackWhenNotificationFails(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	buyer := seedUser(t, db, "buyer", models.RoleBuyer)
	land := seedLand(t, db, seller, "Torn Acres", models.ListingStatusApproved)

	require.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	_, err = svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.Error(t, err)

	favorited, err := svc.IsFavorited(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)
	require.False(t, favorited)
}

func TestToggleRejectsUnapprovedListing(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	buyer := seedUser(t, db, "buyer", models.RoleBuyer)
	land := seedLand(t, db, seller, "Hidden Acres", models.ListingStatusDraft)

	_, err = svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToggleOwnListingSkipsNotification(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	land := seedLand(t, db, seller, "Self Acres", models.ListingStatusApproved)

	result, err := svc.Toggle(context.Background(), seller.ID, land.ID)
	require.NoError(t, err)
	require.True(t, result.Favorited)

	require.Zero(t, countNotifications(t, db, seller.ID, models.NotificationPropertyFavorited))
}

func TestListForUserAttachesListings(t *testing.T) {
	db, dispatcher := newServiceTestDB(t)
	svc, err := NewFavoriteService(db, dispatcher)
	require.NoError(t, err)
	seller := seedUser(t, db, "seller", models.RoleSeller)
	buyer := seedUser(t, db, "buyer", models.RoleBuyer)
	land := seedLand(t, db, seller, "Bookmark Acres", models.ListingStatusApproved)

	_, err = svc.Toggle(context.Background(), buyer.ID, land.ID)
	require.NoError(t, err)

	items, err := svc.ListForUser(context.Background(), buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Listing)
	require.Equal(t, "Bookmark Acres", items[0].Listing.Title)
}
