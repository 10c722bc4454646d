package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/services"
)

func TestListingHandlerCreateAndSubmit(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "listing-seller", models.RoleSeller)
	seedHandlerUser(t, db, "listing-admin", models.RoleAdmin)

	c, recorder := jsonRequest(t, seller.ID, map[string]any{
		"title":         "Creekside Forty",
		"description":   "Forty wooded acres with a year-round creek",
		"price":         120000,
		"size_acres":    40,
		"location":      "Missoula, MT",
		"property_type": models.PropertyRecreational,
	})
	handler.Create(c)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var dto services.ListingDTO
	decodeSuccess(t, recorder, &dto)
	require.Equal(t, seller.ID, dto.OwnerID)
	require.Equal(t, models.ListingStatusDraft, dto.Status)
	require.False(t, dto.IsApproved)

	c2, submitRecorder := getRequest(t, seller.ID, "", gin.Param{Key: "id", Value: dto.ID})
	handler.SubmitForApproval(c2)

	require.Equal(t, http.StatusOK, submitRecorder.Code)

	var submitted services.ListingDTO
	decodeSuccess(t, submitRecorder, &submitted)
	require.Equal(t, models.ListingStatusPending, submitted.Status)

	// The admin was notified about the pending listing.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", "listing-admin", models.NotificationListingPending).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestListingHandlerModeration(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "mod-seller", models.RoleSeller)
	land := seedHandlerLand(t, db, seller.ID, models.ListingStatusPending)

	c, recorder := getRequest(t, "admin", "")
	handler.ListPending(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var pending []services.ListingDTO
	decodeSuccess(t, recorder, &pending)
	require.Len(t, pending, 1)

	c2, approveRecorder := getRequest(t, "admin", "", gin.Param{Key: "id", Value: land.ID})
	handler.Approve(c2)

	require.Equal(t, http.StatusOK, approveRecorder.Code)

	var approved services.ListingDTO
	decodeSuccess(t, approveRecorder, &approved)
	require.Equal(t, models.ListingStatusApproved, approved.Status)
	require.True(t, approved.IsApproved)

	// Approving again fails because the listing is no longer pending.
	c3, againRecorder := getRequest(t, "admin", "", gin.Param{Key: "id", Value: land.ID})
	handler.Approve(c3)
	require.Equal(t, http.StatusNotFound, againRecorder.Code)
}

func TestListingHandlerReject(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "reject-seller", models.RoleSeller)
	land := seedHandlerLand(t, db, seller.ID, models.ListingStatusPending)

	c, recorder := jsonRequest(t, "admin", map[string]any{
		"admin_notes": "Photos do not match the parcel boundaries",
	}, gin.Param{Key: "id", Value: land.ID})
	handler.Reject(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var dto services.ListingDTO
	decodeSuccess(t, recorder, &dto)
	require.Equal(t, models.ListingStatusRejected, dto.Status)
	require.Equal(t, "Photos do not match the parcel boundaries", dto.AdminNotes)
}

func TestListingHandlerBrowseFiltersApproved(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "browse-seller", models.RoleSeller)
	approved := seedHandlerLand(t, db, seller.ID, models.ListingStatusApproved)
	seedHandlerLand(t, db, seller.ID, models.ListingStatusDraft)

	c, recorder := getRequest(t, "", "property_type=agricultural&max_price=100000")
	handler.Browse(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var items []services.ListingDTO
	decodeSuccess(t, recorder, &items)
	require.Len(t, items, 1)
	require.Equal(t, approved.ID, items[0].ID)
}

func TestListingHandlerGetPublicHidesDrafts(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "public-seller", models.RoleSeller)
	draft := seedHandlerLand(t, db, seller.ID, models.ListingStatusDraft)

	c, recorder := getRequest(t, "", "", gin.Param{Key: "id", Value: draft.ID})
	handler.GetPublic(c)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListingHandlerUpdatePullsApprovedBackToDraft(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "update-seller", models.RoleSeller)
	land := seedHandlerLand(t, db, seller.ID, models.ListingStatusApproved)

	c, recorder := jsonRequest(t, seller.ID, map[string]any{
		"price": 99000,
	}, gin.Param{Key: "id", Value: land.ID})
	handler.Update(c)

	require.Equal(t, http.StatusOK, recorder.Code)

	var dto services.ListingDTO
	decodeSuccess(t, recorder, &dto)
	require.Equal(t, models.ListingStatusDraft, dto.Status)
	require.False(t, dto.IsApproved)
	require.EqualValues(t, 99000, dto.Price)
}

func TestListingHandlerDeleteRequiresOwnership(t *testing.T) {
	db, dispatcher := newHandlerTestDB(t)
	handler, err := NewListingHandler(db, dispatcher)
	require.NoError(t, err)

	seller := seedHandlerUser(t, db, "delete-seller", models.RoleSeller)
	other := seedHandlerUser(t, db, "delete-other", models.RoleSeller)
	land := seedHandlerLand(t, db, seller.ID, models.ListingStatusDraft)

	c, recorder := getRequest(t, other.ID, "", gin.Param{Key: "id", Value: land.ID})
	handler.Delete(c)

	require.Equal(t, http.StatusNotFound, recorder.Code)

	var count int64
	require.NoError(t, db.Model(&models.Land{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
