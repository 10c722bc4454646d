package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/database/testutil"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/notifications"
	"github.com/landhub/landhub/pkg/crypto"
	"github.com/landhub/landhub/pkg/response"
)

func newHandlerTestDB(t *testing.T) (*gorm.DB, *notifications.Dispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	dispatcher, err := notifications.NewDispatcher(db)
	require.NoError(t, err)
	return db, dispatcher
}

func testContext() context.Context {
	return context.Background()
}

func seedHandlerUser(t *testing.T, db *gorm.DB, id, role string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		BaseModel: models.BaseModel{ID: id},
		Username:  id,
		Email:     id + "@example.com",
		Password:  hashed,
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedHandlerLand(t *testing.T, db *gorm.DB, ownerID, status string) *models.Land {
	t.Helper()

	land := models.Land{
		OwnerID:      ownerID,
		Title:        "Sunny Meadow Parcel",
		Description:  "Ten acres of open pasture with road frontage",
		Price:        85000,
		SizeAcres:    10,
		Location:     "Boulder, CO",
		PropertyType: models.PropertyAgricultural,
		Status:       status,
		IsApproved:   status == models.ListingStatusApproved,
	}
	require.NoError(t, db.Create(&land).Error)
	return &land
}

func jsonRequest(t *testing.T, userID string, body any, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest("POST", "/", &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	if userID != "" {
		c.Set(middleware.CtxUserIDKey, userID)
	}
	c.Params = append(c.Params, params...)
	return c, recorder
}

func getRequest(t *testing.T, userID, rawQuery string, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	target := "/"
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	c.Request = httptest.NewRequest("GET", target, nil)

	if userID != "" {
		c.Set(middleware.CtxUserIDKey, userID)
	}
	c.Params = append(c.Params, params...)
	return c, recorder
}

func decodeSuccess(t *testing.T, recorder *httptest.ResponseRecorder, out any) {
	t.Helper()

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.True(t, payload.Success, "expected success envelope, got %s", recorder.Body.String())

	if out == nil {
		return
	}
	dataBytes, err := json.Marshal(payload.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(dataBytes, out))
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) *response.ErrorInfo {
	t.Helper()

	var payload response.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	require.False(t, payload.Success)
	require.NotNil(t, payload.Error)
	return payload.Error
}
