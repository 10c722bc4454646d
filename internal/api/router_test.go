package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/landhub/landhub/internal/app"
	iauth "github.com/landhub/landhub/internal/auth"
	"github.com/landhub/landhub/internal/database/testutil"
)

func testConfig() *app.Config {
	cfg := &app.Config{}
	cfg.Server.RateLimit.Enabled = false
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"
	cfg.Monitoring.Health.Enabled = true
	return cfg
}

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "test", AccessTokenTTL: 15 * time.Minute})
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}

	router, err := NewRouter(db, jwtSvc, testConfig())
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	// Health and the public catalogue do not require auth
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200 for /health, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/listings", nil)
	router.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200 for /api/listings, got %d", w.Code)
	}

	// Protected endpoints without auth should be 401
	for _, path := range []string{"/api/auth/me", "/api/notifications", "/api/seller/listings", "/api/admin/users"} {
		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", path, nil)
		router.ServeHTTP(w, req)
		if w.Code != 401 {
			t.Fatalf("expected 401 for %s without token, got %d", path, w.Code)
		}
	}

	// Unknown routes fall through to the JSON 404 handler
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/nope", nil)
	router.ServeHTTP(w, req)
	if w.Code != 404 {
		t.Fatalf("expected 404 for unknown route, got %d", w.Code)
	}
}

func TestRouter_RoleEnforcement(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "role-secret", Issuer: "test", AccessTokenTTL: 15 * time.Minute})
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}

	router, err := NewRouter(db, jwtSvc, testConfig())
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	// Register a buyer through the API
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/auth/register", strings.NewReader(
		`{"username":"roletester","email":"roletester@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != 201 {
		t.Fatalf("expected 201 for register, got %d: %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	idx := strings.Index(body, `"token":"`)
	if idx < 0 {
		t.Fatalf("register response missing token: %s", body)
	}
	token := body[idx+len(`"token":"`):]
	token = token[:strings.Index(token, `"`)]

	// Buyers can read their favorites
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/buyer/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200 for buyer favorites, got %d: %s", w.Code, w.Body.String())
	}

	// Buyers cannot reach the moderation queue
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/admin/listings/pending", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	if w.Code != 403 {
		t.Fatalf("expected 403 for buyer on moderation queue, got %d", w.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "metrics-secret", Issuer: "test", AccessTokenTTL: 15 * time.Minute})
	if err != nil {
		t.Fatalf("jwt service: %v", err)
	}

	router, err := NewRouter(db, jwtSvc, testConfig())
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for /health, got %d", rec.Code)
	}

	metricsRec := httptest.NewRecorder()
	metricsReq, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(metricsRec, metricsReq)
	if metricsRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for /metrics, got %d", metricsRec.Code)
	}

	body := metricsRec.Body.String()
	if !strings.Contains(body, `landhub_api_latency_seconds_count{method="GET",path="/health",status="200"}`) {
		t.Fatalf("metrics output missing latency series: %s", body)
	}
}
