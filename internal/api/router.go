package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/app"
	iauth "github.com/landhub/landhub/internal/auth"
	"github.com/landhub/landhub/internal/handlers"
	"github.com/landhub/landhub/internal/middleware"
	"github.com/landhub/landhub/internal/notifications"
	"github.com/landhub/landhub/internal/permissions"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))
	}

	// Health endpoint (public)
	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health())
	}

	dispatcher, err := notifications.NewDispatcher(db)
	if err != nil {
		return nil, err
	}
	checker, err := permissions.NewChecker(db)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(db, dispatcher, jwt)
	if err != nil {
		return nil, err
	}
	listingHandler, err := handlers.NewListingHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}
	inquiryHandler, err := handlers.NewInquiryHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}
	favoriteHandler, err := handlers.NewFavoriteHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}
	searchHandler, err := handlers.NewSavedSearchHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}
	notificationHandler, err := handlers.NewNotificationHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}
	userHandler, err := handlers.NewUserHandler(db, dispatcher)
	if err != nil {
		return nil, err
	}

	// Public routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	r.GET("/api/listings", listingHandler.Browse)
	r.GET("/api/listings/:id", listingHandler.GetPublic)

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	api.GET("/auth/me", authHandler.Me)
	api.PATCH("/auth/me", authHandler.UpdateProfile)

	registerListingRoutes(api, listingHandler, checker)
	registerInquiryRoutes(api, inquiryHandler, checker)
	registerBuyerRoutes(api, favoriteHandler, searchHandler, checker)
	registerNotificationRoutes(api, notificationHandler, checker)
	registerUserRoutes(api, userHandler, checker)

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
