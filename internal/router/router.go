package router

import (
	"log"
	"log/slog"

	"threadline/internal/handlers"
	"threadline/internal/middleware"
	"threadline/internal/models"
	"threadline/internal/services"
	"threadline/pkg/config"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, logger *slog.Logger) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Repost{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Services ---
	userService := services.NewUserService(db, logger)
	socialGraphService := services.NewSocialGraphService(db, logger)
	interactionService := services.NewInteractionService(db, logger)
	postService := services.NewPostService(db, logger)
	notificationService := services.NewNotificationService(db, logger)
	feedService := services.NewFeedService(db, logger)

	// Public routes accept an anonymous viewer; protected routes require
	// one. Both resolve identity through the same middleware.
	public := e.Group("/api/v1")
	public.Use(middleware.ViewerIdentity(cfg.JWTSecret))

	protected := e.Group("/api/v1")
	protected.Use(middleware.ViewerIdentity(cfg.JWTSecret))
	protected.Use(middleware.RequireViewer())

	userHandler := handlers.NewUserHandler(userService)
	userHandler.RegisterUserRoutes(public)

	followHandler := handlers.NewFollowHandler(socialGraphService)
	followHandler.RegisterFollowRoutes(protected)

	interactionHandler := handlers.NewInteractionHandler(interactionService)
	interactionHandler.RegisterInteractionRoutes(protected)

	postHandler := handlers.NewPostHandler(postService, feedService)
	postHandler.RegisterPostRoutes(public, protected)

	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(public, protected)

	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(protected)
}
