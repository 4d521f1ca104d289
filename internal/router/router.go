package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/arafhm/minigram/backend/internal/handlers"
	"github.com/arafhm/minigram/backend/internal/middleware"
	"github.com/arafhm/minigram/backend/internal/models"
	"github.com/arafhm/minigram/backend/internal/repositories"
	"github.com/arafhm/minigram/backend/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = handlers.HTTPErrorHandler
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDBName string, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories and services ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(mongoDBName))
	resolver := services.NewRepositoryUserResolver(userRepo)
	postService := services.NewPostService(postRepo, resolver)

	// --- Unprotected routes ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	postHandler := handlers.NewPostHandler(postService)

	public := e.Group("/api/v1")
	postHandler.RegisterPublicRoutes(public)
	log.Println("Public post routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	log.Println("All routes configured.")
}
