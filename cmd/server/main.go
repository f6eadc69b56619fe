package main

import (
	"context"                      // context package is needed for Redis operations
	"delishub/internal/api"        // Custom package for API handlers
	"delishub/internal/auth"       // Custom package for session tokens
	"delishub/internal/config"     // Custom package for configuration
	"delishub/internal/middleware" // Custom package for middleware
	"delishub/internal/presence"   // Custom package for activity tracking
	"log"                          // log package is needed for logging

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Token service holds the fixed signing secret for the process lifetime
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	// Presence tracker, created once at startup; informational only
	tracker := presence.NewTracker()

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	requireAuth := middleware.RequireAuth(db, tokens, tracker) // Identity resolver

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", api.RegisterHandler(db, cfg.BcryptCost))     // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, tokens))                   // Login endpoint
	authGroup.GET("/me", requireAuth, api.MeHandler())                       // Authenticated user endpoint
	authGroup.PUT("/me/avatar", requireAuth, api.UpdateAvatarHandler(db))    // Avatar path endpoint

	// Recipe routes; reads are public, writes require an identity
	recipeGroup := r.Group("/api/recipes")
	recipeGroup.GET("", api.ListRecipesHandler(db, redisClient))                         // Recipe list endpoint
	recipeGroup.GET("/:id", api.GetRecipeHandler(db, redisClient))                       // Recipe detail endpoint
	recipeGroup.POST("", requireAuth, api.CreateRecipeHandler(db, redisClient))          // Create recipe endpoint
	recipeGroup.PUT("/:id", requireAuth, api.UpdateRecipeHandler(db, redisClient))       // Update recipe endpoint (owner only)
	recipeGroup.DELETE("/:id", requireAuth, api.DeleteRecipeHandler(db, redisClient))    // Delete recipe endpoint (owner only)
	recipeGroup.GET("/:id/can-modify", requireAuth, api.CanModifyRecipeHandler(db))      // Ownership preflight endpoint
	recipeGroup.GET("/user/:userId", requireAuth, api.ListRecipesByUserHandler(db))      // Recipes by user endpoint

	// Comment routes; reads are public, writes require an identity
	commentGroup := r.Group("/api/comments")
	commentGroup.GET("/:id", api.ListCommentsByRecipeHandler(db, redisClient))           // Comment list endpoint (id is the recipe id)
	commentGroup.POST("", requireAuth, api.CreateCommentHandler(db, redisClient))        // Create comment endpoint
	commentGroup.PUT("/:id", requireAuth, api.UpdateCommentHandler(db, redisClient))     // Update comment endpoint (owner only)
	commentGroup.DELETE("/:id", requireAuth, api.DeleteCommentHandler(db, redisClient))  // Delete comment endpoint (owner only)
	commentGroup.GET("/:id/can-modify", requireAuth, api.CanModifyCommentHandler(db))    // Ownership preflight endpoint

	// User routes
	userGroup := r.Group("/api/users")
	userGroup.PUT("/profile", requireAuth, api.UpdateProfileHandler(db))                        // Profile update endpoint
	userGroup.PUT("/password", requireAuth, api.UpdatePasswordHandler(db, cfg.BcryptCost))      // Password update endpoint
	userGroup.DELETE("", requireAuth, api.DeleteAccountHandler(db, redisClient, tracker))       // Account deletion endpoint
	userGroup.GET("/active", requireAuth, api.ActiveUsersHandler(tracker))                      // Recently active users endpoint
	r.GET("/api/user-profile/:userId", api.GetUserProfileHandler(db))                           // Public profile endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
