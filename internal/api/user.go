package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Presence window

	"delishub/internal/auth"       // Credential hashing
	"delishub/internal/db"         // Cascading deletes
	"delishub/internal/domain"     // Importing domain models
	"delishub/internal/middleware" // Resolved identity access
	"delishub/internal/presence"   // Activity tracking
	"delishub/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for profile update
type UpdateProfileRequest struct {
	Username string `json:"username"` // New username, optional
	Email    string `json:"email"`    // New email, optional
}

// Request struct for password update
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"` // Current password must be provided
	NewPassword     string `json:"newPassword" binding:"required"`     // New password must be provided
}

// UpdateProfileHandler updates the authenticated user's username and email
func UpdateProfileHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		updates := map[string]any{} // Only provided fields are changed
		if req.Username != "" {
			updates["username"] = req.Username
		}
		if req.Email != "" {
			// Validate email format before persisting
			if !isValidEmail(req.Email) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
				return
			}
			updates["email"] = strings.ToLower(req.Email)
		}
		if len(updates) == 0 {
			// Nothing to change
			c.JSON(http.StatusOK, gin.H{"message": "Profile unchanged", "user": user})
			return
		}
		// Reject a username or email already held by another account
		for _, field := range []string{"username", "email"} {
			value, present := updates[field]
			if !present {
				continue
			}
			var other domain.User
			err := gdb.Where(field+" = ? AND id <> ?", value, user.ID).First(&other).Error
			if err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
				return
			}
		}
		// Persist the changes; schema uniqueness backstops concurrent updates
		if err := gdb.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Updated user ID
		}).Info("Profile updated")
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

// UpdatePasswordHandler changes the authenticated user's password after
// verifying the current one. Neither password is ever stored or logged
// in plaintext.
func UpdatePasswordHandler(gdb *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdatePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		// Verify the current password against the stored hash
		if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			return
		}
		// The new password must satisfy the acceptance policy
		if !isValidPassword(req.NewPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with a letter and a digit"})
			return
		}
		// Hash and store the new password
		hash, err := auth.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := gdb.Model(user).Update("password_hash", hash).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Updated user ID
		}).Info("Password updated")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// DeleteAccountHandler removes the authenticated user's account. The cascade
// takes the user's recipes, the user's comments, and every comment on the
// removed recipes with it, atomically.
func DeleteAccountHandler(gdb *gorm.DB, rdb *redis.Client, tracker *presence.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var recipeIDs []string // Owned recipe ids, captured for cache invalidation
		if err := gdb.Model(&domain.Recipe{}).Where("user_id = ?", user.ID).Pluck("id", &recipeIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
		// Run the full cascade as one transaction
		if err := db.DeleteUser(gdb, user.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Target user ID
				"error":   err.Error(), // Error message
			}).Error("Account delete failed")
			respondError(c, err, "Failed to delete account")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Deleted user ID
		}).Info("Account deleted")
		// Forget the user's presence entry
		if tracker != nil {
			tracker.Remove(user.ID)
		}
		// Invalidate every cache entry the cascade touched
		ctx := context.Background()
		for _, id := range recipeIDs {
			utils.InvalidateRecipe(ctx, rdb, id)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}

// GetUserProfileHandler returns a user's recipes with authors and comments.
// The profile view is public.
func GetUserProfileHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // Target user id from path
		var recipes []domain.Recipe // Slice to hold recipes
		if err := gdb.Preload("Author").Preload("Comments.Author").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&recipes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
			return
		}
		c.JSON(http.StatusOK, recipes) // Return the profile's recipes
	}
}

// ActiveUsersHandler reports the users seen in the last five minutes.
// Informational only; authorization never consults the tracker.
func ActiveUsersHandler(tracker *presence.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := tracker.Active(5 * time.Minute) // Recently active user ids
		c.JSON(http.StatusOK, gin.H{"count": len(ids), "user_ids": ids})
	}
}
