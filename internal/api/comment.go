package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Time durations

	"delishub/internal/apperr"     // Error kinds
	"delishub/internal/authz"      // Ownership predicate
	"delishub/internal/db"         // Comment creation with existence check
	"delishub/internal/domain"     // Importing domain models
	"delishub/internal/middleware" // Resolved identity access
	"delishub/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for comment creation
type CreateCommentRequest struct {
	RecipeID string `json:"recipeId" binding:"required"` // Target recipe must be provided
	Content  string `json:"content" binding:"required"`  // Comment text must be provided
}

// Request struct for comment update
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"` // Comment text must be provided
}

// CreateCommentHandler creates a comment on an existing recipe. Any
// authenticated user may comment; the recipe must exist at the instant of
// creation or the request fails with NotFound.
func CreateCommentHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			// If binding fails or the text is blank, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: recipeId or content"})
			return
		}
		comment := domain.Comment{
			Content:  req.Content,  // Comment text
			UserID:   user.ID,      // Author becomes the owner
			RecipeID: req.RecipeID, // Target recipe
		}
		// Existence check and insert run in one transaction
		if err := db.CreateComment(gdb, &comment); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				// The referenced recipe does not exist
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":   user.ID,      // Author user ID
				"recipe_id": req.RecipeID, // Target recipe ID
				"error":     err.Error(),  // Error message
			}).Error("Failed to create comment")
			respondError(c, err, "Failed to create comment")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,      // Author user ID
			"recipe_id":  req.RecipeID, // Target recipe ID
			"comment_id": comment.ID,   // New comment ID
		}).Info("Comment created")
		// Invalidate the recipe's cached comment list
		_ = utils.DeleteCache(context.Background(), rdb, utils.CommentsKey(req.RecipeID))
		// Return the created comment
		c.JSON(http.StatusCreated, gin.H{"message": "Comment created successfully", "comment": comment})
	}
}

// ListCommentsByRecipeHandler returns a recipe's comments, newest first, with
// their authors. Reads are public and ownership-independent.
func ListCommentsByRecipeHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		recipeID := c.Param("id")                    // Target recipe id from path
		ctx := context.Background()                  // Context for Redis operations
		cacheKey := utils.CommentsKey(recipeID)      // Cache key for the comment list
		var comments []domain.Comment                // Slice to hold comments
		found, err := utils.GetCache(ctx, rdb, cacheKey, &comments)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"count": len(comments), "comments": comments, "cached": true})
			return
		}
		// If not in cache, fetch from DB with authors preloaded
		if err := gdb.Preload("Author").
			Where("recipe_id = ?", recipeID).
			Order("created_at desc").
			Find(&comments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, comments, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"count": len(comments), "comments": comments, "cached": false})
	}
}

// UpdateCommentHandler mutates a comment's text. Only the author may update;
// a non-owner gets Forbidden, a missing comment NotFound.
func UpdateCommentHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
			return
		}
		var comment domain.Comment // Load the target comment
		if err := gdb.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
			respondLoadError(c, err, "Comment not found")
			return
		}
		// The comment exists but the caller does not own it
		if !authz.CanModify(&comment, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to edit this comment"})
			return
		}
		// Apply the content mutation; owner and recipe refs stay untouched
		if err := gdb.Model(&comment).Update("content", req.Content).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Author user ID
			"comment_id": comment.ID, // Updated comment ID
		}).Info("Comment updated")
		// Invalidate the recipe's cached comment list
		_ = utils.DeleteCache(context.Background(), rdb, utils.CommentsKey(comment.RecipeID))
		c.JSON(http.StatusOK, gin.H{"message": "Comment updated successfully", "comment": comment})
	}
}

// DeleteCommentHandler removes a comment. Only the author may delete.
func DeleteCommentHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var comment domain.Comment // Load the target comment
		if err := gdb.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
			respondLoadError(c, err, "Comment not found")
			return
		}
		// The comment exists but the caller does not own it
		if !authz.CanModify(&comment, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this comment"})
			return
		}
		// Remove the comment
		if err := gdb.Delete(&comment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,    // Author user ID
			"comment_id": comment.ID, // Deleted comment ID
		}).Info("Comment deleted")
		// Invalidate the recipe's cached comment list
		_ = utils.DeleteCache(context.Background(), rdb, utils.CommentsKey(comment.RecipeID))
		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
	}
}

// CanModifyCommentHandler is the preflight ownership check used by the UI.
// It applies the same CanModify predicate as the update and delete handlers.
func CanModifyCommentHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var comment domain.Comment // Load the target comment
		if err := gdb.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
			respondLoadError(c, err, "Comment not found")
			return
		}
		// Same predicate as the mutating endpoints
		c.JSON(http.StatusOK, gin.H{"canModify": authz.CanModify(&comment, user.ID)})
	}
}
