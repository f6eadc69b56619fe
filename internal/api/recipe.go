package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"delishub/internal/apperr"     // Error kinds
	"delishub/internal/authz"      // Ownership predicate
	"delishub/internal/db"         // Cascading deletes
	"delishub/internal/domain"     // Importing domain models
	"delishub/internal/middleware" // Resolved identity access
	"delishub/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for recipe creation and update
type RecipeRequest struct {
	Title       string   `json:"title" binding:"required"`       // Title must be provided
	Description *string  `json:"description"`                    // Description is optional
	Ingredients []string `json:"ingredients" binding:"required"` // Ordered ingredient list
	Steps       []string `json:"steps" binding:"required"`       // Ordered preparation steps
}

// CreateRecipeHandler creates a recipe owned by the authenticated user.
// Ownership is established here: the creator becomes the owner.
func CreateRecipeHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req RecipeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		recipe := domain.Recipe{
			Title:       req.Title,                      // Recipe title
			Description: req.Description,                // Optional description
			Ingredients: domain.StringList(req.Ingredients), // Ordered ingredients
			Steps:       domain.StringList(req.Steps),   // Ordered steps
			UserID:      user.ID,                        // Creator becomes the owner
		}
		// Attempt to create the recipe in the database
		if err := gdb.Create(&recipe).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,     // Owner user ID
				"error":   err.Error(), // Error message
			}).Error("Failed to create recipe")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
			return
		}
		// Log successful creation
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,   // Owner user ID
			"recipe_id": recipe.ID, // New recipe ID
		}).Info("Recipe created")
		// Invalidate cached list pages
		utils.InvalidateRecipeList(context.Background(), rdb)
		// Return the created recipe
		c.JSON(http.StatusCreated, recipe)
	}
}

// ListRecipesHandler returns all recipes, paginated and cached.
// Reads are public and ownership-independent.
func ListRecipesHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			// Convert page to integer
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			// Convert page_size to integer
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		offset := (page - 1) * pageSize // Calculate offset
		ctx := context.Background()     // Context for Redis operations
		cacheKey := utils.RecipeListKey(page, pageSize)
		var cached struct {
			Recipes    []domain.Recipe `json:"recipes"`     // Page of recipes
			Page       int             `json:"page"`        // Current page
			PageSize   int             `json:"page_size"`   // Page size
			Total      int64           `json:"total"`       // Total recipes
			TotalPages int             `json:"total_pages"` // Total pages
		}
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"recipes":     cached.Recipes,    // Cached recipes
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total recipes
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,
			})
			return
		}
		var total int64 // Total count of recipes
		if err := gdb.Model(&domain.Recipe{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count recipes"})
			return
		}
		var recipes []domain.Recipe // Slice to hold recipes
		// Fetch paginated recipes, newest first, with their authors
		if err := gdb.Preload("Author").
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&recipes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"recipes":     recipes,    // Page of recipes
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total recipes
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Not from cache
		}
		// Cache the result for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp) // Return the page
	}
}

// GetRecipeHandler returns a single recipe by id, with its author
func GetRecipeHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")                // Recipe id from path
		ctx := context.Background()        // Context for Redis operations
		cacheKey := utils.RecipeKey(id)    // Cache key for the recipe
		var recipe domain.Recipe           // Recipe struct to hold data
		found, err := utils.GetCache(ctx, rdb, cacheKey, &recipe)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"recipe": recipe, "cached": true})
			return
		}
		// If not in cache, fetch from DB with the author preloaded
		if err := gdb.Preload("Author").First(&recipe, "id = ?", id).Error; err != nil {
			respondLoadError(c, err, "Recipe not found")
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, recipe, 60*time.Second)  // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"recipe": recipe, "cached": false}) // Return the recipe
	}
}

// ListRecipesByUserHandler returns the recipes created by a given user,
// each with its author and comments
func ListRecipesByUserHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId") // Target user id from path
		var recipes []domain.Recipe // Slice to hold recipes
		if err := gdb.Preload("Author").Preload("Comments.Author").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&recipes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
			return
		}
		c.JSON(http.StatusOK, recipes) // Return the user's recipes
	}
}

// UpdateRecipeHandler mutates a recipe's content. Only the owner may update;
// a non-owner gets Forbidden, a missing recipe NotFound, and the two are
// never confused. Owner and id are immutable.
func UpdateRecipeHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req RecipeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		id := c.Param("id")      // Recipe id from path
		var recipe domain.Recipe // Load the target recipe
		if err := gdb.First(&recipe, "id = ?", id).Error; err != nil {
			respondLoadError(c, err, "Recipe not found")
			return
		}
		// The recipe exists but the caller does not own it
		if !authz.CanModify(&recipe, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to edit this recipe"})
			return
		}
		// Apply the content mutation; user_id stays untouched
		updates := map[string]any{
			"title":       req.Title,                           // New title
			"description": req.Description,                     // New description
			"ingredients": domain.StringList(req.Ingredients),  // New ingredient list
			"steps":       domain.StringList(req.Steps),        // New step list
		}
		if err := gdb.Model(&recipe).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,   // Owner user ID
			"recipe_id": recipe.ID, // Updated recipe ID
		}).Info("Recipe updated")
		// Invalidate the cached detail and list pages
		utils.InvalidateRecipe(context.Background(), rdb, recipe.ID)
		c.JSON(http.StatusOK, recipe) // Return the updated recipe
	}
}

// DeleteRecipeHandler deletes a recipe and cascades to its comments.
// Only the owner may delete.
func DeleteRecipeHandler(gdb *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		id := c.Param("id")      // Recipe id from path
		var recipe domain.Recipe // Load the target recipe
		if err := gdb.First(&recipe, "id = ?", id).Error; err != nil {
			respondLoadError(c, err, "Recipe not found")
			return
		}
		// The recipe exists but the caller does not own it
		if !authz.CanModify(&recipe, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to delete this recipe"})
			return
		}
		// Remove the recipe and all attached comments as one transaction
		if err := db.DeleteRecipe(gdb, recipe.ID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":   user.ID,     // Owner user ID
				"recipe_id": recipe.ID,   // Target recipe ID
				"error":     err.Error(), // Error message
			}).Error("Recipe delete failed")
			respondError(c, err, "Failed to delete recipe")
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,   // Owner user ID
			"recipe_id": recipe.ID, // Deleted recipe ID
		}).Info("Recipe deleted")
		// Invalidate every cache entry the cascade touched
		utils.InvalidateRecipe(context.Background(), rdb, recipe.ID)
		c.Status(http.StatusNoContent) // Deletion carries no body
	}
}

// CanModifyRecipeHandler is the preflight ownership check used by the UI.
// It applies the same CanModify predicate as the update and delete handlers.
func CanModifyRecipeHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var recipe domain.Recipe // Load the target recipe
		if err := gdb.First(&recipe, "id = ?", c.Param("id")).Error; err != nil {
			respondLoadError(c, err, "Recipe not found")
			return
		}
		// Same predicate as the mutating endpoints
		c.JSON(http.StatusOK, gin.H{"canModify": authz.CanModify(&recipe, user.ID)})
	}
}
