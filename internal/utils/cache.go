package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Integer to string conversion
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache key layout for the read paths that get hit hardest: recipe list
// pages, single recipes, and per-recipe comment lists. Writers invalidate
// through these same builders so keys never drift from readers.

// RecipeKey is the cache key for a single recipe
func RecipeKey(recipeID string) string {
	return "recipe:" + recipeID
}

// RecipeListKey is the cache key for one page of the public recipe list
func RecipeListKey(page, pageSize int) string {
	return "recipes:page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// CommentsKey is the cache key for a recipe's comment list
func CommentsKey(recipeID string) string {
	return "comments:recipe:" + recipeID
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// InvalidateRecipe drops the cached detail and comment list for a recipe
// together with the first list pages (simple version: first 5 pages)
func InvalidateRecipe(ctx context.Context, rdb *redis.Client, recipeID string) {
	_ = DeleteCache(ctx, rdb, RecipeKey(recipeID))   // Invalidate recipe detail cache
	_ = DeleteCache(ctx, rdb, CommentsKey(recipeID)) // Invalidate comment list cache
	InvalidateRecipeList(ctx, rdb)                   // Invalidate list pages
}

// InvalidateRecipeList drops the cached public recipe list pages
func InvalidateRecipeList(ctx context.Context, rdb *redis.Client) {
	for i := 1; i <= 5; i++ {
		// Delete cache entries for the default page size
		_ = DeleteCache(ctx, rdb, RecipeListKey(i, 20))
	}
}
