package middleware

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"delishub/internal/auth"     // Token verification
	"delishub/internal/domain"   // Importing domain models
	"delishub/internal/presence" // Activity tracking

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// currentUserKey is the gin context key holding the resolved user record
const currentUserKey = "currentUser"

// RequireAuth verifies the bearer token and resolves it to a live user record.
// The embedded user id is looked up against the users table on every request,
// so a token for a deleted user is rejected even when its signature and expiry
// are still valid, and downstream handlers never see stale token claims.
func RequireAuth(db *gorm.DB, tokens *auth.TokenService, tracker *presence.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		userID, err := tokens.Verify(tokenStr)                // Verify signature and expiry
		if err != nil {
			// If verification fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		var user domain.User // Fetch the live user record
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// The token's user no longer exists; the credential is invalid
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			// The store could not answer; the credential is not at fault
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
			return
		}
		if tracker != nil {
			tracker.Touch(user.ID) // Record activity; never consulted for authorization
		}
		c.Set(currentUserKey, &user) // Store the resolved user in context
		c.Next()                     // Proceed to the next handler
	}
}

// CurrentUser returns the resolved user attached by RequireAuth
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
