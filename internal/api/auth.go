package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation
	"unicode"  // Character class checks

	"delishub/internal/auth"       // Credential hashing and token issuing
	"delishub/internal/domain"     // Importing domain models
	"delishub/internal/middleware" // Resolved identity access

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library

	"github.com/sirupsen/logrus" // Logging library
)

// Request struct for registration
type RegisterRequest struct {
	Username string  `json:"username" binding:"required"` // Username must be provided
	Email    string  `json:"email" binding:"required"`    // Email must be provided
	Password string  `json:"password" binding:"required"` // Password must be provided
	Avatar   *string `json:"avatar"`                      // Avatar path is optional
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Response struct for login
type AuthResponse struct {
	Token string       `json:"token"` // JWT token
	User  *domain.User `json:"user"`  // Authenticated user
}

// emailPattern matches a syntactically plausible email address
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// isValidEmail checks the email format
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isValidPassword enforces the acceptance policy: minimum length 8,
// at least one letter and at least one digit
func isValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		// Validate email format
		if !isValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		// Validate password policy
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters with a letter and a digit"})
			return
		}
		// Emails are matched case-insensitively
		email := strings.ToLower(req.Email)
		// Reject an already-registered email before hashing
		var existing domain.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		// Hash the password; the plaintext is never stored or logged
		hash, err := auth.HashPassword(req.Password, bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:     req.Username, // Unique username
			Email:        email,        // Unique email
			PasswordHash: hash,         // Salted hash only
			Avatar:       req.Avatar,   // Optional avatar path
		}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Creation fails on duplicate username or email
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists"})
			return
		}
		// Log registration without any credential material
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // New username
		}).Info("User registered")
		// Return the created user; the password hash is json-hidden
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": user})
	}
}

// LoginHandler authenticates a user and returns a session token
func LoginHandler(db *gorm.DB, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Validate email format before touching the store
		if !isValidEmail(req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No account for this email
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
			return
		}
		// Compare provided password with stored hash
		if !auth.CheckPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Issue a session token embedding the user id
		token, err := tokens.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID, // Authenticated user ID
		}).Info("User logged in")
		// Return the token and the user record
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: &user})
	}
}

// MeHandler returns the authenticated user's live record
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusOK, user) // Return the live user record
	}
}

// Request struct for avatar update
type UpdateAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"` // Stored avatar path must be provided
}

// UpdateAvatarHandler updates the authenticated user's avatar path.
// The upload itself is handled by external file storage; this endpoint
// records the resulting path.
func UpdateAvatarHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Resolved identity from middleware
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateAvatarRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No avatar path provided"})
			return
		}
		// Persist the new avatar path
		if err := db.Model(user).Update("avatar", req.Avatar).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update avatar"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"avatar": req.Avatar}) // Return the stored path
	}
}
