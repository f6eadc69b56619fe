package auth

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library

	"delishub/internal/apperr" // Error kinds
)

// Claims embeds the user id alongside the standard JWT claims
type Claims struct {
	UserID               string `json:"user_id"` // Custom claim for user ID
	jwt.RegisteredClaims        // Standard JWT claims
}

// TokenService issues and verifies signed session tokens. It holds only the
// signing secret and validity window set at startup, so it is safe for
// concurrent use by any number of callers.
type TokenService struct {
	secret []byte        // HMAC signing secret
	ttl    time.Duration // Validity window for issued tokens
}

// NewTokenService builds a TokenService with the given secret and validity window
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour // Default validity window
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token embedding the user id, expiring after the
// configured validity window.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),            // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(s.secret)                        // Sign the token with the secret
}

// Verify parses a token string and returns the embedded user id. Any failure
// (bad signature, malformed token, expiry) yields apperr.ErrAuthentication;
// verification never panics into caller logic.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil // Return the secret key for validation
	})
	if err != nil {
		return "", apperr.Wrap(apperr.ErrAuthentication, err)
	}
	if !token.Valid {
		return "", apperr.ErrAuthentication
	}
	return claims.UserID, nil
}
