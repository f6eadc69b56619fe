package api

import (
	"errors"   // Error kind matching
	"net/http" // HTTP status codes

	"delishub/internal/apperr" // Error kinds

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// respondError maps an error kind to its transport-level status signal and
// writes a JSON error body. Every handler funnels store-layer errors through
// here so kinds and statuses stay aligned.
func respondError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError // Default for unclassified errors
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrAuthentication):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondLoadError distinguishes a missing row from a store failure when a
// handler loads a record by id. A missing row is the caller's problem; an
// unreachable store is not.
func respondLoadError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
}
