package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/apperr"
)

// respondError maps workflow errors onto HTTP responses. Validation and
// authorization failures carry structured detail; everything else is an
// opaque server error.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Fields})
		return
	}
	if errors.Is(err, apperr.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Access denied"})
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
