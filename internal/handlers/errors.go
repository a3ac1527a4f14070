package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hops-cache/internal/apperr"
)

// respondError writes {"error": code, "message": userMessage} with a status for the code
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := apperr.As(err)

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperr.CodeConfig, apperr.CodeServiceUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.CodeRateLimited:
		status = http.StatusTooManyRequests
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeNetwork:
		status = http.StatusBadGateway
	case apperr.CodePermissionDenied:
		status = http.StatusForbidden
	}

	logger.Error("request failed",
		zap.Error(err),
		zap.String("code", appErr.Code),
		zap.String("path", c.FullPath()),
		zap.Int("status_code", status))

	c.JSON(status, gin.H{
		"error":   appErr.Code,
		"message": appErr.UserMessage,
	})
}
