package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hops-cache/internal/budget"
	"hops-cache/internal/cache"
)

// AdminService is the maintenance surface
type AdminService interface {
	CacheStats(ctx context.Context) cache.Stats
	ClearCache(ctx context.Context)
	BudgetStatus(ctx context.Context) budget.Status
	Prewarm(ctx context.Context, limit int) (int, error)
}

// AdminHandler handles cache and budget maintenance routes
type AdminHandler struct {
	service AdminService
	logger  *zap.Logger
}

// NewAdminHandler creates a new handler
func NewAdminHandler(service AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// CacheStats maneja GET /admin/cache/stats
func (h *AdminHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CacheStats(c.Request.Context()))
}

// ClearCache maneja DELETE /admin/cache
func (h *AdminHandler) ClearCache(c *gin.Context) {
	h.service.ClearCache(c.Request.Context())
	h.logger.Info("local cache cleared via API")
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared successfully"})
}

// Budget maneja GET /admin/budget
func (h *AdminHandler) Budget(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.BudgetStatus(c.Request.Context()))
}

// Prewarm maneja POST /admin/prewarm?limit=
func (h *AdminHandler) Prewarm(c *gin.Context) {
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	warmed, err := h.service.Prewarm(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"warmed": warmed})
}

// Health maneja GET /health
func (h *AdminHandler) Health(c *gin.Context) {
	stats := h.service.CacheStats(c.Request.Context())
	status := h.service.BudgetStatus(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"timestamp":        time.Now(),
		"cached_items":     stats.TotalItems,
		"budget_remaining": status.Remaining,
	})
}
