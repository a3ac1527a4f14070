package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hops-cache/pkg/models"
)

// BeerService is the lookup surface the beer routes need
type BeerService interface {
	Search(ctx context.Context, query string) ([]models.Beer, error)
	RandomBeer(ctx context.Context) (*models.Beer, error)
	BeerByID(ctx context.Context, id string) (*models.Beer, error)
	Browse(ctx context.Context, page, perPage int) ([]models.Beer, error)
	PopularSearches(ctx context.Context, limit int) []string
}

// BeerHandler handles the beer lookup routes
type BeerHandler struct {
	service BeerService
	logger  *zap.Logger
}

// NewBeerHandler creates a new handler
func NewBeerHandler(service BeerService, logger *zap.Logger) *BeerHandler {
	return &BeerHandler{
		service: service,
		logger:  logger,
	}
}

// Search maneja GET /beers/search?q=
func (h *BeerHandler) Search(c *gin.Context) {
	query := c.Query("q")

	beers, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"count": len(beers),
		"beers": beers,
	})
}

// Random maneja GET /beers/random
func (h *BeerHandler) Random(c *gin.Context) {
	beer, err := h.service.RandomBeer(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if beer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no beer available"})
		return
	}

	c.JSON(http.StatusOK, beer)
}

// Get maneja GET /beers/:id
func (h *BeerHandler) Get(c *gin.Context) {
	id := c.Param("id")

	beer, err := h.service.BeerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if beer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "beer not found"})
		return
	}

	c.JSON(http.StatusOK, beer)
}

// Browse maneja GET /beers?page=&per_page=
func (h *BeerHandler) Browse(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	perPage, err := queryInt(c, "per_page", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid per_page"})
		return
	}

	beers, err := h.service.Browse(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":  page,
		"count": len(beers),
		"beers": beers,
	})
}

// Popular maneja GET /beers/popular?limit=
func (h *BeerHandler) Popular(c *gin.Context) {
	limit, err := queryInt(c, "limit", 10)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	terms := h.service.PopularSearches(c.Request.Context(), limit)
	c.JSON(http.StatusOK, gin.H{
		"count": len(terms),
		"terms": terms,
	})
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func queryFloat(c *gin.Context, name string) (float64, error) {
	return strconv.ParseFloat(c.Query(name), 64)
}
