package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hops-cache/internal/places"
	"hops-cache/pkg/models"
)

// PlacesService is the nearby-pub surface
type PlacesService interface {
	NearbyPubs(ctx context.Context, lat, lng float64, radius int) ([]models.Place, error)
	PlaceDetails(ctx context.Context, placeID string) (*models.Place, error)
	Photo(ctx context.Context, reference string, maxWidth, maxHeight int) (*places.Photo, error)
}

// PlacesHandler handles the places routes
type PlacesHandler struct {
	service PlacesService
	logger  *zap.Logger
}

// NewPlacesHandler creates a new handler
func NewPlacesHandler(service PlacesService, logger *zap.Logger) *PlacesHandler {
	return &PlacesHandler{
		service: service,
		logger:  logger,
	}
}

// Nearby maneja GET /places/nearby?lat=&lng=&radius=
func (h *PlacesHandler) Nearby(c *gin.Context) {
	lat, errLat := queryFloat(c, "lat")
	lng, errLng := queryFloat(c, "lng")
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	radius, err := queryInt(c, "radius", 0)
	if err != nil || radius < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius"})
		return
	}

	pubs, err := h.service.NearbyPubs(c.Request.Context(), lat, lng, radius)
	if errors.Is(err, places.ErrInvalidCoordinates) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(pubs),
		"places": pubs,
	})
}

// Details maneja GET /places/:id
func (h *PlacesHandler) Details(c *gin.Context) {
	place, err := h.service.PlaceDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if place == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	c.JSON(http.StatusOK, place)
}

// Photo maneja GET /places/photo?ref=&w=&h= and serves the image bytes
func (h *PlacesHandler) Photo(c *gin.Context) {
	ref := c.Query("ref")
	width, errW := queryInt(c, "w", 400)
	height, errH := queryInt(c, "h", 0)
	if ref == "" || errW != nil || errH != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ref is required"})
		return
	}

	photo, err := h.service.Photo(c.Request.Context(), ref, width, height)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if photo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "photo not available"})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, photo.ContentType, photo.Data)
}
