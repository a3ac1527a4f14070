package places

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hops-cache/internal/apperr"
	"hops-cache/internal/cache"
	"hops-cache/internal/geo"
	"hops-cache/pkg/models"
)

// ErrInvalidCoordinates is returned for latitudes or longitudes out of range
var ErrInvalidCoordinates = errors.New("places: coordinates out of range")

// Service answers nearby-pub queries from the local cache, then the places backend
type Service struct {
	client Client
	local  *cache.LocalCache
	ttl    time.Duration
	radius int
	logger *zap.Logger
}

// NewService creates a Service. ttl 0 means cache.PlacesTTL.
func NewService(client Client, local *cache.LocalCache, config *Config, ttl time.Duration, logger *zap.Logger) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if ttl <= 0 {
		ttl = cache.PlacesTTL
	}
	radius := config.DefaultRadius
	if radius <= 0 {
		radius = 5000
	}
	return &Service{
		client: client,
		local:  local,
		ttl:    ttl,
		radius: radius,
		logger: logger,
	}
}

// NearbyPubs returns pubs within radius meters ordered by distance. radius 0 uses the
// configured default. Backend failures other than configuration give an empty list.
func (s *Service) NearbyPubs(ctx context.Context, lat, lng float64, radius int) ([]models.Place, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidCoordinates
	}
	if radius <= 0 {
		radius = s.radius
	}

	key := nearbyKey(lat, lng, radius)
	var cached []models.Place
	if s.local.Get(ctx, key, s.ttl, &cached) {
		return cached, nil
	}

	found, err := s.client.Nearby(ctx, lat, lng, radius)
	if err != nil {
		if errors.Is(err, ErrConfig) {
			return nil, apperr.Config("places api key missing or rejected", err)
		}
		s.logger.Warn("nearby search failed", zap.Error(err), zap.String("key", key))
		return []models.Place{}, nil
	}

	for i := range found {
		found[i].DistanceMiles = geo.Distance(lat, lng, found[i].Latitude, found[i].Longitude, geo.Miles)
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DistanceMiles < found[j].DistanceMiles
	})

	s.local.Set(ctx, key, found)
	return found, nil
}

// PlaceDetails returns a single place, or nil when it is unknown or the backend failed
func (s *Service) PlaceDetails(ctx context.Context, placeID string) (*models.Place, error) {
	if placeID == "" {
		return nil, nil
	}

	key := "place_details_" + placeID
	var cached models.Place
	if s.local.Get(ctx, key, s.ttl, &cached) {
		return &cached, nil
	}

	place, err := s.client.Details(ctx, placeID)
	switch {
	case errors.Is(err, ErrConfig):
		return nil, apperr.Config("places api key missing or rejected", err)
	case errors.Is(err, ErrNotFound):
		return nil, nil
	case err != nil:
		s.logger.Warn("place details failed", zap.Error(err), zap.String("place_id", placeID))
		return nil, nil
	}

	s.local.Set(ctx, key, place)
	return place, nil
}

// nearbyKey rounds to about 100m so nearby requests share an entry
func nearbyKey(lat, lng float64, radius int) string {
	return fmt.Sprintf("places_nearby_%.3f_%.3f_%d", lat, lng, radius)
}

type photoFetcher interface {
	Photo(ctx context.Context, reference string, maxWidth, maxHeight int) (*Photo, error)
}

// Photo fetches the image for a photo reference, or nil when the backend cannot serve
// photos or does not know the reference
func (s *Service) Photo(ctx context.Context, reference string, maxWidth, maxHeight int) (*Photo, error) {
	fetcher, ok := s.client.(photoFetcher)
	if !ok || reference == "" {
		return nil, nil
	}

	photo, err := fetcher.Photo(ctx, reference, maxWidth, maxHeight)
	switch {
	case errors.Is(err, ErrConfig):
		return nil, apperr.Config("places api key missing or rejected", err)
	case errors.Is(err, ErrNotFound):
		return nil, nil
	case err != nil:
		s.logger.Warn("place photo failed", zap.Error(err))
		return nil, nil
	}
	return photo, nil
}
