// Package places finds pubs near a coordinate through the Google Places web service.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hops-cache/pkg/models"
)

var (
	// ErrConfig is returned when the api key is missing or rejected
	ErrConfig = errors.New("places: not configured")

	// ErrNotFound is returned by Details for unknown place ids
	ErrNotFound = errors.New("places: not found")

	// ErrRateLimited is returned when the quota is exhausted
	ErrRateLimited = errors.New("places: over query limit")
)

const detailFields = "place_id,name,formatted_address,geometry,rating,photos,opening_hours"

// Client is the places backend
type Client interface {
	Nearby(ctx context.Context, lat, lng float64, radius int) ([]models.Place, error)
	Details(ctx context.Context, placeID string) (*models.Place, error)
}

// Config configuration for the places client and service
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	DefaultRadius int           `mapstructure:"default_radius"`
	Keyword       string        `mapstructure:"keyword"`
	PlaceType     string        `mapstructure:"place_type"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://maps.googleapis.com/maps/api/place",
		Timeout:       8 * time.Second,
		DefaultRadius: 5000,
		Keyword:       "pub",
		PlaceType:     "bar",
	}
}

type placeResult struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formatted_address"`
	Vicinity         string  `json:"vicinity"`
	Rating           float64 `json:"rating"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
	OpeningHours *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours"`
}

func (r placeResult) toPlace() models.Place {
	place := models.Place{
		ID:               r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
		Rating:           r.Rating,
	}
	if place.FormattedAddress == "" {
		place.FormattedAddress = r.Vicinity
	}
	if r.OpeningHours != nil {
		open := r.OpeningHours.OpenNow
		place.OpenNow = &open
	}
	for _, photo := range r.Photos {
		if photo.PhotoReference != "" {
			place.Photos = append(place.Photos, photo.PhotoReference)
		}
	}
	return place
}

// HTTPClient implements Client against the places JSON endpoints
type HTTPClient struct {
	config *Config
	client *http.Client
	logger *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient
func NewHTTPClient(config *Config, logger *zap.Logger) *HTTPClient {
	if config == nil {
		config = DefaultConfig()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPClient{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Nearby searches for pubs within radius meters of the coordinate
func (c *HTTPClient) Nearby(ctx context.Context, lat, lng float64, radius int) ([]models.Place, error) {
	query := url.Values{
		"location": {fmt.Sprintf("%f,%f", lat, lng)},
		"radius":   {strconv.Itoa(radius)},
	}
	if c.config.PlaceType != "" {
		query.Set("type", c.config.PlaceType)
	}
	if c.config.Keyword != "" {
		query.Set("keyword", c.config.Keyword)
	}

	var resp struct {
		Status       string        `json:"status"`
		ErrorMessage string        `json:"error_message"`
		Results      []placeResult `json:"results"`
	}
	if err := c.get(ctx, "/nearbysearch/json", query, &resp); err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}

	places := make([]models.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, r.toPlace())
	}
	return places, nil
}

// Details fetches a single place
func (c *HTTPClient) Details(ctx context.Context, placeID string) (*models.Place, error) {
	query := url.Values{
		"place_id": {placeID},
		"fields":   {detailFields},
	}

	var resp struct {
		Status       string       `json:"status"`
		ErrorMessage string       `json:"error_message"`
		Result       *placeResult `json:"result"`
	}
	if err := c.get(ctx, "/details/json", query, &resp); err != nil {
		return nil, err
	}
	if err := statusError(resp.Status, resp.ErrorMessage); err != nil {
		return nil, err
	}
	if resp.Result == nil {
		return nil, ErrNotFound
	}

	place := resp.Result.toPlace()
	if place.ID == "" {
		place.ID = placeID
	}
	return &place, nil
}

// Photo is image bytes fetched on behalf of a caller
type Photo struct {
	ContentType string
	Data        []byte
}

const maxPhotoBytes = 10 << 20

// Photo downloads the image for a photo reference. The api key stays on this side;
// callers only ever see the bytes. Zero dimensions are omitted.
func (c *HTTPClient) Photo(ctx context.Context, reference string, maxWidth, maxHeight int) (*Photo, error) {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return nil, errors.Wrap(ErrConfig, "api key is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.photoURL(reference, maxWidth, maxHeight), nil)
	if err != nil {
		return nil, errors.Wrap(ErrConfig, "bad places photo url")
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		// the url carries the key, keep it out of the error
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, errors.Wrap(err, "places photo request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.Wrapf(ErrConfig, "photo request rejected with status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.Errorf("places: unexpected photo status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read places photo")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &Photo{ContentType: contentType, Data: data}, nil
}

func (c *HTTPClient) photoURL(reference string, maxWidth, maxHeight int) string {
	query := url.Values{
		"photo_reference": {reference},
		"key":             {c.config.APIKey},
	}
	if maxWidth > 0 {
		query.Set("maxwidth", strconv.Itoa(maxWidth))
	}
	if maxHeight > 0 {
		query.Set("maxheight", strconv.Itoa(maxHeight))
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/photo?" + query.Encode()
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, dst any) error {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return errors.Wrap(ErrConfig, "api key is not set")
	}
	query.Set("key", c.config.APIKey)

	u := strings.TrimRight(c.config.BaseURL, "/") + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrapf(ErrConfig, "bad places url: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return errors.Wrap(err, "places request failed")
	}
	defer resp.Body.Close()

	c.logger.Debug("places responded",
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("places: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return errors.Wrap(err, "failed to read places response")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errors.Wrap(err, "failed to decode places response")
	}
	return nil
}

// statusError maps the body status field. ZERO_RESULTS is a successful empty answer.
func statusError(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS":
		return nil
	case "REQUEST_DENIED":
		return errors.Wrap(ErrConfig, message)
	case "OVER_QUERY_LIMIT":
		return ErrRateLimited
	case "NOT_FOUND", "INVALID_REQUEST":
		return errors.Wrap(ErrNotFound, status)
	default:
		return errors.Errorf("places: status %s %s", status, message)
	}
}
