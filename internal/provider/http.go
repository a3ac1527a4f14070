package provider

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
)

const (
	FormatCatalog = "catalog"
	FormatPunk    = "punk"
)

// Config configuration for the HTTP beer provider
type Config struct {
	Format       string        `mapstructure:"format"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	APIKeyHeader string        `mapstructure:"api_key_header"`
	Host         string        `mapstructure:"host"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Format:       FormatCatalog,
		BaseURL:      "https://beer9.p.rapidapi.com",
		APIKeyHeader: "X-RapidAPI-Key",
		Host:         "beer9.p.rapidapi.com",
		Timeout:      8 * time.Second,
	}
}

// HTTPProvider implements Provider over the catalog or punk REST APIs
type HTTPProvider struct {
	config *Config
	client *http.Client
	logger *zap.Logger
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates an HTTPProvider. The client timeout bounds every call.
func NewHTTPProvider(config *Config, logger *zap.Logger) *HTTPProvider {
	if config == nil {
		config = DefaultConfig()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPProvider{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Search looks beers up by name
func (p *HTTPProvider) Search(ctx context.Context, query string) ([]RawBeer, error) {
	if p.config.Format == FormatPunk {
		return p.getPunk(ctx, "/beers", url.Values{"beer_name": {query}})
	}
	return p.getCatalog(ctx, "/", url.Values{"name": {query}})
}

// ByTerm resolves a style term, an identifier, or "random"
func (p *HTTPProvider) ByTerm(ctx context.Context, term string) ([]RawBeer, error) {
	if p.config.Format == FormatPunk {
		switch {
		case term == "random":
			return p.getPunk(ctx, "/beers/random", nil)
		case isNumeric(term):
			return p.getPunk(ctx, "/beers/"+term, nil)
		}
		return p.getPunk(ctx, "/beers", url.Values{"beer_name": {term}})
	}
	if term == "random" {
		return nil, errors.Wrap(ErrNotFound, "catalog has no random endpoint")
	}
	return p.getCatalog(ctx, "/", url.Values{"name": {term}})
}

func (p *HTTPProvider) getCatalog(ctx context.Context, path string, query url.Values) ([]RawBeer, error) {
	if strings.TrimSpace(p.config.APIKey) == "" {
		return nil, errors.Wrap(ErrConfig, "api key is not set")
	}

	body, err := p.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Code  int           `json:"code"`
		Error bool          `json:"error"`
		Data  []CatalogBeer `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "failed to decode catalog response")
	}

	raws := make([]RawBeer, len(envelope.Data))
	for i := range envelope.Data {
		raws[i] = RawBeer{Kind: KindCatalog, Catalog: &envelope.Data[i]}
	}
	return raws, nil
}

func (p *HTTPProvider) getPunk(ctx context.Context, path string, query url.Values) ([]RawBeer, error) {
	body, err := p.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var beers []PunkBeer
	if err := json.Unmarshal(body, &beers); err != nil {
		return nil, errors.Wrap(err, "failed to decode punk response")
	}

	raws := make([]RawBeer, len(beers))
	for i := range beers {
		raws[i] = RawBeer{Kind: KindPunk, Punk: &beers[i]}
	}
	return raws, nil
}

func (p *HTTPProvider) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := strings.TrimRight(p.config.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(ErrConfig, "bad provider url %q: %v", u, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set(p.config.APIKeyHeader, p.config.APIKey)
	}
	if p.config.Host != "" {
		req.Header.Set("X-RapidAPI-Host", p.config.Host)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "beer provider request failed")
	}
	defer resp.Body.Close()

	p.logger.Debug("beer provider responded",
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.Wrapf(ErrConfig, "credentials rejected with status %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read provider response")
	}
	return body, nil
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// String describes the provider for logs
func (p *HTTPProvider) String() string {
	return fmt.Sprintf("%s(%s)", p.config.Format, p.config.BaseURL)
}
