// Package provider talks to the external beer data source and turns its responses into
// models.Beer.
package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"hops-cache/internal/apperr"
	"hops-cache/pkg/models"
)

var (
	// ErrNotFound is returned when the provider has nothing for the query
	ErrNotFound = errors.New("beer provider: not found")

	// ErrRateLimited is returned when the provider throttles us
	ErrRateLimited = errors.New("beer provider: rate limited")

	// ErrConfig is returned for missing or rejected credentials. It is not transient.
	ErrConfig = errors.New("beer provider: not configured")
)

// StatusError is any other non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("beer provider: unexpected status %d %s", e.StatusCode, e.Status)
}

// Provider is the external beer source
type Provider interface {
	Search(ctx context.Context, query string) ([]RawBeer, error)
	ByTerm(ctx context.Context, term string) ([]RawBeer, error)
}

// Kind tags which provider shape a RawBeer carries
type Kind int

const (
	KindCatalog Kind = iota + 1
	KindPunk
)

// CatalogBeer is the catalog API shape: string ABV with a percent sign, comma separated
// food pairings.
type CatalogBeer struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	SubCategory1 string `json:"sub_category_1"`
	SubCategory2 string `json:"sub_category_2"`
	SubCategory3 string `json:"sub_category_3"`
	Description  string `json:"description"`
	ABV          string `json:"abv"`
	IBU          string `json:"ibu"`
	FoodPairing  string `json:"food_pairing"`
	Brewery      string `json:"brewery"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	ImageURL     string `json:"image_url"`
}

// PunkBeer is the older punk API shape with numeric fields
type PunkBeer struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline"`
	FirstBrewed string   `json:"first_brewed"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	ABV         float64  `json:"abv"`
	IBU         float64  `json:"ibu"`
	FoodPairing []string `json:"food_pairing"`
}

// RawBeer is a provider record before transformation. Exactly one of Catalog or Punk is
// set, matching Kind.
type RawBeer struct {
	Kind    Kind
	Catalog *CatalogBeer
	Punk    *PunkBeer
}

// Transform is the only place provider field quirks are handled
func Transform(raw RawBeer) (models.Beer, bool) {
	switch raw.Kind {
	case KindCatalog:
		if raw.Catalog == nil {
			return models.Beer{}, false
		}
		c := raw.Catalog
		return models.Beer{
			ID:          c.SKU,
			Name:        strings.TrimSpace(c.Name),
			Tagline:     firstNonEmpty(c.SubCategory3, c.SubCategory2, c.SubCategory1),
			Description: c.Description,
			ImageURL:    c.ImageURL,
			ABV:         parseNumber(c.ABV),
			IBU:         parseNumber(c.IBU),
			FoodPairing: splitList(c.FoodPairing),
			Brewery:     c.Brewery,
			Region:      firstNonEmpty(c.Region, c.Country),
		}, true
	case KindPunk:
		if raw.Punk == nil {
			return models.Beer{}, false
		}
		p := raw.Punk
		pairing := p.FoodPairing
		if pairing == nil {
			pairing = []string{}
		}
		return models.Beer{
			ID:          strconv.Itoa(p.ID),
			Name:        strings.TrimSpace(p.Name),
			Tagline:     p.Tagline,
			FirstBrewed: p.FirstBrewed,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			ABV:         p.ABV,
			IBU:         p.IBU,
			FoodPairing: pairing,
		}, true
	}
	return models.Beer{}, false
}

// TransformAll transforms raws, dropping records that carry no usable shape or name
func TransformAll(raws []RawBeer) []models.Beer {
	out := make([]models.Beer, 0, len(raws))
	for _, raw := range raws {
		beer, ok := Transform(raw)
		if !ok || beer.Name == "" {
			continue
		}
		out = append(out, beer)
	}
	return out
}

// AsAppError classifies a provider error for callers outside the core
func AsAppError(err error) *apperr.AppError {
	if err == nil {
		return nil
	}

	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrConfig):
		return apperr.Config(err.Error(), err)
	case errors.Is(err, ErrNotFound):
		return apperr.New(apperr.CodeNotFound, err.Error(), "The service is currently unavailable.", err)
	case errors.Is(err, ErrRateLimited):
		return apperr.New(apperr.CodeRateLimited, err.Error(), "Too many requests. Please try again later.", err)
	case errors.As(err, &statusErr):
		return apperr.New(apperr.CodeAPI, err.Error(), "Failed to fetch data. Please try again.", err)
	}
	return apperr.As(err)
}

// parseNumber reads values like "6.5%", " 60 " or "n/a" (which becomes 0)
func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
