// Package cache implements the on-device, TTL based cache tier.
package cache

import (
	"time"
)

const (
	// DefaultPrefix namespaces every cache key inside the shared key-value store
	DefaultPrefix = "hops_pins_cache_"

	// BeerTTL is long, beer metadata rarely changes
	BeerTTL = 30 * 24 * time.Hour

	// PlacesTTL is shorter, venues open, close and get re-rated
	PlacesTTL = 7 * 24 * time.Hour
)

// Config configuration for the local cache
type Config struct {
	Driver     string        `mapstructure:"driver"`
	SQLitePath string        `mapstructure:"sqlite_path"`
	Prefix     string        `mapstructure:"prefix"`
	BeerTTL    time.Duration `mapstructure:"beer_ttl"`
	PlacesTTL  time.Duration `mapstructure:"places_ttl"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Driver:     "sqlite",
		SQLitePath: "hops-cache.db",
		Prefix:     DefaultPrefix,
		BeerTTL:    BeerTTL,
		PlacesTTL:  PlacesTTL,
	}
}

// Stats is a snapshot of the local cache
type Stats struct {
	TotalItems int `json:"totalItems"`
}
