package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"hops-cache/internal/budget"
	"hops-cache/internal/cache"
	"hops-cache/internal/kv"
	"hops-cache/internal/places"
	"hops-cache/internal/provider"
	"hops-cache/internal/search"
)

// Config estructura de configuración principal
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Logger   LoggerConfig    `mapstructure:"logger"`
	Redis    kv.RedisConfig  `mapstructure:"redis"`
	Local    cache.Config    `mapstructure:"local"`
	Shared   SharedConfig    `mapstructure:"shared"`
	Budget   budget.Config   `mapstructure:"budget"`
	Provider provider.Config `mapstructure:"beer_provider"`
	Places   places.Config   `mapstructure:"places"`
	Search   search.Config   `mapstructure:"search"`
}

// ServerConfig configuración del servidor HTTP
type ServerConfig struct {
	Host         string          `mapstructure:"host"`
	Port         int             `mapstructure:"port"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration   `mapstructure:"idle_timeout"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
	// TrustedProxies lists peers whose forwarded headers name the client IP.
	// Empty means forwarded headers are ignored.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// RateLimitConfig limits inbound requests per client IP. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// LoggerConfig configuración del logger
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// SharedConfig selects the document store behind the shared cache
type SharedConfig struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoadConfig carga la configuración desde archivos de configuración y variables de entorno
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile is LoadConfig with an explicit file. An empty path searches the
// default locations.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hops-cache")
	}

	// Variables de entorno: HOPS_BEER_PROVIDER_API_KEY -> beer_provider.api_key
	v.SetEnvPrefix("HOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Sin archivo se usan los valores por defecto
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// HOPS_REDIS_ADDRESSES llega como string separada por comas
	if addressesStr := v.GetString("redis.addresses"); addressesStr != "" && strings.Contains(addressesStr, ",") {
		addresses := strings.Split(addressesStr, ",")
		for i, addr := range addresses {
			addresses[i] = strings.TrimSpace(addr)
		}
		config.Redis.Addresses = addresses
	}

	// the search tier borrows timings from the sections that own them
	config.Search.ProviderTimeout = config.Provider.Timeout
	config.Search.BeerTTL = config.Local.BeerTTL

	return &config, nil
}

// setDefaults establece los valores por defecto
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.rate_limit.rps", 20)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("server.trusted_proxies", []string{})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output_path", "stdout")

	// Redis defaults - localhost para desarrollo local
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_timeout", "4s")

	// Local cache defaults
	v.SetDefault("local.driver", "sqlite")
	v.SetDefault("local.sqlite_path", "hops-cache.db")
	v.SetDefault("local.prefix", cache.DefaultPrefix)
	v.SetDefault("local.beer_ttl", cache.BeerTTL.String())
	v.SetDefault("local.places_ttl", cache.PlacesTTL.String())

	// Shared cache defaults
	v.SetDefault("shared.driver", "memory")
	v.SetDefault("shared.key_prefix", "hops:")

	// Budget defaults
	v.SetDefault("budget.monthly_limit", budget.DefaultMonthlyLimit)
	v.SetDefault("budget.count_key", "beer_api_request_count")
	v.SetDefault("budget.period_key", "beer_api_request_period")

	// Beer provider defaults
	v.SetDefault("beer_provider.format", provider.FormatCatalog)
	v.SetDefault("beer_provider.base_url", "https://beer9.p.rapidapi.com")
	v.SetDefault("beer_provider.api_key", "")
	v.SetDefault("beer_provider.api_key_header", "X-RapidAPI-Key")
	v.SetDefault("beer_provider.host", "beer9.p.rapidapi.com")
	v.SetDefault("beer_provider.timeout", "8s")

	// Places defaults
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place")
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.timeout", "8s")
	v.SetDefault("places.default_radius", 5000)
	v.SetDefault("places.keyword", "pub")
	v.SetDefault("places.place_type", "bar")

	// Search defaults
	v.SetDefault("search.browse_term", "ale")
	v.SetDefault("search.prewarm", false)
	v.SetDefault("search.prewarm_limit", 10)
}

// GetAddress devuelve la dirección completa del servidor
func (sc *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", sc.Host, sc.Port)
}
