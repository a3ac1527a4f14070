// Package app wires the stores, caches and services described by a Config.
package app

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	gormsqlite "github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hops-cache/internal/budget"
	"hops-cache/internal/cache"
	"hops-cache/internal/config"
	"hops-cache/internal/docstore"
	"hops-cache/internal/fallback"
	"hops-cache/internal/kv"
	"hops-cache/internal/metrics"
	"hops-cache/internal/places"
	"hops-cache/internal/provider"
	"hops-cache/internal/search"
	"hops-cache/internal/shared"
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// App holds the wired services
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Local    *cache.LocalCache
	Shared   *shared.Cache
	Budget   *budget.Tracker
	Search   *search.Service
	Places   *places.Service
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	closers []io.Closer
}

type options struct {
	clock        clock.Clock
	provider     provider.Provider
	placesClient places.Client
	rand         *rand.Rand
}

// Option overrides a dependency Build would otherwise create from config
type Option func(*options)

// WithClock sets the clock used by the caches and the budget
func WithClock(clk clock.Clock) Option {
	return func(o *options) { o.clock = clk }
}

// WithProvider replaces the HTTP beer provider
func WithProvider(p provider.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithPlacesClient replaces the HTTP places client
func WithPlacesClient(c places.Client) Option {
	return func(o *options) { o.placesClient = c }
}

// WithRand seeds random beer selection
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rand = rng }
}

// Build creates every store and service. Close releases them.
func Build(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := &options{clock: clock.New()}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg, Logger: logger}

	var redisClient redis.UniversalClient
	needRedis := cfg.Local.Driver == DriverRedis || cfg.Shared.Driver == DriverRedis
	if needRedis {
		client, err := kv.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisClient = client
		a.closers = append(a.closers, client)
	}

	store, err := newKVStore(cfg, redisClient, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, store)

	docs, err := newDocStore(cfg, redisClient, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Local = cache.NewLocalCache(store, &cfg.Local, o.clock, logger.Named("local"))
	a.Shared = shared.NewCache(docs, o.clock, logger.Named("shared"))
	a.Budget = budget.NewTracker(store, &cfg.Budget, o.clock, logger.Named("budget"))

	a.Metrics = metrics.New()
	a.Registry = prometheus.NewRegistry()
	if err := a.Metrics.Register(a.Registry); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	beerProvider := o.provider
	if beerProvider == nil {
		beerProvider = provider.NewHTTPProvider(&cfg.Provider, logger.Named("provider"))
	}

	a.Search = search.NewService(search.Dependencies{
		Local:    a.Local,
		Shared:   a.Shared,
		Budget:   a.Budget,
		Provider: beerProvider,
		Dataset:  fallback.Default(),
		Metrics:  a.Metrics,
		Rand:     o.rand,
	}, &cfg.Search, logger.Named("search"))

	placesClient := o.placesClient
	if placesClient == nil {
		placesClient = places.NewHTTPClient(&cfg.Places, logger.Named("places"))
	}
	a.Places = places.NewService(placesClient, a.Local, &cfg.Places, cfg.Local.PlacesTTL, logger.Named("places"))

	logger.Info("services wired",
		zap.String("local_driver", cfg.Local.Driver),
		zap.String("shared_driver", cfg.Shared.Driver),
		zap.String("provider", fmt.Sprint(beerProvider)))

	return a, nil
}

// Prewarm replays popular searches into the local tier when enabled in config
func (a *App) Prewarm(ctx context.Context) {
	if !a.Config.Search.Prewarm {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := a.Search.Prewarm(ctx, a.Config.Search.PrewarmLimit); err != nil {
		a.Logger.Warn("prewarm stopped", zap.Error(err))
	}
}

// Close releases stores in reverse creation order
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func newKVStore(cfg *config.Config, client redis.UniversalClient, logger *zap.Logger) (kv.Store, error) {
	switch cfg.Local.Driver {
	case DriverMemory:
		return kv.NewMemoryStore(), nil
	case DriverRedis:
		return kv.NewRedisStore(client, "", logger.Named("kv")), nil
	case DriverSQLite, "":
		db, err := gorm.Open(gormsqlite.Open(cfg.Local.SQLitePath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Local.SQLitePath, err)
		}
		return kv.NewSQLiteStore(db, logger.Named("kv"))
	default:
		return nil, fmt.Errorf("unknown local driver %q", cfg.Local.Driver)
	}
}

func newDocStore(cfg *config.Config, client redis.UniversalClient, logger *zap.Logger) (docstore.Store, error) {
	switch cfg.Shared.Driver {
	case DriverMemory, "":
		return docstore.NewMemoryStore(), nil
	case DriverRedis:
		return docstore.NewRedisStore(client, cfg.Shared.KeyPrefix, logger.Named("docstore")), nil
	default:
		return nil, fmt.Errorf("unknown shared driver %q", cfg.Shared.Driver)
	}
}
