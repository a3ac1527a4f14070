// Package search coordinates the cache tiers, the request budget, the beer provider and
// the fallback dataset.
package search

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"hops-cache/internal/budget"
	"hops-cache/internal/cache"
	"hops-cache/internal/fallback"
	"hops-cache/internal/metrics"
	"hops-cache/internal/provider"
	"hops-cache/internal/shared"
	"hops-cache/pkg/models"
)

const (
	searchKeyPrefix = "beer_search_"
	randomKeyPrefix = "beer_random_"
	idKeyPrefix     = "beer_id_"

	defaultPerPage = 20
	maxPerPage     = 80
)

// Config configuration for the search service
type Config struct {
	BrowseTerm      string        `mapstructure:"browse_term"`
	Prewarm         bool          `mapstructure:"prewarm"`
	PrewarmLimit    int           `mapstructure:"prewarm_limit"`
	ProviderTimeout time.Duration `mapstructure:"-"`
	BeerTTL         time.Duration `mapstructure:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BrowseTerm:      "ale",
		PrewarmLimit:    10,
		ProviderTimeout: 8 * time.Second,
		BeerTTL:         cache.BeerTTL,
	}
}

// Dependencies are the handles the service coordinates. Provider and Metrics may be nil.
type Dependencies struct {
	Local    *cache.LocalCache
	Shared   *shared.Cache
	Budget   *budget.Tracker
	Provider provider.Provider
	Dataset  *fallback.Dataset
	Metrics  *metrics.Metrics
	Rand     *rand.Rand
}

// Service owns no state of its own beyond the injected handles
type Service struct {
	local    *cache.LocalCache
	shared   *shared.Cache
	budget   *budget.Tracker
	provider provider.Provider
	dataset  *fallback.Dataset
	metrics  *metrics.Metrics
	logger   *zap.Logger

	timeout    time.Duration
	beerTTL    time.Duration
	browseTerm string

	rngMu sync.Mutex
	rng   *rand.Rand

	resolvers []resolver
}

// NewService creates a Service
func NewService(deps Dependencies, config *Config, logger *zap.Logger) *Service {
	cfg := DefaultConfig()
	if config != nil {
		if config.BrowseTerm != "" {
			cfg.BrowseTerm = config.BrowseTerm
		}
		if config.ProviderTimeout > 0 {
			cfg.ProviderTimeout = config.ProviderTimeout
		}
		if config.BeerTTL > 0 {
			cfg.BeerTTL = config.BeerTTL
		}
	}

	dataset := deps.Dataset
	if dataset == nil {
		dataset = fallback.Default()
	}
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Service{
		local:      deps.Local,
		shared:     deps.Shared,
		budget:     deps.Budget,
		provider:   deps.Provider,
		dataset:    dataset,
		metrics:    deps.Metrics,
		logger:     logger,
		timeout:    cfg.ProviderTimeout,
		beerTTL:    cfg.BeerTTL,
		browseTerm: cfg.BrowseTerm,
		rng:        rng,
	}
	s.resolvers = s.buildResolvers()
	return s
}

// Search returns beers matching query. Transient failures degrade to cached or fallback
// data; only configuration errors are returned.
func (s *Service) Search(ctx context.Context, query string) ([]models.Beer, error) {
	term := shared.Normalize(query)
	if term == "" {
		return []models.Beer{}, nil
	}

	s.shared.RecordSearch(ctx, term)

	beers, _, err := s.resolve(ctx, s.searchLookup(term))
	return beers, err
}

func (s *Service) searchLookup(term string) *lookup {
	return &lookup{
		localKey:  searchKeyPrefix + term,
		sharedKey: term,
		fetch: func(ctx context.Context) ([]provider.RawBeer, error) {
			return s.provider.Search(ctx, term)
		},
		fallback: func() []models.Beer {
			return s.dataset.Match(term)
		},
	}
}

// RandomBeer picks a style term at random, resolves it through the tiers and returns one
// of its beers uniformly at random
func (s *Service) RandomBeer(ctx context.Context) (*models.Beer, error) {
	term := fallback.RandomTerms[s.intn(len(fallback.RandomTerms))]

	beers, _, err := s.resolve(ctx, &lookup{
		localKey:  randomKeyPrefix + term,
		sharedKey: "random:" + term,
		fetch: func(ctx context.Context) ([]provider.RawBeer, error) {
			return s.provider.ByTerm(ctx, term)
		},
		fallback: s.dataset.All,
	})
	if err != nil {
		return nil, err
	}
	if len(beers) == 0 {
		return nil, nil
	}

	beer := beers[s.intn(len(beers))]
	return &beer, nil
}

// BeerByID returns the beer with the given identifier, or nil
func (s *Service) BeerByID(ctx context.Context, id string) (*models.Beer, error) {
	id = shared.Normalize(id)
	if id == "" {
		return nil, nil
	}

	beers, _, err := s.resolve(ctx, &lookup{
		localKey:  idKeyPrefix + id,
		sharedKey: "id:" + id,
		fetch: func(ctx context.Context) ([]provider.RawBeer, error) {
			return s.provider.ByTerm(ctx, id)
		},
		accept: func(beers []models.Beer) []models.Beer {
			return matchID(beers, id)
		},
		fallback: func() []models.Beer {
			if beer := s.dataset.ByID(id); beer != nil {
				return []models.Beer{*beer}
			}
			return []models.Beer{}
		},
	})
	if err != nil {
		return nil, err
	}

	if matched := matchID(beers, id); len(matched) > 0 {
		return &matched[0], nil
	}
	return nil, nil
}

// matchID keeps the beers whose normalized id equals id
func matchID(beers []models.Beer, id string) []models.Beer {
	matched := make([]models.Beer, 0, 1)
	for _, beer := range beers {
		if shared.Normalize(beer.ID) == id {
			matched = append(matched, beer)
		}
	}
	return matched
}

// Browse pages through the results for the browse term, or the whole fallback dataset
// when that term finds nothing. page starts at 1.
func (s *Service) Browse(ctx context.Context, page, perPage int) ([]models.Beer, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	beers, err := s.Search(ctx, s.browseTerm)
	if err != nil {
		return nil, err
	}
	if len(beers) == 0 {
		beers = s.dataset.All()
	}

	start := (page - 1) * perPage
	if start >= len(beers) {
		return []models.Beer{}, nil
	}
	end := start + perPage
	if end > len(beers) {
		end = len(beers)
	}
	return beers[start:end], nil
}

// PopularSearches returns the most hit shared cache search terms
func (s *Service) PopularSearches(ctx context.Context, limit int) []string {
	return s.shared.PopularSearches(ctx, limit)
}

// Prewarm resolves the most popular terms so they are in the local tier. It returns how
// many terms were warmed.
func (s *Service) Prewarm(ctx context.Context, limit int) (int, error) {
	terms := s.PopularSearches(ctx, limit)

	warmed := 0
	for _, term := range terms {
		if ctx.Err() != nil {
			break
		}
		if _, _, err := s.resolve(ctx, s.searchLookup(term)); err != nil {
			return warmed, err
		}
		warmed++
	}

	s.logger.Info("local cache prewarmed", zap.Int("terms", warmed))
	return warmed, nil
}

// CacheStats reports the local tier size
func (s *Service) CacheStats(ctx context.Context) cache.Stats {
	return s.local.Stats(ctx)
}

// ClearCache empties the local tier
func (s *Service) ClearCache(ctx context.Context) {
	s.local.Clear(ctx)
}

// BudgetStatus reports provider quota usage
func (s *Service) BudgetStatus(ctx context.Context) budget.Status {
	return s.budget.Status(ctx)
}

func (s *Service) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}
