package search

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hops-cache/internal/provider"
	"hops-cache/pkg/models"
)

const (
	TierLocal    = "local"
	TierShared   = "shared"
	TierLive     = "live"
	TierFallback = "fallback"
)

// lookup describes one query as it moves through the tiers. accept, when set, narrows
// provider results to the ones that answer the lookup; nothing left means a live miss.
type lookup struct {
	localKey  string
	sharedKey string
	fetch     func(ctx context.Context) ([]provider.RawBeer, error)
	accept    func([]models.Beer) []models.Beer
	fallback  func() []models.Beer
}

// resolver is one tier. resolve reports ok=false to pass the lookup on; a non-nil error
// aborts the whole lookup and is reserved for configuration problems. writeBack, when
// set, stores results found by a later tier.
type resolver struct {
	tier      string
	resolve   func(ctx context.Context, lk *lookup) ([]models.Beer, bool, error)
	writeBack func(ctx context.Context, lk *lookup, beers []models.Beer)
}

func (s *Service) buildResolvers() []resolver {
	return []resolver{
		{tier: TierLocal, resolve: s.resolveLocal, writeBack: s.writeLocal},
		{tier: TierShared, resolve: s.resolveShared, writeBack: s.writeShared},
		{tier: TierLive, resolve: s.resolveLive},
		{tier: TierFallback, resolve: s.resolveFallback},
	}
}

// resolve tries each tier in order. The first hit wins and is written back into every
// caching tier in front of it.
func (s *Service) resolve(ctx context.Context, lk *lookup) ([]models.Beer, string, error) {
	for i, r := range s.resolvers {
		beers, ok, err := r.resolve(ctx, lk)
		if err != nil {
			return nil, r.tier, err
		}
		if !ok {
			continue
		}

		if beers == nil {
			beers = []models.Beer{}
		}
		for _, prev := range s.resolvers[:i] {
			if prev.writeBack != nil {
				prev.writeBack(ctx, lk, beers)
			}
		}

		s.metrics.Resolved(r.tier)
		s.logger.Debug("lookup resolved",
			zap.String("key", lk.localKey),
			zap.String("tier", r.tier),
			zap.Int("results", len(beers)))
		return beers, r.tier, nil
	}
	return []models.Beer{}, "", nil
}

func (s *Service) resolveLocal(ctx context.Context, lk *lookup) ([]models.Beer, bool, error) {
	var beers []models.Beer
	if !s.local.Get(ctx, lk.localKey, s.beerTTL, &beers) {
		return nil, false, nil
	}
	return beers, true, nil
}

func (s *Service) writeLocal(ctx context.Context, lk *lookup, beers []models.Beer) {
	s.local.Set(ctx, lk.localKey, beers)
	s.metrics.CacheWrite(TierLocal, true)
}

func (s *Service) resolveShared(ctx context.Context, lk *lookup) ([]models.Beer, bool, error) {
	beers, found := s.shared.GetCached(ctx, lk.sharedKey)
	return beers, found, nil
}

func (s *Service) writeShared(ctx context.Context, lk *lookup, beers []models.Beer) {
	ok := s.shared.Cache(ctx, lk.sharedKey, beers)
	s.metrics.CacheWrite(TierShared, ok)
}

func (s *Service) resolveLive(ctx context.Context, lk *lookup) ([]models.Beer, bool, error) {
	if s.provider == nil || lk.fetch == nil {
		return nil, false, nil
	}

	if !s.budget.CanMakeRequest(ctx) {
		s.logger.Info("request budget exhausted, serving fallback", zap.String("key", lk.localKey))
		s.metrics.ProviderRequest("budget_exhausted")
		return nil, false, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raws, err := lk.fetch(callCtx)
	if err != nil {
		appErr := provider.AsAppError(err)
		s.metrics.ProviderRequest(strings.ToLower(appErr.Code))
		if errors.Is(err, provider.ErrConfig) {
			s.logger.Error("beer provider is misconfigured", zap.Error(err))
			return nil, false, appErr
		}
		s.logger.Warn("beer provider call failed, serving fallback",
			zap.Error(err),
			zap.String("code", appErr.Code),
			zap.String("key", lk.localKey))
		return nil, false, nil
	}

	s.budget.RecordRequest(ctx)
	s.metrics.ProviderRequest("ok")
	s.metrics.BudgetUsed(s.budget.Count(ctx))

	beers := provider.TransformAll(raws)
	if lk.accept != nil {
		beers = lk.accept(beers)
	}
	if len(beers) == 0 {
		s.logger.Info("beer provider returned no results, serving fallback", zap.String("key", lk.localKey))
		return lk.fallback(), true, nil
	}
	return beers, true, nil
}

func (s *Service) resolveFallback(_ context.Context, lk *lookup) ([]models.Beer, bool, error) {
	return lk.fallback(), true, nil
}
