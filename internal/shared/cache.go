// Package shared implements the cross-device cache tier keyed by normalized search term.
package shared

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"hops-cache/internal/docstore"
	"hops-cache/pkg/models"
)

const (
	// CacheCollection holds one SharedCacheRecord per normalized term
	CacheCollection = "beerCache"

	// LookupCollection holds random-pick and by-id records, keyed "random:<term>" and
	// "id:<id>", so they never rank as popular searches
	LookupCollection = "beerLookups"

	// PopularSearchesCollection holds search frequency counters
	PopularSearchesCollection = "popularSearches"
)

// CollectionFor returns the collection a normalized key is stored in
func CollectionFor(key string) string {
	if strings.HasPrefix(key, "random:") || strings.HasPrefix(key, "id:") {
		return LookupCollection
	}
	return CacheCollection
}

// Normalize trims and lowercases a search term
func Normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// Cache is the shared remote tier. Records never expire here; the local tier in front
// of it bounds how stale a device can see.
type Cache struct {
	store  docstore.Store
	clock  clock.Clock
	logger *zap.Logger
}

// NewCache creates a Cache. A nil clock means the wall clock.
func NewCache(store docstore.Store, clk clock.Clock, logger *zap.Logger) *Cache {
	if clk == nil {
		clk = clock.New()
	}
	return &Cache{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// GetCached returns the cached results for term. On a hit it bumps hitCount and
// lastAccessed; a failure to do so does not affect the returned results.
func (c *Cache) GetCached(ctx context.Context, term string) ([]models.Beer, bool) {
	key := Normalize(term)
	if key == "" {
		return nil, false
	}

	doc, found, err := c.store.GetDoc(ctx, CollectionFor(key), key)
	if err != nil {
		c.logger.Warn("shared cache get failed", zap.Error(err), zap.String("term", key))
		return nil, false
	}
	if !found {
		return nil, false
	}

	var record models.SharedCacheRecord
	if err := doc.Decode(&record); err != nil {
		c.logger.Warn("shared cache record does not decode", zap.Error(err), zap.String("term", key))
		return nil, false
	}

	c.touch(ctx, key, record.HitCount)

	c.logger.Debug("shared cache hit", zap.String("term", key), zap.Int("results", len(record.Results)))
	if record.Results == nil {
		record.Results = []models.Beer{}
	}
	return record.Results, true
}

func (c *Cache) touch(ctx context.Context, key string, hitCount int64) {
	update, err := docstore.Encode(map[string]any{
		"hitCount":     hitCount + 1,
		"lastAccessed": c.clock.Now().UnixMilli(),
	})
	if err == nil {
		err = c.store.SetDoc(ctx, CollectionFor(key), key, update, true)
	}
	if err != nil {
		c.logger.Warn("could not update shared cache stats, returning cached data",
			zap.Error(err), zap.String("term", key))
	}
}

// Cache writes results for term, replacing any previous record and resetting hitCount
// to 1. It returns false on any failure; callers carry on without the shared tier.
func (c *Cache) Cache(ctx context.Context, term string, results []models.Beer) bool {
	key := Normalize(term)
	if key == "" {
		return false
	}
	if results == nil {
		results = []models.Beer{}
	}

	record := models.SharedCacheRecord{
		SearchTerm: key,
		Results:    results,
		StoredAt:   c.clock.Now().UnixMilli(),
		HitCount:   1,
	}

	doc, err := toDocument(record)
	if err == nil {
		err = c.store.SetDoc(ctx, CollectionFor(key), key, doc, false)
	}
	if err != nil {
		c.logger.Warn("shared cache set failed", zap.Error(err), zap.String("term", key))
		return false
	}

	c.logger.Debug("cached results in shared cache", zap.String("term", key), zap.Int("results", len(results)))
	return true
}

// PopularSearches returns up to limit search terms ordered by descending hitCount.
// Random-pick and by-id records live in LookupCollection and are not considered.
func (c *Cache) PopularSearches(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = 10
	}

	docs, err := c.store.QueryOrderedLimited(ctx, CacheCollection, "hitCount", true, limit)
	if err != nil {
		c.logger.Warn("failed to get popular searches", zap.Error(err))
		return []string{}
	}

	terms := make([]string, 0, len(docs))
	for _, doc := range docs {
		if term := doc.String("searchTerm"); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// RecordSearch bumps the analytics counter for term, merging into any existing record
func (c *Cache) RecordSearch(ctx context.Context, term string) bool {
	key := Normalize(term)
	if key == "" {
		return false
	}

	var count float64
	existing, found, err := c.store.GetDoc(ctx, PopularSearchesCollection, key)
	if err != nil {
		c.logger.Warn("failed to read search counter", zap.Error(err), zap.String("term", key))
		return false
	}
	if found {
		count = existing.Number("searchCount")
	}

	doc, err := docstore.Encode(map[string]any{
		"searchTerm":   key,
		"lastSearched": c.clock.Now().UnixMilli(),
		"searchCount":  int64(count) + 1,
	})
	if err == nil {
		err = c.store.SetDoc(ctx, PopularSearchesCollection, key, doc, true)
	}
	if err != nil {
		c.logger.Warn("failed to record search", zap.Error(err), zap.String("term", key))
		return false
	}
	return true
}

func toDocument(record models.SharedCacheRecord) (docstore.Document, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc docstore.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
