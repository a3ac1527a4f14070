package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"hops-cache/internal/kv"
	"hops-cache/pkg/models"
)

// LocalCache is a best-effort TTL cache over a kv.Store. Entries are evicted lazily on
// read; storage failures are logged and never returned to the caller.
type LocalCache struct {
	store      kv.Store
	prefix     string
	defaultTTL time.Duration
	clock      clock.Clock
	logger     *zap.Logger
}

// NewLocalCache creates a LocalCache. A nil clock means the wall clock.
func NewLocalCache(store kv.Store, config *Config, clk clock.Clock, logger *zap.Logger) *LocalCache {
	if config == nil {
		config = DefaultConfig()
	}
	if clk == nil {
		clk = clock.New()
	}

	ttl := config.BeerTTL
	if ttl <= 0 {
		ttl = BeerTTL
	}

	return &LocalCache{
		store:      store,
		prefix:     config.Prefix,
		defaultTTL: ttl,
		clock:      clk,
		logger:     logger,
	}
}

// Get decodes the value stored under key into dst and reports whether it was a fresh
// hit. A ttl of zero uses the default (beer) TTL. Expired entries are removed.
func (lc *LocalCache) Get(ctx context.Context, key string, ttl time.Duration, dst interface{}) bool {
	if ttl <= 0 {
		ttl = lc.defaultTTL
	}

	raw, found, err := lc.store.Get(ctx, lc.prefix+key)
	if err != nil {
		lc.logger.Warn("local cache get failed", zap.Error(err), zap.String("key", key))
		return false
	}
	if !found {
		return false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		lc.logger.Warn("local cache entry is corrupt", zap.Error(err), zap.String("key", key))
		return false
	}

	if entry.IsExpired(lc.clock.Now(), ttl) {
		lc.logger.Debug("local cache entry expired, removing", zap.String("key", key))
		lc.Remove(ctx, key)
		return false
	}

	if err := json.Unmarshal(entry.Data, dst); err != nil {
		lc.logger.Warn("local cache payload does not decode", zap.Error(err), zap.String("key", key))
		return false
	}

	lc.logger.Debug("local cache hit", zap.String("key", key))
	return true
}

// Set stores value under key stamped with the current time
func (lc *LocalCache) Set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		lc.logger.Error("failed to marshal cache value", zap.Error(err), zap.String("key", key))
		return
	}

	entry, err := json.Marshal(models.NewCacheEntry(data, lc.clock.Now()))
	if err != nil {
		lc.logger.Error("failed to marshal cache entry", zap.Error(err), zap.String("key", key))
		return
	}

	if err := lc.store.Set(ctx, lc.prefix+key, string(entry)); err != nil {
		lc.logger.Error("local cache set failed", zap.Error(err), zap.String("key", key))
		return
	}

	lc.logger.Debug("local cache item set", zap.String("key", key))
}

// Remove deletes the entry under key
func (lc *LocalCache) Remove(ctx context.Context, key string) {
	if err := lc.store.Remove(ctx, lc.prefix+key); err != nil {
		lc.logger.Error("local cache remove failed", zap.Error(err), zap.String("key", key))
	}
}

// Keys returns the keys under this cache's prefix, without the prefix
func (lc *LocalCache) Keys(ctx context.Context) []string {
	all, err := lc.store.AllKeys(ctx)
	if err != nil {
		lc.logger.Error("local cache key listing failed", zap.Error(err))
		return []string{}
	}

	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, lc.prefix) {
			keys = append(keys, strings.TrimPrefix(k, lc.prefix))
		}
	}
	return keys
}

// Clear deletes every entry under the prefix and leaves other keys alone
func (lc *LocalCache) Clear(ctx context.Context) {
	keys := lc.Keys(ctx)
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = lc.prefix + k
	}

	if err := lc.store.RemoveAll(ctx, full); err != nil {
		lc.logger.Error("local cache clear failed", zap.Error(err))
		return
	}

	lc.logger.Info("local cache cleared", zap.Int("count", len(full)))
}

// Stats counts the entries under the prefix
func (lc *LocalCache) Stats(ctx context.Context) Stats {
	return Stats{TotalItems: len(lc.Keys(ctx))}
}
