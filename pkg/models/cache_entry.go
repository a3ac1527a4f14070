package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is the envelope stored by the local cache
type CacheEntry struct {
	Data     json.RawMessage `json:"data"`
	StoredAt int64           `json:"timestamp"` // epoch millis
}

// NewCacheEntry creates a new entry stamped with now
func NewCacheEntry(data json.RawMessage, now time.Time) *CacheEntry {
	return &CacheEntry{
		Data:     data,
		StoredAt: now.UnixMilli(),
	}
}

// Age returns how long ago the entry was stored
func (ce *CacheEntry) Age(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-ce.StoredAt) * time.Millisecond
}

// IsExpired checks if the entry is older than ttl
func (ce *CacheEntry) IsExpired(now time.Time, ttl time.Duration) bool {
	return ce.Age(now) > ttl
}

// RemainingTTL returns the remaining time until expiration
func (ce *CacheEntry) RemainingTTL(now time.Time, ttl time.Duration) time.Duration {
	if ce.IsExpired(now, ttl) {
		return 0
	}
	return ttl - ce.Age(now)
}
