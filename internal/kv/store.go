// Package kv provides the persistent key-value substrate used by the local cache and the
// request budget tracker.
package kv

import "context"

// Store defines the operations the local tiers need from persistent storage
type Store interface {
	// Get returns the value for key. found is false when the key is unset.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	RemoveAll(ctx context.Context, keys []string) error
	AllKeys(ctx context.Context) ([]string, error)
	Close() error
}
