package dimensions

import (
	"context"
	"sync"
)

// Cache stores image dimensions keyed by URL. Entries never expire.
type Cache interface {
	// Get returns the dimensions stored for key and whether they were found.
	Get(ctx context.Context, key string) (Dimensions, bool, error)

	// Put stores dimensions for key, replacing any existing entry.
	Put(ctx context.Context, key string, dims Dimensions) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)

	// Close releases the cache's resources.
	Close() error
}

// CacheObserver is notified about cache lookups and failures.
type CacheObserver interface {
	ObserveCacheLookup(hit bool)
	ObserveCacheError(op string)
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Dimensions
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Dimensions)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (Dimensions, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dims, ok := c.entries[key]
	return dims, ok, nil
}

// Put implements Cache.
func (c *MemoryCache) Put(_ context.Context, key string, dims Dimensions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = dims
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len implements Cache.
func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error {
	return nil
}
