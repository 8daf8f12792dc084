package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the full device-type catalog.
type CatalogLoader func(ctx context.Context) ([]Candidate, error)

// CatalogCache keeps a catalog snapshot for a limited time. Concurrent
// callers that find the snapshot expired share a single load.
type CatalogCache struct {
	load CatalogLoader
	ttl  time.Duration

	mu       sync.RWMutex
	snapshot []Candidate
	built    time.Time
	sf       singleflight.Group
}

// NewCatalogCache creates a cache around load. A zero ttl disables caching.
func NewCatalogCache(load CatalogLoader, ttl time.Duration) *CatalogCache {
	return &CatalogCache{load: load, ttl: ttl}
}

func (c *CatalogCache) fresh() bool {
	if c.ttl == 0 || c.snapshot == nil {
		return false
	}
	return time.Since(c.built) <= c.ttl
}

// Get returns the cached snapshot, loading a new one if it has expired.
func (c *CatalogCache) Get(ctx context.Context) ([]Candidate, error) {
	c.mu.RLock()
	if c.fresh() {
		snap := c.snapshot
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do("catalog", func() (interface{}, error) {
		c.mu.RLock()
		if c.fresh() {
			snap := c.snapshot
			c.mu.RUnlock()
			return snap, nil
		}
		c.mu.RUnlock()

		snap, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			snap = []Candidate{}
		}

		c.mu.Lock()
		c.snapshot = snap
		c.built = time.Now()
		c.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]Candidate), nil
}

// Invalidate drops the snapshot so the next Get reloads it.
func (c *CatalogCache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
