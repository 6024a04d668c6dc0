package catalog

import (
	"context"
	"slices"
	"sync"
	"time"

	"ewager/models"

	log "github.com/sirupsen/logrus"
)

// Fetcher is anything that can look up an entity by id
type Fetcher interface {
	FetchEntity(ctx context.Context, id int) (*models.CatalogEntity, error)
}

type cacheEntry struct {
	entity  *models.CatalogEntity
	expires time.Time
}

// CachedClient memoizes successful lookups for ttl. Failures are never cached.
type CachedClient struct {
	next Fetcher
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[int]cacheEntry
}

// NewCachedClient wraps next with a TTL cache
func NewCachedClient(next Fetcher, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int]cacheEntry),
	}
}

// FetchEntity returns a cached copy when fresh, otherwise asks the wrapped client
func (c *CachedClient) FetchEntity(ctx context.Context, id int) (*models.CatalogEntity, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expires) {
		log.WithField("catalog_id", id).Debug("Catalog cache hit")
		return cloneEntity(entry.entity), nil
	}

	entity, err := c.next.FetchEntity(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[id] = cacheEntry{entity: cloneEntity(entity), expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return entity, nil
}

// Len returns the number of cached entries, fresh or not
func (c *CachedClient) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Prune drops expired entries
func (c *CachedClient) Prune() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

func cloneEntity(e *models.CatalogEntity) *models.CatalogEntity {
	c := *e
	c.Types = slices.Clone(e.Types)
	return &c
}
