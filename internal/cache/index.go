package cache

import (
	"time"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// IndexCache keeps covariate buckets keyed by claim type.
// Cached buckets are shared snapshots and must not be modified.
type IndexCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewIndexCache creates a cache whose entries expire after ttl.
// A ttl of zero or less disables caching.
func NewIndexCache(ttl time.Duration) *IndexCache {
	cleanup := 2 * ttl
	if ttl <= 0 {
		cleanup = 0
	}
	return &IndexCache{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Enabled reports whether entries are retained at all.
func (c *IndexCache) Enabled() bool {
	return c.ttl > 0
}

func (c *IndexCache) Get(claimType string) ([]domain.StoredCovariate, bool) {
	if !c.Enabled() {
		return nil, false
	}
	if val, found := c.cache.Get(key(claimType)); found {
		return val.([]domain.StoredCovariate), true
	}
	return nil, false
}

func (c *IndexCache) Set(claimType string, bucket []domain.StoredCovariate) {
	if !c.Enabled() {
		return
	}
	c.cache.Set(key(claimType), bucket, gocache.DefaultExpiration)
}

func (c *IndexCache) Invalidate(claimType string) {
	c.cache.Delete(key(claimType))
}

// Flush drops every cached bucket.
func (c *IndexCache) Flush() {
	c.cache.Flush()
}

func (c *IndexCache) Len() int {
	return c.cache.ItemCount()
}

// Prefixed so the empty type still gets a readable key.
func key(claimType string) string {
	return "type:" + claimType
}
