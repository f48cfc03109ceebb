package locationcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/greenguardian/internal/domain/location"
)

// MemoryCache is a size bounded in-process cache whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, location.Location]
}

// NewMemoryCache constructs a cache holding at most size entries.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryCache{lru: expirable.NewLRU[string, location.Location](size, nil, ttl)}
}

// Get implements location.Cache.
func (c *MemoryCache) Get(_ context.Context, ip string) (location.Location, bool, error) {
	loc, ok := c.lru.Get(ip)
	return loc, ok, nil
}

// Set implements location.Cache.
func (c *MemoryCache) Set(_ context.Context, ip string, loc location.Location) error {
	c.lru.Add(ip, loc)
	return nil
}

var _ location.Cache = (*MemoryCache)(nil)
