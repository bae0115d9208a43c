// Package cache is a thin wrapper around go-cache used to memoize health
// probe results so the endpoint stays cheap under polling.
package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	cache *cache.Cache
}

func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		cache: cache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *Cache) Set(key string, value interface{}, expiration time.Duration) {
	c.cache.Set(key, value, expiration)
}

func (c *Cache) SetDefault(key string, value interface{}) {
	c.cache.Set(key, value, cache.DefaultExpiration)
}
