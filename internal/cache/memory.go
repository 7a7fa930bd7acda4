package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps entries in process.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a cache whose entries default to ttl and are swept
// every cleanup interval.
func NewMemoryCache(ttl, cleanup time.Duration) *MemoryCache {
	return &MemoryCache{cache: gocache.New(ttl, cleanup)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	value, found := m.cache.Get(key)
	if !found {
		return "", ErrMiss
	}
	s, ok := value.(string)
	if !ok {
		return "", ErrMiss
	}
	return s, nil
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Delete(key)
	}
	return nil
}
