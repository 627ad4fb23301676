package quorumlib

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

type memoryCache struct {
	cache *ristretto.Cache
}

func (m memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}

	return value.([]byte), nil
}

func (m memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.SetWithTTL(key, value, 1, ttl)

	return nil
}

func (m memoryCache) Delete(_ context.Context, key string) error {
	m.cache.Del(key)

	return nil
}

// NewMemoryCache returns an in-process cache backend which can hold up
// to itemsCount entries. Writes are eventually consistent.
func NewMemoryCache(itemsCount uint) (Cache, error) {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize a cache: %w", err)
	}

	return memoryCache{cache: cache}, nil
}
