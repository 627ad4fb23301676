package quorumlib

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var cacheCodec = jsoniter.ConfigCompatibleWithStandardLibrary

type cachedSource struct {
	Source

	cache   Cache
	ttl     time.Duration
	logger  Logger
	metrics *Metrics
}

// Lookup is fail-open with regard to the cache backend: a failed get is
// a miss, a failed set or a codec error is logged and the freshly
// computed record is returned anyway. Only a source failure propagates.
func (c cachedSource) Lookup(ctx context.Context, ip net.IP) (LocationRecord, error) {
	cacheKey := c.Name() + ":" + ip.String()

	raw, err := c.cache.Get(ctx, cacheKey)

	switch {
	case err == nil:
		record := LocationRecord{}

		decodeErr := cacheCodec.Unmarshal(raw, &record)
		if decodeErr == nil {
			c.metrics.CacheHit(c.Name())

			return record, nil
		}

		c.logger.CacheError(c.Name(), fmt.Errorf("cannot decode a cached value: %w", decodeErr))
		c.metrics.CacheFailure("decode")
	case !errors.Is(err, ErrCacheMiss):
		c.logger.CacheError(c.Name(), fmt.Errorf("cannot get a value: %w", err))
		c.metrics.CacheFailure("get")
	}

	record, err := c.Source.Lookup(ctx, ip)
	if err != nil {
		return record, err
	}

	if raw, err := cacheCodec.Marshal(record); err != nil {
		c.logger.CacheError(c.Name(), fmt.Errorf("cannot encode a value: %w", err))
		c.metrics.CacheFailure("encode")
	} else if err := c.cache.Set(ctx, cacheKey, raw, c.ttl); err != nil {
		c.logger.CacheError(c.Name(), fmt.Errorf("cannot set a value: %w", err))
		c.metrics.CacheFailure("set")
	}

	return record, nil
}

// NewCachedSource wraps a source with a cache-aside layer: get, compute
// on a miss, set. The TTL is the same for every source.
func NewCachedSource(source Source, cache Cache, ttl time.Duration, logger Logger, metrics *Metrics) Source {
	if logger == nil {
		logger = nopLogger{}
	}

	return cachedSource{
		Source:  source,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}
