package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultCacheTTL = 24 * time.Hour

// Cache stores the last catalog that passed validation.
type Cache interface {
	Get(ctx context.Context, source string) (*Catalog, error)
	Set(ctx context.Context, source string, c Catalog) error
}

// RedisCache keeps the last good catalog in Redis so a restart survives a flaky source.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) key(source string) string {
	return "catalog:" + source
}

func (c *RedisCache) Get(ctx context.Context, source string) (*Catalog, error) {
	data, err := c.client.Get(ctx, c.key(source)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *RedisCache) Set(ctx context.Context, source string, cat Catalog) error {
	data, err := json.Marshal(cat)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(source), data, c.ttl).Err()
}

// CachedProvider serves the last cached catalog when the wrapped provider cannot be reached.
// Validation failures are returned as-is: a broken document is never hidden behind stale data.
type CachedProvider struct {
	next   Provider
	cache  Cache
	source string
	logger zerolog.Logger
}

var _ Provider = (*CachedProvider)(nil)

func NewCachedProvider(next Provider, cache Cache, source string, logger zerolog.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		cache:  cache,
		source: source,
		logger: logger.With().Str("component", "catalog_cache").Logger(),
	}
}

func (p *CachedProvider) Load(ctx context.Context) (Catalog, error) {
	cat, err := p.next.Load(ctx)
	if err == nil {
		if setErr := p.cache.Set(ctx, p.source, cat); setErr != nil {
			p.logger.Warn().Err(setErr).Str("source", p.source).Msg("catalog cache write failed")
		}
		return cat, nil
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Kind != KindTransport {
		return Catalog{}, err
	}

	cached, cacheErr := p.cache.Get(ctx, p.source)
	if cacheErr != nil {
		p.logger.Warn().Err(cacheErr).Str("source", p.source).Msg("catalog cache read failed")
		return Catalog{}, err
	}
	if cached == nil {
		return Catalog{}, err
	}
	// Cached copies were validated on write but Redis content is not trusted blindly.
	if vErr := Validate(*cached); vErr != nil {
		p.logger.Warn().Err(vErr).Str("source", p.source).Msg("cached catalog invalid")
		return Catalog{}, err
	}
	p.logger.Warn().Err(err).Str("source", p.source).Msg("serving cached catalog")
	return *cached, nil
}
