package meteo

import (
	"context"
	"time"

	"github.com/couchcryptid/apiary-site-analyzer/internal/cache"
	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/observability"
)

// CachedWeather wraps a WeatherSource with a TTL cache. After a failed
// fetch the neutral default sample is cached briefly so repeat analyses of
// the same site do not hammer a failing API.
type CachedWeather struct {
	inner      domain.WeatherSource
	store      *cache.Store[domain.WeatherSample]
	failureTTL time.Duration
	metrics    *observability.Metrics
}

// NewCachedWeather creates a cache decorator around a weather source.
func NewCachedWeather(inner domain.WeatherSource, store *cache.Store[domain.WeatherSample], failureTTL time.Duration, metrics *observability.Metrics) *CachedWeather {
	return &CachedWeather{
		inner:      inner,
		store:      store,
		failureTTL: failureTTL,
		metrics:    metrics,
	}
}

func (c *CachedWeather) FetchWeather(ctx context.Context, lat, lng float64) (domain.WeatherSample, error) {
	key := cache.Key("wx", lat, lng)
	if sample, ok := c.store.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(observability.SourceWeather, observability.ResultHit).Inc()
		return sample, nil
	}
	c.metrics.CacheLookups.WithLabelValues(observability.SourceWeather, observability.ResultMiss).Inc()

	sample, err := c.inner.FetchWeather(ctx, lat, lng)
	if err != nil {
		c.store.SetWithTTL(key, domain.DefaultWeather(), c.failureTTL)
		return domain.WeatherSample{}, err
	}
	c.store.Set(key, sample)
	return sample, nil
}

// CachedTerrain wraps a TerrainSource with a TTL cache. Elevation changes
// on geological timescales, so its TTL is the longest of the three sources.
type CachedTerrain struct {
	inner      domain.TerrainSource
	store      *cache.Store[domain.TerrainSample]
	failureTTL time.Duration
	metrics    *observability.Metrics
}

// NewCachedTerrain creates a cache decorator around a terrain source.
func NewCachedTerrain(inner domain.TerrainSource, store *cache.Store[domain.TerrainSample], failureTTL time.Duration, metrics *observability.Metrics) *CachedTerrain {
	return &CachedTerrain{
		inner:      inner,
		store:      store,
		failureTTL: failureTTL,
		metrics:    metrics,
	}
}

func (c *CachedTerrain) FetchTerrain(ctx context.Context, lat, lng float64) (domain.TerrainSample, error) {
	key := cache.Key("elev", lat, lng)
	if sample, ok := c.store.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(observability.SourceTerrain, observability.ResultHit).Inc()
		return sample, nil
	}
	c.metrics.CacheLookups.WithLabelValues(observability.SourceTerrain, observability.ResultMiss).Inc()

	sample, err := c.inner.FetchTerrain(ctx, lat, lng)
	if err != nil {
		c.store.SetWithTTL(key, domain.TerrainSample{}, c.failureTTL)
		return domain.TerrainSample{}, err
	}
	c.store.Set(key, sample)
	return sample, nil
}
