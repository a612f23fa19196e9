package overpass

import (
	"context"
	"time"

	"github.com/couchcryptid/apiary-site-analyzer/internal/cache"
	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/observability"
)

// CachedSource wraps a LandCoverSource with a TTL cache. Successful fetches
// are cached for the store's TTL; after a failed fetch the empty feature set
// is cached briefly, so a flapping Overpass does not get hammered while
// analyses keep completing on the documented fallback.
type CachedSource struct {
	inner      domain.LandCoverSource
	store      *cache.Store[[]domain.LandFeature]
	failureTTL time.Duration
	metrics    *observability.Metrics
}

// NewCachedSource creates a cache decorator around a land cover source.
func NewCachedSource(inner domain.LandCoverSource, store *cache.Store[[]domain.LandFeature], failureTTL time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      store,
		failureTTL: failureTTL,
		metrics:    metrics,
	}
}

func (c *CachedSource) FetchFeatures(ctx context.Context, lat, lng float64, radiusM int) ([]domain.LandFeature, error) {
	key := cache.KeyWithRadius("osm", lat, lng, radiusM)
	if features, ok := c.store.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(observability.SourceLandCover, observability.ResultHit).Inc()
		return features, nil
	}
	c.metrics.CacheLookups.WithLabelValues(observability.SourceLandCover, observability.ResultMiss).Inc()

	features, err := c.inner.FetchFeatures(ctx, lat, lng, radiusM)
	if err != nil {
		c.store.SetWithTTL(key, nil, c.failureTTL)
		return nil, err
	}
	c.store.Set(key, features)
	return features, nil
}
