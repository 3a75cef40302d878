package postgres

import (
	"context"
	"time"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/cache"
	"ladder-analytics/internal/infra/metrics"
)

var _ repository.MetricsRepository = (*metricsRepoCacheDecorator)(nil)

// metricsRepoCacheDecorator memoizes metric snapshots for the TTL window.
// Within that window identical calls return the stored result even if the
// underlying data changed; staleness up to the TTL is accepted by design.
type metricsRepoCacheDecorator struct {
	inner repository.MetricsRepository
	store *cache.Store
}

func NewMetricsRepoCacheDecorator(inner repository.MetricsRepository, store *cache.Store) repository.MetricsRepository {
	return &metricsRepoCacheDecorator{inner: inner, store: store}
}

func (d *metricsRepoCacheDecorator) Comprehensive(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error) {
	key := cache.Key("comprehensive", rng.Start, rng.End)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("metrics", "hit")
		return v.(*model.MetricsSnapshot), nil
	}
	metrics.IncCacheRequest("metrics", "miss")
	s, err := d.inner.Comprehensive(ctx, rng)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, s)
	return s, nil
}

func (d *metricsRepoCacheDecorator) FeatureMetrics(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error) {
	key := cache.Key("feature_metrics", rng.Start, rng.End, feature)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("metrics", "hit")
		return v.(*model.FeatureMetrics), nil
	}
	metrics.IncCacheRequest("metrics", "miss")
	m, err := d.inner.FeatureMetrics(ctx, rng, feature)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, m)
	return m, nil
}

func (d *metricsRepoCacheDecorator) Absolute(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error) {
	key := cache.Key("absolute", end)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("metrics", "hit")
		return v.(*model.AbsoluteMetrics), nil
	}
	metrics.IncCacheRequest("metrics", "miss")
	m, err := d.inner.Absolute(ctx, end)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, m)
	return m, nil
}
