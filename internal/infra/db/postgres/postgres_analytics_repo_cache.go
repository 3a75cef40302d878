package postgres

import (
	"context"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/cache"
	"ladder-analytics/internal/infra/metrics"
)

// Cache decorators for the remaining query families. All share the metrics
// TTL store; the cache key carries every argument that affects the result.

var _ repository.RetentionRepository = (*retentionRepoCacheDecorator)(nil)

type retentionRepoCacheDecorator struct {
	inner repository.RetentionRepository
	store *cache.Store
}

func NewRetentionRepoCacheDecorator(inner repository.RetentionRepository, store *cache.Store) repository.RetentionRepository {
	return &retentionRepoCacheDecorator{inner: inner, store: store}
}

func (d *retentionRepoCacheDecorator) Retention(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error) {
	key := cache.Key("retention", rng.Start, rng.End, featureArg(feature))
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("retention", "hit")
		return v.(*model.RetentionSnapshot), nil
	}
	metrics.IncCacheRequest("retention", "miss")
	s, err := d.inner.Retention(ctx, rng, feature)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, s)
	return s, nil
}

var _ repository.TrendRepository = (*trendRepoCacheDecorator)(nil)

type trendRepoCacheDecorator struct {
	inner repository.TrendRepository
	store *cache.Store
}

func NewTrendRepoCacheDecorator(inner repository.TrendRepository, store *cache.Store) repository.TrendRepository {
	return &trendRepoCacheDecorator{inner: inner, store: store}
}

func (d *trendRepoCacheDecorator) Trend(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error) {
	key := cache.Key("trend", rng.Start, rng.End, g, featureArg(feature))
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("trend", "hit")
		return v.(*model.TrendSeries), nil
	}
	metrics.IncCacheRequest("trend", "miss")
	s, err := d.inner.Trend(ctx, rng, g, feature)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, s)
	return s, nil
}

var _ repository.EngagementRepository = (*engagementRepoCacheDecorator)(nil)

type engagementRepoCacheDecorator struct {
	inner repository.EngagementRepository
	store *cache.Store
}

func NewEngagementRepoCacheDecorator(inner repository.EngagementRepository, store *cache.Store) repository.EngagementRepository {
	return &engagementRepoCacheDecorator{inner: inner, store: store}
}

func (d *engagementRepoCacheDecorator) Dormancy(ctx context.Context, rng model.DateRange, lookbackDays int) (*model.DormancySnapshot, error) {
	key := cache.Key("dormancy", rng.Start, rng.End, lookbackDays)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("engagement", "hit")
		return v.(*model.DormancySnapshot), nil
	}
	metrics.IncCacheRequest("engagement", "miss")
	s, err := d.inner.Dormancy(ctx, rng, lookbackDays)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, s)
	return s, nil
}

func (d *engagementRepoCacheDecorator) Churn(ctx context.Context, rng model.DateRange) (*model.ChurnSnapshot, error) {
	key := cache.Key("churn", rng.Start, rng.End)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("engagement", "hit")
		return v.(*model.ChurnSnapshot), nil
	}
	metrics.IncCacheRequest("engagement", "miss")
	s, err := d.inner.Churn(ctx, rng)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, s)
	return s, nil
}

func (d *engagementRepoCacheDecorator) FeatureCombinations(ctx context.Context, rng model.DateRange) ([]model.FeatureCombination, error) {
	key := cache.Key("feature_combinations", rng.Start, rng.End)
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("engagement", "hit")
		return v.([]model.FeatureCombination), nil
	}
	metrics.IncCacheRequest("engagement", "miss")
	combos, err := d.inner.FeatureCombinations(ctx, rng)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, combos)
	return combos, nil
}

func featureArg(f *model.Feature) any {
	if f == nil {
		return nil
	}
	return *f
}
