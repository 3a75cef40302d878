package postgres

import (
	"context"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/cache"
	"ladder-analytics/internal/infra/metrics"
)

var _ repository.FFPRepository = (*FFPRepoCacheDecorator)(nil)

// FFPRepoCacheDecorator holds the FFP reference tables for the process
// lifetime. There is no TTL; Refresh is the only way to drop the data.
type FFPRepoCacheDecorator struct {
	inner repository.FFPRepository
	store *cache.Store
}

func NewFFPRepoCacheDecorator(inner repository.FFPRepository) *FFPRepoCacheDecorator {
	return &FFPRepoCacheDecorator{inner: inner, store: cache.New(0)}
}

func (d *FFPRepoCacheDecorator) Submissions(ctx context.Context) ([]model.FFPSubmission, error) {
	const key = "ffp_submissions"
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("ffp", "hit")
		return v.([]model.FFPSubmission), nil
	}
	metrics.IncCacheRequest("ffp", "miss")
	subs, err := d.inner.Submissions(ctx)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, subs)
	return subs, nil
}

func (d *FFPRepoCacheDecorator) Reviews(ctx context.Context) ([]model.FFPReview, error) {
	const key = "ffp_reviews"
	if v, ok := d.store.Get(key); ok {
		metrics.IncCacheRequest("ffp", "hit")
		return v.([]model.FFPReview), nil
	}
	metrics.IncCacheRequest("ffp", "miss")
	reviews, err := d.inner.Reviews(ctx)
	if err != nil {
		return nil, err
	}
	d.store.Set(key, reviews)
	return reviews, nil
}

// Refresh drops the cached tables so the next access reloads them.
func (d *FFPRepoCacheDecorator) Refresh() {
	d.store.Flush()
}
