package repository

import (
	"context"
	"time"

	"ladder-analytics/internal/domain/model"
)

// MetricsRepository answers the aggregate engagement queries. Implementations
// degrade on connection failure: they log once and return a zero-valued
// snapshot with domain.ErrUnavailable so callers always have something
// renderable.
type MetricsRepository interface {
	Comprehensive(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error)
	FeatureMetrics(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error)
	Absolute(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error)
}
