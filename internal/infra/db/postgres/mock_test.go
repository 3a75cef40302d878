//go:build !integration

package postgres

import (
	"context"
	"time"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
)

// --- Mock inner repositories used by the cache decorator tests ---

type mockInnerMetricsRepo struct {
	ComprehensiveFunc  func(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error)
	FeatureMetricsFunc func(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error)
	AbsoluteFunc       func(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error)
}

var _ repository.MetricsRepository = (*mockInnerMetricsRepo)(nil)

func (m *mockInnerMetricsRepo) Comprehensive(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error) {
	return m.ComprehensiveFunc(ctx, rng)
}

func (m *mockInnerMetricsRepo) FeatureMetrics(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error) {
	return m.FeatureMetricsFunc(ctx, rng, feature)
}

func (m *mockInnerMetricsRepo) Absolute(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error) {
	return m.AbsoluteFunc(ctx, end)
}

type mockInnerRetentionRepo struct {
	RetentionFunc func(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error)
}

var _ repository.RetentionRepository = (*mockInnerRetentionRepo)(nil)

func (m *mockInnerRetentionRepo) Retention(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error) {
	return m.RetentionFunc(ctx, rng, feature)
}

type mockInnerFFPRepo struct {
	SubmissionsFunc func(ctx context.Context) ([]model.FFPSubmission, error)
	ReviewsFunc     func(ctx context.Context) ([]model.FFPReview, error)
}

var _ repository.FFPRepository = (*mockInnerFFPRepo)(nil)

func (m *mockInnerFFPRepo) Submissions(ctx context.Context) ([]model.FFPSubmission, error) {
	return m.SubmissionsFunc(ctx)
}

func (m *mockInnerFFPRepo) Reviews(ctx context.Context) ([]model.FFPReview, error) {
	return m.ReviewsFunc(ctx)
}

func mustRange(start, end time.Time) model.DateRange {
	r, err := model.NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}
