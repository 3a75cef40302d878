//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rangeOf(start, end string) model.DateRange {
	r, err := model.NewDateRange(day(start), day(end))
	if err != nil {
		panic(err)
	}
	return r
}

func ptr(v float64) *float64 { return &v }

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// ---- Mock MetricsRepository ----

type MockMetricsRepo struct {
	ComprehensiveFunc  func(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error)
	FeatureMetricsFunc func(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error)
	AbsoluteFunc       func(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error)
}

var _ repository.MetricsRepository = (*MockMetricsRepo)(nil)

func NewMockMetricsRepo() *MockMetricsRepo { return &MockMetricsRepo{} }

func (m *MockMetricsRepo) Comprehensive(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error) {
	if m.ComprehensiveFunc != nil {
		return m.ComprehensiveFunc(ctx, rng)
	}
	return &model.MetricsSnapshot{
		Range:          rng,
		FeatureUsers:   map[model.Feature]int{},
		ExclusiveUsers: map[model.Feature]int{},
	}, nil
}

func (m *MockMetricsRepo) FeatureMetrics(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error) {
	if m.FeatureMetricsFunc != nil {
		return m.FeatureMetricsFunc(ctx, rng, feature)
	}
	return &model.FeatureMetrics{Range: rng, Feature: feature}, nil
}

func (m *MockMetricsRepo) Absolute(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error) {
	if m.AbsoluteFunc != nil {
		return m.AbsoluteFunc(ctx, end)
	}
	return &model.AbsoluteMetrics{}, nil
}

// ---- Mock RetentionRepository ----

type MockRetentionRepo struct {
	RetentionFunc func(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error)
}

var _ repository.RetentionRepository = (*MockRetentionRepo)(nil)

func NewMockRetentionRepo() *MockRetentionRepo { return &MockRetentionRepo{} }

func (m *MockRetentionRepo) Retention(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error) {
	if m.RetentionFunc != nil {
		return m.RetentionFunc(ctx, rng, feature)
	}
	return &model.RetentionSnapshot{Range: rng, Feature: feature}, nil
}

// ---- Mock TrendRepository ----

type MockTrendRepo struct {
	TrendFunc func(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error)
}

var _ repository.TrendRepository = (*MockTrendRepo)(nil)

func NewMockTrendRepo() *MockTrendRepo { return &MockTrendRepo{} }

func (m *MockTrendRepo) Trend(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error) {
	if m.TrendFunc != nil {
		return m.TrendFunc(ctx, rng, g, feature)
	}
	return &model.TrendSeries{Range: rng, Granularity: g, Feature: feature}, nil
}

// ---- Mock EngagementRepository ----

type MockEngagementRepo struct {
	DormancyFunc            func(ctx context.Context, rng model.DateRange, lookbackDays int) (*model.DormancySnapshot, error)
	ChurnFunc               func(ctx context.Context, rng model.DateRange) (*model.ChurnSnapshot, error)
	FeatureCombinationsFunc func(ctx context.Context, rng model.DateRange) ([]model.FeatureCombination, error)
}

var _ repository.EngagementRepository = (*MockEngagementRepo)(nil)

func NewMockEngagementRepo() *MockEngagementRepo { return &MockEngagementRepo{} }

func (m *MockEngagementRepo) Dormancy(ctx context.Context, rng model.DateRange, lookbackDays int) (*model.DormancySnapshot, error) {
	if m.DormancyFunc != nil {
		return m.DormancyFunc(ctx, rng, lookbackDays)
	}
	return &model.DormancySnapshot{Range: rng, LookbackDays: lookbackDays, DormantByFeature: map[model.Feature]int{}}, nil
}

func (m *MockEngagementRepo) Churn(ctx context.Context, rng model.DateRange) (*model.ChurnSnapshot, error) {
	if m.ChurnFunc != nil {
		return m.ChurnFunc(ctx, rng)
	}
	return &model.ChurnSnapshot{Range: rng}, nil
}

func (m *MockEngagementRepo) FeatureCombinations(ctx context.Context, rng model.DateRange) ([]model.FeatureCombination, error) {
	if m.FeatureCombinationsFunc != nil {
		return m.FeatureCombinationsFunc(ctx, rng)
	}
	return nil, nil
}

// ---- Mock FFPRepository ----

type MockFFPRepo struct {
	SubmissionsFunc func(ctx context.Context) ([]model.FFPSubmission, error)
	ReviewsFunc     func(ctx context.Context) ([]model.FFPReview, error)
}

var _ repository.FFPRepository = (*MockFFPRepo)(nil)

func NewMockFFPRepo() *MockFFPRepo { return &MockFFPRepo{} }

func (m *MockFFPRepo) Submissions(ctx context.Context) ([]model.FFPSubmission, error) {
	if m.SubmissionsFunc != nil {
		return m.SubmissionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockFFPRepo) Reviews(ctx context.Context) ([]model.FFPReview, error) {
	if m.ReviewsFunc != nil {
		return m.ReviewsFunc(ctx)
	}
	return nil, nil
}
