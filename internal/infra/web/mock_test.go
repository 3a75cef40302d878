//go:build !integration

package web

import (
	"context"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/usecase"
)

// --- Mock use cases ---

type mockDashboardUC struct {
	OverviewFunc        func(ctx context.Context, rng model.DateRange) (*usecase.OverviewReport, error)
	FeatureDeepDiveFunc func(ctx context.Context, rng model.DateRange, feature model.Feature) (*usecase.FeatureReport, error)
	TrendsFunc          func(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error)
	EngagementFunc      func(ctx context.Context, rng model.DateRange, lookbackDays int) (*usecase.EngagementReport, error)
}

var _ usecase.DashboardUseCase = (*mockDashboardUC)(nil)

func (m *mockDashboardUC) Overview(ctx context.Context, rng model.DateRange) (*usecase.OverviewReport, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx, rng)
	}
	return &usecase.OverviewReport{
		Metrics:   &model.MetricsSnapshot{Range: rng},
		Absolute:  &model.AbsoluteMetrics{},
		Retention: &model.RetentionSnapshot{Range: rng},
	}, nil
}

func (m *mockDashboardUC) FeatureDeepDive(ctx context.Context, rng model.DateRange, feature model.Feature) (*usecase.FeatureReport, error) {
	if m.FeatureDeepDiveFunc != nil {
		return m.FeatureDeepDiveFunc(ctx, rng, feature)
	}
	return &usecase.FeatureReport{
		Metrics:   &model.FeatureMetrics{Range: rng, Feature: feature},
		Retention: &model.RetentionSnapshot{Range: rng, Feature: &feature},
	}, nil
}

func (m *mockDashboardUC) Trends(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error) {
	if m.TrendsFunc != nil {
		return m.TrendsFunc(ctx, rng, g, feature)
	}
	return &model.TrendSeries{Range: rng, Granularity: g, Feature: feature}, nil
}

func (m *mockDashboardUC) Engagement(ctx context.Context, rng model.DateRange, lookbackDays int) (*usecase.EngagementReport, error) {
	if m.EngagementFunc != nil {
		return m.EngagementFunc(ctx, rng, lookbackDays)
	}
	return &usecase.EngagementReport{
		Dormancy: &model.DormancySnapshot{Range: rng, LookbackDays: lookbackDays},
		Churn:    &model.ChurnSnapshot{Range: rng},
	}, nil
}

type mockFFPUC struct {
	EngagementFunc func(ctx context.Context, rng model.DateRange) (*usecase.FFPReport, error)
}

var _ usecase.FFPUseCase = (*mockFFPUC)(nil)

func (m *mockFFPUC) Engagement(ctx context.Context, rng model.DateRange) (*usecase.FFPReport, error) {
	if m.EngagementFunc != nil {
		return m.EngagementFunc(ctx, rng)
	}
	return &usecase.FFPReport{ReactionCounts: map[string]int{}}, nil
}
