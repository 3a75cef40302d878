package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/logging"
)

// Compile-time check
var _ DashboardUseCase = (*dashboardUC)(nil)

// DashboardUseCase orchestrates one dashboard render: raw snapshots from the
// query layer, derived metrics, and rule-generated insights. Queries run
// sequentially; there is no cross-query consistency guarantee between two
// snapshots in the same render, which is an accepted tradeoff.
type DashboardUseCase interface {
	Overview(ctx context.Context, rng model.DateRange) (*OverviewReport, error)
	FeatureDeepDive(ctx context.Context, rng model.DateRange, feature model.Feature) (*FeatureReport, error)
	Trends(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error)
	Engagement(ctx context.Context, rng model.DateRange, lookbackDays int) (*EngagementReport, error)
}

// DerivedMetrics is the calculator output attached to overview reports.
type DerivedMetrics struct {
	ActivationRate      float64                   `json:"activation_rate"`
	ActivationLevel     model.AlertLevel          `json:"activation_level"`
	ConversionRate      float64                   `json:"conversion_rate"`
	FeatureAdoptionRate float64                   `json:"feature_adoption_rate"`
	StickinessRatio     float64                   `json:"stickiness_ratio"`
	StickinessLevel     model.AlertLevel          `json:"stickiness_level"`
	FeaturePenetration  map[model.Feature]float64 `json:"feature_penetration"`
}

type OverviewReport struct {
	Metrics   *model.MetricsSnapshot   `json:"metrics"`
	Absolute  *model.AbsoluteMetrics   `json:"absolute"`
	Retention *model.RetentionSnapshot `json:"retention"`
	Derived   DerivedMetrics           `json:"derived"`
	Insights  []model.Insight          `json:"insights"`
}

type FeatureReport struct {
	Metrics         *model.FeatureMetrics    `json:"metrics"`
	Retention       *model.RetentionSnapshot `json:"retention"`
	StickinessRatio float64                  `json:"stickiness_ratio"`
	AdoptionRate    float64                  `json:"adoption_rate"`
	Insights        []model.Insight          `json:"insights"`
}

type EngagementReport struct {
	Dormancy         *model.DormancySnapshot    `json:"dormancy"`
	DormancyPct      float64                    `json:"dormancy_pct"`
	DormancyLevel    model.AlertLevel           `json:"dormancy_level"`
	ReactivationRate float64                    `json:"reactivation_rate"`
	Churn            *model.ChurnSnapshot       `json:"churn"`
	Combinations     []model.FeatureCombination `json:"combinations"`
	Insights         []model.Insight            `json:"insights"`
}

type dashboardUC struct {
	metrics    repository.MetricsRepository
	retention  repository.RetentionRepository
	trends     repository.TrendRepository
	engagement repository.EngagementRepository

	log *zerolog.Logger
}

func NewDashboardUseCase(
	metrics repository.MetricsRepository,
	retention repository.RetentionRepository,
	trends repository.TrendRepository,
	engagement repository.EngagementRepository,
	logger *zerolog.Logger,
) *dashboardUC {
	return &dashboardUC{metrics: metrics, retention: retention, trends: trends, engagement: engagement, log: logger}
}

// Overview assembles the main dashboard page. Every repo failure degrades to
// a zero-valued snapshot so the page always renders; the repo already logged
// the cause.
func (u *dashboardUC) Overview(ctx context.Context, rng model.DateRange) (*OverviewReport, error) {
	defer logging.TraceDuration(u.log, "DashboardUC.Overview")()

	m, err := u.metrics.Comprehensive(ctx, rng)
	if err != nil {
		m = emptyMetrics(rng)
	}
	abs, err := u.metrics.Absolute(ctx, rng.End)
	if err != nil {
		abs = &model.AbsoluteMetrics{}
	}
	ret, err := u.retention.Retention(ctx, rng, nil)
	if err != nil {
		ret = &model.RetentionSnapshot{Range: rng}
	}

	return &OverviewReport{
		Metrics:   m,
		Absolute:  abs,
		Retention: ret,
		Derived:   deriveOverview(m),
		Insights:  GenerateOverviewInsights(m, ret),
	}, nil
}

func (u *dashboardUC) FeatureDeepDive(ctx context.Context, rng model.DateRange, feature model.Feature) (*FeatureReport, error) {
	defer logging.TraceDuration(u.log, "DashboardUC.FeatureDeepDive")()

	fm, err := u.metrics.FeatureMetrics(ctx, rng, feature)
	if err != nil {
		fm = &model.FeatureMetrics{Range: rng, Feature: feature}
	}
	ret, err := u.retention.Retention(ctx, rng, &feature)
	if err != nil {
		ret = &model.RetentionSnapshot{Range: rng, Feature: &feature}
	}

	return &FeatureReport{
		Metrics:         fm,
		Retention:       ret,
		StickinessRatio: StickinessRatio(fm.AvgDAU, fm.AvgMAU),
		AdoptionRate:    FeatureAdoptionRate(fm.FirstTimeUsers, fm.TotalActiveUsers),
		Insights:        GenerateFeatureInsights(fm, ret),
	}, nil
}

func (u *dashboardUC) Trends(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error) {
	series, err := u.trends.Trend(ctx, rng, g, feature)
	if err != nil {
		return &model.TrendSeries{Range: rng, Granularity: g, Feature: feature}, nil
	}
	return series, nil
}

func (u *dashboardUC) Engagement(ctx context.Context, rng model.DateRange, lookbackDays int) (*EngagementReport, error) {
	defer logging.TraceDuration(u.log, "DashboardUC.Engagement")()

	d, err := u.engagement.Dormancy(ctx, rng, lookbackDays)
	if err != nil {
		d = &model.DormancySnapshot{Range: rng, LookbackDays: lookbackDays, DormantByFeature: map[model.Feature]int{}}
	}
	churn, err := u.engagement.Churn(ctx, rng)
	if err != nil {
		churn = &model.ChurnSnapshot{Range: rng}
	}
	combos, err := u.engagement.FeatureCombinations(ctx, rng)
	if err != nil {
		combos = nil
	}

	dormancyPct := DormancyPct(d)
	return &EngagementReport{
		Dormancy:         d,
		DormancyPct:      dormancyPct,
		DormancyLevel:    ClassifyDormancy(dormancyPct),
		ReactivationRate: ReactivationRate(d),
		Churn:            churn,
		Combinations:     combos,
		Insights:         GenerateEngagementInsights(d, combos),
	}, nil
}

func deriveOverview(m *model.MetricsSnapshot) DerivedMetrics {
	activation := ActivationRate(m)
	stickiness := StickinessRatio(m.AvgDAU, m.AvgMAU)
	return DerivedMetrics{
		ActivationRate:      activation,
		ActivationLevel:     ClassifyActivation(activation),
		ConversionRate:      ConversionRate(m),
		FeatureAdoptionRate: FeatureAdoptionRate(m.FirstTimeUsers, m.TotalActiveUsers),
		StickinessRatio:     stickiness,
		StickinessLevel:     ClassifyStickiness(stickiness),
		FeaturePenetration:  FeaturePenetration(m),
	}
}

func emptyMetrics(rng model.DateRange) *model.MetricsSnapshot {
	return &model.MetricsSnapshot{
		Range:          rng,
		FeatureUsers:   map[model.Feature]int{},
		ExclusiveUsers: map[model.Feature]int{},
	}
}
