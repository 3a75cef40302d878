package repository

import (
	"context"

	"ladder-analytics/internal/domain/model"
)

// EngagementRepository covers the lifecycle-oriented queries: dormancy,
// churn, and feature-combination breakdowns.
type EngagementRepository interface {
	Dormancy(ctx context.Context, rng model.DateRange, lookbackDays int) (*model.DormancySnapshot, error)
	Churn(ctx context.Context, rng model.DateRange) (*model.ChurnSnapshot, error)
	FeatureCombinations(ctx context.Context, rng model.DateRange) ([]model.FeatureCombination, error)
}
