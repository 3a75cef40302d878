package repository

import (
	"context"

	"ladder-analytics/internal/domain/model"
)

// RetentionRepository computes cohort retention for signups inside the range.
// feature == nil means "any feature" activity counts toward retention.
type RetentionRepository interface {
	Retention(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error)
}
