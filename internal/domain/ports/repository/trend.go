package repository

import (
	"context"

	"ladder-analytics/internal/domain/model"
)

// TrendRepository produces dense, gap-filled activity series. Periods with no
// activity appear with a zero count.
type TrendRepository interface {
	Trend(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error)
}
