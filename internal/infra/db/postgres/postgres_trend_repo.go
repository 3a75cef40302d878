package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/metrics"
)

var _ repository.TrendRepository = (*PostgresTrendRepo)(nil)

type PostgresTrendRepo struct {
	pool             *pgxpool.Pool
	excludedProvider string
	log              *zerolog.Logger
}

func NewPostgresTrendRepo(pool *pgxpool.Pool, excludedProvider string, logger *zerolog.Logger) *PostgresTrendRepo {
	return &PostgresTrendRepo{pool: pool, excludedProvider: excludedProvider, log: logger}
}

// Trend returns a dense activity series. A generated calendar sequence is
// left-joined against the sparse per-period counts so empty periods show up
// as zero rows. This deliberately differs from the avg DAU/WAU/MAU rule,
// which excludes empty periods from its denominator.
func (r *PostgresTrendRepo) Trend(ctx context.Context, rng model.DateRange, g model.Granularity, feature *model.Feature) (*model.TrendSeries, error) {
	unit, step := truncUnit(g)

	b := &binder{}
	bd := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	activity := activityUnion(b, featuresFor(feature), bd, r.excludedProvider)

	q := fmt.Sprintf(`
WITH feature_usage AS (
%[1]s
),
calendar AS (
    SELECT generate_series(
        DATE_TRUNC('%[2]s', %[4]s::TIMESTAMP),
        DATE_TRUNC('%[2]s', %[5]s::TIMESTAMP),
        INTERVAL '%[3]s'
    )::DATE AS period
),
counts AS (
    SELECT DATE_TRUNC('%[2]s', activity_date)::DATE AS period, COUNT(DISTINCT user_id) AS n
    FROM feature_usage
    GROUP BY 1
)
SELECT c.period, COALESCE(ct.n, 0) AS active_users
FROM calendar c
LEFT JOIN counts ct ON ct.period = c.period
ORDER BY c.period;
`, activity, unit, step, bd.start, bd.end)

	start := time.Now()
	rows, err := r.pool.Query(ctx, q, b.args...)
	metrics.ObserveQuery("trend_"+string(g), time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Str("granularity", string(g)).Msg("trend query failed")
		return nil, fmt.Errorf("trend: %w", err)
	}
	defer rows.Close()

	series := &model.TrendSeries{Range: rng, Granularity: g, Feature: feature}
	for rows.Next() {
		var p model.TrendPoint
		if err := rows.Scan(&p.Period, &p.ActiveUsers); err != nil {
			return nil, fmt.Errorf("trend scan: %w", err)
		}
		series.Points = append(series.Points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trend rows: %w", err)
	}
	return series, nil
}

func truncUnit(g model.Granularity) (unit, step string) {
	switch g {
	case model.GranularityWeek:
		return "week", "1 week"
	case model.GranularityMonth:
		return "month", "1 month"
	default:
		return "day", "1 day"
	}
}
