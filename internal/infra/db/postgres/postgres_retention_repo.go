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

var _ repository.RetentionRepository = (*PostgresRetentionRepo)(nil)

type PostgresRetentionRepo struct {
	pool             *pgxpool.Pool
	excludedProvider string
	log              *zerolog.Logger
}

func NewPostgresRetentionRepo(pool *pgxpool.Pool, excludedProvider string, logger *zerolog.Logger) *PostgresRetentionRepo {
	return &PostgresRetentionRepo{pool: pool, excludedProvider: excludedProvider, log: logger}
}

// Retention computes day-1, week-1 and month-1 retention for the signup
// cohort inside the range. NULLIF keeps an empty cohort as a NULL rate rather
// than a division error; the nil pointers carry that through to callers.
func (r *PostgresRetentionRepo) Retention(ctx context.Context, rng model.DateRange, feature *model.Feature) (*model.RetentionSnapshot, error) {
	b := &binder{}
	bd := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	activity := activityUnion(b, featuresFor(feature), bd, r.excludedProvider)

	q := fmt.Sprintf(`
WITH signups AS (
    SELECT id::TEXT AS user_id, DATE(created_at) AS signup_date
    FROM users
    WHERE DATE(created_at) BETWEEN %[1]s AND %[2]s
      AND restricted = false
),
activity AS (
%[3]s
),
joined AS (
    SELECT s.user_id, s.signup_date, a.activity_date
    FROM signups s
    LEFT JOIN activity a ON s.user_id = a.user_id
)
SELECT
    COUNT(DISTINCT user_id) AS total_signups,
    COUNT(DISTINCT user_id) FILTER (WHERE activity_date = signup_date + INTERVAL '1 day')
    ::FLOAT / NULLIF(COUNT(DISTINCT user_id), 0) AS day1_retention,
    COUNT(DISTINCT user_id) FILTER (WHERE activity_date BETWEEN signup_date + INTERVAL '1 day' AND signup_date + INTERVAL '7 days')
    ::FLOAT / NULLIF(COUNT(DISTINCT user_id), 0) AS week1_retention,
    COUNT(DISTINCT user_id) FILTER (WHERE activity_date BETWEEN signup_date + INTERVAL '1 day' AND signup_date + INTERVAL '30 days')
    ::FLOAT / NULLIF(COUNT(DISTINCT user_id), 0) AS month1_retention
FROM joined;
`, bd.start, bd.end, activity)

	s := &model.RetentionSnapshot{Range: rng, Feature: feature}
	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).Scan(&s.TotalSignups, &s.Day1, &s.Week1, &s.Month1)
	metrics.ObserveQuery("retention", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("retention query failed")
		return nil, fmt.Errorf("retention: %w", err)
	}
	return s, nil
}
