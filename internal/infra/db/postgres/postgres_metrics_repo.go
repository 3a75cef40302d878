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

var _ repository.MetricsRepository = (*PostgresMetricsRepo)(nil)

type PostgresMetricsRepo struct {
	pool             *pgxpool.Pool
	excludedProvider string
	log              *zerolog.Logger
}

func NewPostgresMetricsRepo(pool *pgxpool.Pool, excludedProvider string, logger *zerolog.Logger) *PostgresMetricsRepo {
	return &PostgresMetricsRepo{pool: pool, excludedProvider: excludedProvider, log: logger}
}

// Comprehensive aggregates the whole overview snapshot in one round trip.
// First-time classification scans the full activity history (upper bound
// only) so a user who was active before the window never counts as new.
func (r *PostgresMetricsRepo) Comprehensive(ctx context.Context, rng model.DateRange) (*model.MetricsSnapshot, error) {
	b := &binder{}
	bd := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	windowed := activityUnion(b, model.AllFeatures(), bd, r.excludedProvider)
	allTime := activityUnion(b, model.AllFeatures(), bounds{end: bd.end}, r.excludedProvider)

	feats := model.AllFeatures()
	featureCols := ""
	exclusiveCols := ""
	for _, f := range feats {
		featureCols += fmt.Sprintf(`    (SELECT COUNT(DISTINCT user_id) FROM all_feature_usage WHERE feature = '%s') AS %s_users,
`, f, f)
		exclusiveCols += fmt.Sprintf(`    (SELECT COUNT(*) FROM feature_counts fc WHERE fc.feature_count = 1 AND EXISTS (
        SELECT 1 FROM all_feature_usage a WHERE a.user_id = fc.user_id AND a.feature = '%s')) AS %s_exclusive_users,
`, f, f)
	}

	q := fmt.Sprintf(`
WITH users_filtered AS (
    SELECT id::TEXT AS user_id, DATE(created_at) AS signup_date
    FROM users
    WHERE DATE(created_at) BETWEEN %[1]s AND %[2]s
      AND restricted = false
),
all_feature_usage AS (
%[3]s
),
all_time_usage AS (
%[4]s
),
user_first_activity AS (
    SELECT user_id, MIN(activity_date) AS first_activity_date
    FROM all_time_usage
    GROUP BY user_id
),
first_time_users AS (
    SELECT uf.user_id
    FROM users_filtered uf
    JOIN user_first_activity ufa ON uf.user_id = ufa.user_id
    WHERE ufa.first_activity_date >= uf.signup_date
      AND ufa.first_activity_date BETWEEN %[1]s AND %[2]s
),
activity_days AS (
    SELECT user_id, COUNT(DISTINCT activity_date) AS active_days
    FROM all_feature_usage
    GROUP BY user_id
),
feature_counts AS (
    SELECT user_id, COUNT(DISTINCT feature) AS feature_count
    FROM all_feature_usage
    GROUP BY user_id
),
dau AS (
    SELECT activity_date, COUNT(DISTINCT user_id) AS n
    FROM all_feature_usage GROUP BY activity_date
),
wau AS (
    SELECT DATE_TRUNC('week', activity_date)::DATE AS week, COUNT(DISTINCT user_id) AS n
    FROM all_feature_usage GROUP BY 1
),
mau AS (
    SELECT DATE_TRUNC('month', activity_date)::DATE AS month, COUNT(DISTINCT user_id) AS n
    FROM all_feature_usage GROUP BY 1
)
SELECT
    (SELECT COUNT(*) FROM users_filtered) AS total_signups,
    (SELECT COUNT(DISTINCT user_id) FROM all_feature_usage) AS total_active_users,
    (SELECT COUNT(*) FROM first_time_users) AS first_time_users,
    (SELECT COUNT(*) FROM activity_days WHERE active_days = 1) AS one_time_users,
    (SELECT COUNT(*) FROM activity_days WHERE active_days >= 2) AS recurring_users,
%[5]s%[6]s    (SELECT COUNT(*) FROM feature_counts WHERE feature_count = 1) AS single_feature_users,
    (SELECT COUNT(*) FROM feature_counts WHERE feature_count >= 2) AS multiple_feature_users,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM dau) AS avg_dau,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM wau) AS avg_wau,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM mau) AS avg_mau;
`, bd.start, bd.end, windowed, allTime, featureCols, exclusiveCols)

	s := &model.MetricsSnapshot{
		Range:          rng,
		FeatureUsers:   make(map[model.Feature]int, len(feats)),
		ExclusiveUsers: make(map[model.Feature]int, len(feats)),
	}
	featureUsers := make([]int, len(feats))
	exclusiveUsers := make([]int, len(feats))
	dest := []any{&s.TotalSignups, &s.TotalActiveUsers, &s.FirstTimeUsers, &s.OneTimeUsers, &s.RecurringUsers}
	for i := range feats {
		dest = append(dest, &featureUsers[i])
	}
	for i := range feats {
		dest = append(dest, &exclusiveUsers[i])
	}
	dest = append(dest, &s.SingleFeatureUsers, &s.MultipleFeatureUsers, &s.AvgDAU, &s.AvgWAU, &s.AvgMAU)

	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).Scan(dest...)
	metrics.ObserveQuery("comprehensive", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("comprehensive metrics query failed")
		return nil, fmt.Errorf("comprehensive metrics: %w", err)
	}
	for i, f := range feats {
		s.FeatureUsers[f] = featureUsers[i]
		s.ExclusiveUsers[f] = exclusiveUsers[i]
	}
	return s, nil
}

// FeatureMetrics is the single-feature deep dive. The averaging rule matches
// the overview query: periods with no activity are simply absent, they do not
// contribute zero rows to the denominator.
func (r *PostgresMetricsRepo) FeatureMetrics(ctx context.Context, rng model.DateRange, feature model.Feature) (*model.FeatureMetrics, error) {
	b := &binder{}
	bd := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	windowed := activityUnion(b, []model.Feature{feature}, bd, r.excludedProvider)
	allTime := activityUnion(b, []model.Feature{feature}, bounds{end: bd.end}, r.excludedProvider)

	q := fmt.Sprintf(`
WITH users_filtered AS (
    SELECT id::TEXT AS user_id, DATE(created_at) AS signup_date
    FROM users
    WHERE DATE(created_at) BETWEEN %[1]s AND %[2]s
      AND restricted = false
),
feature_usage AS (
%[3]s
),
feature_history AS (
%[4]s
),
user_first_activity AS (
    SELECT user_id, MIN(activity_date) AS first_activity_date
    FROM feature_history
    GROUP BY user_id
),
first_time_users AS (
    SELECT uf.user_id
    FROM users_filtered uf
    JOIN user_first_activity ufa ON uf.user_id = ufa.user_id
    WHERE ufa.first_activity_date >= uf.signup_date
      AND ufa.first_activity_date BETWEEN %[1]s AND %[2]s
),
recurring_users AS (
    SELECT user_id
    FROM feature_usage
    GROUP BY user_id
    HAVING COUNT(DISTINCT activity_date) > 1
),
dau AS (
    SELECT activity_date, COUNT(DISTINCT user_id) AS n
    FROM feature_usage GROUP BY activity_date
),
wau AS (
    SELECT DATE_TRUNC('week', activity_date)::DATE AS week, COUNT(DISTINCT user_id) AS n
    FROM feature_usage GROUP BY 1
),
mau AS (
    SELECT DATE_TRUNC('month', activity_date)::DATE AS month, COUNT(DISTINCT user_id) AS n
    FROM feature_usage GROUP BY 1
)
SELECT
    (SELECT COUNT(DISTINCT user_id) FROM feature_usage) AS total_active_users,
    (SELECT COUNT(*) FROM first_time_users) AS first_time_users,
    (SELECT COUNT(*) FROM recurring_users) AS recurring_users,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM dau) AS avg_dau,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM wau) AS avg_wau,
    (SELECT COALESCE(AVG(n), 0)::FLOAT8 FROM mau) AS avg_mau;
`, bd.start, bd.end, windowed, allTime)

	m := &model.FeatureMetrics{Range: rng, Feature: feature}
	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).
		Scan(&m.TotalActiveUsers, &m.FirstTimeUsers, &m.RecurringUsers, &m.AvgDAU, &m.AvgWAU, &m.AvgMAU)
	metrics.ObserveQuery("feature_metrics", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Str("feature", feature.String()).Msg("feature metrics query failed")
		return nil, fmt.Errorf("feature metrics %s: %w", feature, err)
	}
	return m, nil
}

// Absolute returns cumulative totals with only an upper date bound; the
// caller's selected range does not scope these.
func (r *PostgresMetricsRepo) Absolute(ctx context.Context, end time.Time) (*model.AbsoluteMetrics, error) {
	b := &binder{}
	bd := bounds{end: b.bind(end)}
	union := activityUnion(b, model.AllFeatures(), bd, r.excludedProvider)

	q := fmt.Sprintf(`
WITH feature_usage AS (
%[1]s
)
SELECT
    (SELECT COUNT(*) FROM users WHERE DATE(created_at) <= %[2]s AND restricted = false) AS absolute_total_signups,
    (SELECT COUNT(DISTINCT user_id) FROM feature_usage) AS absolute_total_active_users;
`, union, bd.end)

	m := &model.AbsoluteMetrics{}
	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).Scan(&m.TotalSignups, &m.TotalActiveUsers)
	metrics.ObserveQuery("absolute", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("absolute metrics query failed")
		return nil, fmt.Errorf("absolute metrics: %w", err)
	}
	return m, nil
}
