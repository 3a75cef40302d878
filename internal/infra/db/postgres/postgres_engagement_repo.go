package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/metrics"
)

var _ repository.EngagementRepository = (*PostgresEngagementRepo)(nil)

type PostgresEngagementRepo struct {
	pool             *pgxpool.Pool
	excludedProvider string
	log              *zerolog.Logger
}

func NewPostgresEngagementRepo(pool *pgxpool.Pool, excludedProvider string, logger *zerolog.Logger) *PostgresEngagementRepo {
	return &PostgresEngagementRepo{pool: pool, excludedProvider: excludedProvider, log: logger}
}

// Dormancy classifies users active in the lookback window [start-N, start)
// but silent within the analysis range. Per-feature dormancy applies the same
// rule to that feature's activity only.
func (r *PostgresEngagementRepo) Dormancy(ctx context.Context, rng model.DateRange, lookbackDays int) (*model.DormancySnapshot, error) {
	lookStart := rng.Start.AddDate(0, 0, -lookbackDays)
	lookEnd := rng.Start.AddDate(0, 0, -1)

	b := &binder{}
	look := bounds{start: b.bind(lookStart), end: b.bind(lookEnd)}
	cur := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	lookback := activityUnion(b, model.AllFeatures(), look, r.excludedProvider)
	current := activityUnion(b, model.AllFeatures(), cur, r.excludedProvider)
	history := activityUnion(b, model.AllFeatures(), bounds{end: cur.end}, r.excludedProvider)

	feats := model.AllFeatures()
	featureCols := ""
	for _, f := range feats {
		featureCols += fmt.Sprintf(`    (SELECT COUNT(DISTINCT l.user_id) FROM lookback l
     WHERE l.feature = '%[1]s' AND NOT EXISTS (
         SELECT 1 FROM current c WHERE c.user_id = l.user_id AND c.feature = '%[1]s')) AS %[1]s_dormant_users,
`, f)
	}

	q := fmt.Sprintf(`
WITH lookback AS (
%[1]s
),
current AS (
%[2]s
),
history AS (
%[3]s
)
SELECT
    (SELECT COUNT(DISTINCT l.user_id) FROM lookback l
     WHERE NOT EXISTS (SELECT 1 FROM current c WHERE c.user_id = l.user_id)) AS overall_dormant_users,
%[4]s    (SELECT COUNT(DISTINCT user_id) FROM history) AS total_historical_users,
    (SELECT COUNT(DISTINCT user_id) FROM current) AS total_current_users;
`, lookback, current, history, featureCols)

	s := &model.DormancySnapshot{
		Range:            rng,
		LookbackDays:     lookbackDays,
		DormantByFeature: make(map[model.Feature]int, len(feats)),
	}
	perFeature := make([]int, len(feats))
	dest := []any{&s.OverallDormantUsers}
	for i := range feats {
		dest = append(dest, &perFeature[i])
	}
	dest = append(dest, &s.TotalHistoricalUsers, &s.TotalCurrentUsers)

	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).Scan(dest...)
	metrics.ObserveQuery("dormancy", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Int("lookback_days", lookbackDays).Msg("dormancy query failed")
		return nil, fmt.Errorf("dormancy: %w", err)
	}
	for i, f := range feats {
		s.DormantByFeature[f] = perFeature[i]
	}
	return s, nil
}

// Churn counts users with any activity up to the range end but none inside
// the range itself.
func (r *PostgresEngagementRepo) Churn(ctx context.Context, rng model.DateRange) (*model.ChurnSnapshot, error) {
	b := &binder{}
	cur := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	history := activityUnion(b, model.AllFeatures(), bounds{end: cur.end}, r.excludedProvider)
	current := activityUnion(b, model.AllFeatures(), cur, r.excludedProvider)

	q := fmt.Sprintf(`
WITH history AS (
%[1]s
),
current AS (
%[2]s
)
SELECT COUNT(DISTINCT h.user_id)
FROM history h
WHERE NOT EXISTS (SELECT 1 FROM current c WHERE c.user_id = h.user_id);
`, history, current)

	s := &model.ChurnSnapshot{Range: rng}
	start := time.Now()
	err := r.pool.QueryRow(ctx, q, b.args...).Scan(&s.ChurnedUsers)
	metrics.ObserveQuery("churn", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("churn query failed")
		return nil, fmt.Errorf("churn: %w", err)
	}
	return s, nil
}

// FeatureCombinations groups multi-feature users by the sorted set of
// features they touched. Percentages are shares of multi-feature users, not
// of all active users.
func (r *PostgresEngagementRepo) FeatureCombinations(ctx context.Context, rng model.DateRange) ([]model.FeatureCombination, error) {
	b := &binder{}
	bd := bounds{start: b.bind(rng.Start), end: b.bind(rng.End)}
	activity := activityUnion(b, model.AllFeatures(), bd, r.excludedProvider)

	q := fmt.Sprintf(`
WITH feature_usage AS (
%[1]s
),
per_user AS (
    SELECT user_id,
           STRING_AGG(DISTINCT feature, ' + ' ORDER BY feature) AS combo,
           COUNT(DISTINCT feature) AS feature_count
    FROM feature_usage
    GROUP BY user_id
),
multi AS (
    SELECT * FROM per_user WHERE feature_count >= 2
)
SELECT combo,
       COUNT(*) AS users,
       COUNT(*)::FLOAT8 * 100 / (SELECT COUNT(*) FROM multi) AS percentage
FROM multi
GROUP BY combo
ORDER BY users DESC, combo;
`, activity)

	start := time.Now()
	rows, err := r.pool.Query(ctx, q, b.args...)
	metrics.ObserveQuery("feature_combinations", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("feature combinations query failed")
		return nil, fmt.Errorf("feature combinations: %w", err)
	}
	defer rows.Close()

	var combos []model.FeatureCombination
	for rows.Next() {
		var c model.FeatureCombination
		if err := rows.Scan(&c.Label, &c.Users, &c.Percentage); err != nil {
			return nil, fmt.Errorf("feature combinations scan: %w", err)
		}
		c.Features = lo.Map(strings.Split(c.Label, " + "), func(tag string, _ int) model.Feature {
			return model.Feature(tag)
		})
		combos = append(combos, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feature combinations rows: %w", err)
	}
	return combos, nil
}
