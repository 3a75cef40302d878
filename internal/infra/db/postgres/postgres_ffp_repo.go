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

var _ repository.FFPRepository = (*PostgresFFPRepo)(nil)

// PostgresFFPRepo loads the Free Financial Plan tables whole; they are small
// dimension tables and callers filter by date in memory.
type PostgresFFPRepo struct {
	pool *pgxpool.Pool
	log  *zerolog.Logger
}

func NewPostgresFFPRepo(pool *pgxpool.Pool, logger *zerolog.Logger) *PostgresFFPRepo {
	return &PostgresFFPRepo{pool: pool, log: logger}
}

func (r *PostgresFFPRepo) Submissions(ctx context.Context) ([]model.FFPSubmission, error) {
	const q = `
SELECT id::TEXT, user_id::TEXT, COALESCE(metadata, ''), created_at
  FROM financial_simulator_v2
 ORDER BY created_at;`

	start := time.Now()
	rows, err := r.pool.Query(ctx, q)
	metrics.ObserveQuery("ffp_submissions", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("ffp submissions query failed")
		return nil, fmt.Errorf("ffp submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.FFPSubmission
	for rows.Next() {
		var s model.FFPSubmission
		if err := rows.Scan(&s.ID, &s.UserID, &s.Metadata, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("ffp submissions scan: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ffp submissions rows: %w", err)
	}
	return subs, nil
}

func (r *PostgresFFPRepo) Reviews(ctx context.Context) ([]model.FFPReview, error) {
	const q = `
SELECT id::TEXT, COALESCE(reaction, ''), COALESCE(comment, ''), created_at
  FROM financial_simulator_reviews
 ORDER BY created_at;`

	start := time.Now()
	rows, err := r.pool.Query(ctx, q)
	metrics.ObserveQuery("ffp_reviews", time.Since(start), err)
	if err != nil {
		r.log.Error().Err(err).Msg("ffp reviews query failed")
		return nil, fmt.Errorf("ffp reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.FFPReview
	for rows.Next() {
		var rv model.FFPReview
		if err := rows.Scan(&rv.ID, &rv.Reaction, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("ffp reviews scan: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ffp reviews rows: %w", err)
	}
	return reviews, nil
}
