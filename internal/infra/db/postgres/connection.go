package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"ladder-analytics/internal/config"
	"ladder-analytics/internal/domain"
	"ladder-analytics/internal/infra/metrics"
)

// NewPgxPool opens a connection pool against the analytical database.
// Unreachable host, rejected credentials and unknown database all collapse to
// domain.ErrUnavailable; the specific cause is logged here once so callers can
// degrade to empty results without re-reporting.
func NewPgxPool(ctx context.Context, cfg config.DatabaseConfig, maxConns int32, log *zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "28P01":
			log.Error().Str("user", cfg.User).Msg("database authentication rejected")
		case errors.As(err, &pgErr) && pgErr.Code == "3D000":
			log.Error().Str("database", cfg.Name).Msg("unknown database")
		default:
			log.Error().Err(err).Str("host", cfg.Host).Msg("database unreachable")
		}
		return nil, domain.ErrUnavailable
	}
	return pool, nil
}

// ReportPoolStats pushes pool gauges to prometheus until ctx is cancelled.
func ReportPoolStats(ctx context.Context, pool *pgxpool.Pool, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st := pool.Stat()
			metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		}
	}
}
