// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ladder-analytics/internal/config"
	"ladder-analytics/internal/infra/api"
	"ladder-analytics/internal/infra/cache"
	pg "ladder-analytics/internal/infra/db/postgres"
	"ladder-analytics/internal/infra/logging"
	"ladder-analytics/internal/infra/metrics"
	"ladder-analytics/internal/infra/scheduler"
	"ladder-analytics/internal/infra/web"
	"ladder-analytics/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database, cfg.Database.MaxConns, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Repositories ----
	store := cache.New(cfg.Cache.MetricsTTL)
	metricsRepo := pg.NewMetricsRepoCacheDecorator(
		pg.NewPostgresMetricsRepo(pool, cfg.Analytics.ExcludedProvider, logger), store)
	retentionRepo := pg.NewRetentionRepoCacheDecorator(
		pg.NewPostgresRetentionRepo(pool, cfg.Analytics.ExcludedProvider, logger), store)
	trendRepo := pg.NewTrendRepoCacheDecorator(
		pg.NewPostgresTrendRepo(pool, cfg.Analytics.ExcludedProvider, logger), store)
	engagementRepo := pg.NewEngagementRepoCacheDecorator(
		pg.NewPostgresEngagementRepo(pool, cfg.Analytics.ExcludedProvider, logger), store)
	ffpRepo := pg.NewFFPRepoCacheDecorator(pg.NewPostgresFFPRepo(pool, logger))

	// The FFP tables have no TTL; a daily refresh keeps them from going
	// permanently stale.
	ffpRefresh := scheduler.NewScheduler(24*time.Hour, ffpRepo, logger)
	ffpRefresh.Start(ctx)
	defer ffpRefresh.Stop()

	// ---- Use cases ----
	dashboardUC := usecase.NewDashboardUseCase(metricsRepo, retentionRepo, trendRepo, engagementRepo, logger)
	ffpUC := usecase.NewFFPUseCase(ffpRepo, logger)

	// ---- HTTP server ----
	sessions := web.NewSessionManager(
		cfg.Server.SessionSecret,
		cfg.Server.SecureCookie && !cfg.Runtime.Dev,
		"",
		cfg.Server.SessionTTL,
	)
	srv := web.NewServer(dashboardUC, ffpUC, cfg.Server.APIKey, sessions, cfg.Analytics.DormancyLookbackDays, logger)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	handler := api.Chain(mux,
		api.Recover(logger),
		api.TraceID(logger),
		api.RequestLog(logger),
		api.Timeout(30*time.Second),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("dashboard API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
