package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/advanced-shipping/internal/cron"
	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/pkg/clock"
	"github.com/angelmondragon/advanced-shipping/pkg/config"
	"github.com/angelmondragon/advanced-shipping/pkg/db"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/metrics"
	"github.com/angelmondragon/advanced-shipping/pkg/migrate"
	"github.com/angelmondragon/advanced-shipping/pkg/redis"
)

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.OptionsFor("cron-worker", cfg.App))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg, *once); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, once bool) error {
	loc, err := cfg.Store.Location()
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	// The lock needs Redis even when the API runs without a cache.
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("bootstrap redis: %w", err)
	}
	defer redisClient.Close()

	settingsService, err := settings.NewService(settings.ServiceParams{
		Repo:     settings.NewRepository(dbClient.DB()),
		Cache:    redisClient,
		CacheTTL: cfg.Redis.SnapshotTTL,
		Logger:   logg,
	})
	if err != nil {
		return err
	}

	expiredDates, err := cron.NewExpiredDatesJob(cron.ExpiredDatesJobParams{
		Logger:   logg,
		Pruner:   settingsService,
		Clock:    clock.NewSystem(),
		Location: loc,
	})
	if err != nil {
		return err
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker", cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   cron.NewRegistry(expiredDates),
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"timezone": loc.String(),
		"once":     once,
	})
	logg.Info(ctx, "starting cron worker")

	if once {
		return service.RunOnce(ctx)
	}

	if addr := cfg.Cron.MetricsAddr; addr != "" {
		stopMetrics := serveMetrics(ctx, logg, addr)
		defer stopMetrics()
	}
	return service.Run(ctx)
}

// serveMetrics exposes the default registry so job outcomes can be scraped
// from long-running workers.
func serveMetrics(ctx context.Context, logg *logger.Logger, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "metrics listener failed", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
