package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/advanced-shipping/api/controllers"
	"github.com/angelmondragon/advanced-shipping/api/routes"
	"github.com/angelmondragon/advanced-shipping/internal/checkout"
	"github.com/angelmondragon/advanced-shipping/internal/orders"
	"github.com/angelmondragon/advanced-shipping/internal/products"
	"github.com/angelmondragon/advanced-shipping/internal/settings"
	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/clock"
	"github.com/angelmondragon/advanced-shipping/pkg/config"
	"github.com/angelmondragon/advanced-shipping/pkg/db"
	"github.com/angelmondragon/advanced-shipping/pkg/logger"
	"github.com/angelmondragon/advanced-shipping/pkg/metrics"
	"github.com/angelmondragon/advanced-shipping/pkg/migrate"
	"github.com/angelmondragon/advanced-shipping/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.OptionsFor("api", cfg.App))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
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

	settingsParams := settings.ServiceParams{
		Repo:     settings.NewRepository(dbClient.DB()),
		CacheTTL: cfg.Redis.SnapshotTTL,
		Logger:   logg,
	}
	var redisPinger controllers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer redisClient.Close()
		settingsParams.Cache = redisClient
		redisPinger = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, settings snapshot cache disabled")
	}

	params, err := buildServices(settingsParams, dbClient, shipping.NewCalculator(clock.NewSystem(), loc), logg)
	if err != nil {
		return err
	}
	params.Config = cfg
	params.Logger = logg
	params.DB = dbClient
	params.Redis = redisPinger
	params.Gatherer = prometheus.DefaultGatherer
	params.HTTP = metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"timezone": loc.String(),
	})
	logg.Info(ctx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logg.Info(ctx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

// buildServices wires the domain services shared by every route.
func buildServices(settingsParams settings.ServiceParams, dbClient *db.Client, calculator *shipping.Calculator, logg *logger.Logger) (routes.RouterParams, error) {
	settingsService, err := settings.NewService(settingsParams)
	if err != nil {
		return routes.RouterParams{}, fmt.Errorf("settings service: %w", err)
	}
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Settings:   settingsService,
		Calculator: calculator,
		Metrics:    metrics.NewShippingMetrics(prometheus.DefaultRegisterer),
		Logger:     logg,
	})
	if err != nil {
		return routes.RouterParams{}, fmt.Errorf("checkout service: %w", err)
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:     orders.NewRepository(dbClient.DB()),
		Checkout: checkoutService,
		Settings: settingsService,
		Logger:   logg,
	})
	if err != nil {
		return routes.RouterParams{}, fmt.Errorf("orders service: %w", err)
	}
	productsService, err := products.NewService(settingsService, calculator)
	if err != nil {
		return routes.RouterParams{}, fmt.Errorf("products service: %w", err)
	}
	return routes.RouterParams{
		Checkout: checkoutService,
		Orders:   ordersService,
		Products: productsService,
		Settings: settingsService,
	}, nil
}
