package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/souqhub/storefront/api/routes"
	cartsvc "github.com/souqhub/storefront/internal/cart"
	"github.com/souqhub/storefront/internal/catalog"
	checkoutsvc "github.com/souqhub/storefront/internal/checkout"
	"github.com/souqhub/storefront/pkg/config"
	"github.com/souqhub/storefront/pkg/db"
	"github.com/souqhub/storefront/pkg/logger"
	"github.com/souqhub/storefront/pkg/metrics"
	pkgredis "github.com/souqhub/storefront/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := catalog.Migrate(dbClient.DB()); err != nil {
		logg.Error(ctx, "failed to migrate catalog schema", err)
		os.Exit(1)
	}
	if err := catalog.Seed(ctx, dbClient.DB(), logg); err != nil {
		logg.Error(ctx, "failed to seed catalog", err)
		os.Exit(1)
	}

	// Redis backs cart snapshots and order receipts. When it is unreachable
	// the service still starts on in-memory stores: carts survive only for
	// the life of the process.
	var (
		redisClient *pkgredis.Client
		redisPinger pkgredis.Pinger
		cartRepo    cartsvc.Repository
		receiptRepo checkoutsvc.ReceiptRepository
	)
	redisClient, err = pkgredis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis unavailable, falling back to in-memory stores")
		cartRepo = cartsvc.NewMemoryRepository()
		receiptRepo = checkoutsvc.NewMemoryReceiptRepository()
		redisClient = nil
	} else {
		redisPinger = redisClient
		cartRepo, err = cartsvc.NewRedisRepository(redisClient, cfg.Cart.SnapshotTTL)
		if err != nil {
			logg.Error(ctx, "failed to build cart repository", err)
			os.Exit(1)
		}
		receiptRepo, err = checkoutsvc.NewRedisReceiptRepository(redisClient, cfg.Checkout.ReceiptTTL)
		if err != nil {
			logg.Error(ctx, "failed to build receipt repository", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	cartManager, err := cartsvc.NewManager(cartRepo, logg, cartMetrics)
	if err != nil {
		logg.Error(ctx, "failed to build cart manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), cfg.Cart.Currency)
	if err != nil {
		logg.Error(ctx, "failed to build catalog service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(receiptRepo, cfg.Checkout, cfg.Cart.Currency, logg)
	if err != nil {
		logg.Error(ctx, "failed to build checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			registry,
			httpMetrics,
			cartManager,
			catalogService,
			checkoutService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting storefront api")

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		closeErr = multierr.Append(closeErr, err)
	}
	if redisClient != nil {
		closeErr = multierr.Append(closeErr, redisClient.Close())
	}
	closeErr = multierr.Append(closeErr, dbClient.Close())

	if closeErr != nil {
		logg.Error(context.Background(), "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(context.Background(), "shutdown complete")
}
