package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velocityparts/storefront/api/controllers"
	"github.com/velocityparts/storefront/api/routes"
	"github.com/velocityparts/storefront/internal/backend"
	"github.com/velocityparts/storefront/internal/currency"
	"github.com/velocityparts/storefront/internal/orchestrator"
	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/internal/promo"
	"github.com/velocityparts/storefront/pkg/config"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/metrics"
	"github.com/velocityparts/storefront/pkg/redis"
)

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

	storefrontMetrics := metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer)

	var snapshots persist.SnapshotStore
	var readiness []controllers.Pinger
	switch strings.ToLower(cfg.Snapshot.Backend) {
	case config.SnapshotBackendRedis:
		redisClient, err := redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		snapshots = persist.NewRedisStore(redisClient)
		readiness = append(readiness, redisClient)
	case config.SnapshotBackendSQLite:
		sqliteStore, err := persist.NewSQLiteStore(cfg.Snapshot.SQLitePath)
		if err != nil {
			logg.Error(context.Background(), "failed to open snapshot database", err)
			os.Exit(1)
		}
		snapshots = sqliteStore
	default:
		snapshots = persist.NewMemoryStore()
	}

	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithMetrics(storefrontMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	sessions, err := orchestrator.NewManager(orchestrator.ManagerDeps{
		Client:    client,
		Snapshots: snapshots,
		Logger:    logg,
		Metrics:   storefrontMetrics,
		Throttle:  cfg.Sync.CartThrottle,
		Debounce:  cfg.Sync.MutationDebounce,

		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}
	defer sessions.Close()

	currencyService, err := currency.NewService(client, snapshots)
	if err != nil {
		logg.Error(context.Background(), "failed to create currency service", err)
		os.Exit(1)
	}

	promoService, err := promo.NewService(client)
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, sessions, currencyService, promoService, readiness...),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
