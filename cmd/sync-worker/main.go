package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rentable/rentable-backend/internal/blackouts"
	"github.com/rentable/rentable-backend/internal/cron"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/internal/reconcile"
	"github.com/rentable/rentable-backend/internal/settings"
	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/config"
	"github.com/rentable/rentable-backend/pkg/db"
	"github.com/rentable/rentable-backend/pkg/instance"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
	"github.com/rentable/rentable-backend/pkg/migrate"
	"github.com/rentable/rentable-backend/pkg/redis"
)

const lockKeyFormat = "rentable:sync-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "sync-worker"

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	engine, err := bookingengine.NewClient(context.Background(), cfg.BookingEngine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking engine client", err)
		os.Exit(1)
	}

	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)
	jobMetrics := metrics.NewCronJobMetrics(prometheus.DefaultRegisterer)

	itemRepo := inventory.NewRepository(dbClient.DB())
	windowRepo := blackouts.NewWindowRepository(dbClient.DB())
	tenantRepo := settings.NewRepository(dbClient.DB())

	inventoryProjector, err := inventory.NewProjector(itemRepo, engine, logg, syncMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory projector", err)
		os.Exit(1)
	}
	blackoutProjector, err := blackouts.NewProjector(windowRepo, itemRepo, engine, logg, syncMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create blackout projector", err)
		os.Exit(1)
	}
	settingsProjector, err := settings.NewProjector(tenantRepo, engine, logg, syncMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings projector", err)
		os.Exit(1)
	}
	reporter, err := reconcile.NewReporter(itemRepo, windowRepo, engine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync reporter", err)
		os.Exit(1)
	}

	sweepJob, err := cron.NewProjectionSweepJob(cron.ProjectionSweepJobParams{
		Logger:  logg,
		Items:   inventoryProjector,
		Windows: blackoutProjector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create projection sweep job", err)
		os.Exit(1)
	}
	reconcileJob, err := cron.NewReconcileJob(cron.ReconcileJobParams{
		Logger:   logg,
		Tenants:  tenantRepo,
		Reporter: reporter,
		Settings: settingsProjector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), cfg.SyncWorker.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(sweepJob, reconcileJob),
		Lock:     lock,
		Metrics:  jobMetrics,
		Interval: cfg.SyncWorker.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"serviceKind":  cfg.Service.Kind,
		"instance":     instance.GetID(),
		"sync_enabled": engine.Enabled(),
		"interval":     cfg.SyncWorker.Interval.String(),
	})
	logg.Info(ctx, "starting sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sync worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
