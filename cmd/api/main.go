package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rentable/rentable-backend/api/routes"
	"github.com/rentable/rentable-backend/internal/availability"
	"github.com/rentable/rentable-backend/internal/blackouts"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/internal/reconcile"
	"github.com/rentable/rentable-backend/internal/reservations"
	"github.com/rentable/rentable-backend/internal/settings"
	"github.com/rentable/rentable-backend/internal/syncqueue"
	"github.com/rentable/rentable-backend/pkg/bookingengine"
	"github.com/rentable/rentable-backend/pkg/config"
	"github.com/rentable/rentable-backend/pkg/db"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/metrics"
	"github.com/rentable/rentable-backend/pkg/migrate"
	"github.com/rentable/rentable-backend/pkg/redis"
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

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	itemRepo := inventory.NewRepository(dbClient.DB())
	windowRepo := blackouts.NewWindowRepository(dbClient.DB())
	maintenanceRepo := blackouts.NewMaintenanceRepository(dbClient.DB())
	reservationRepo := reservations.NewRepository(dbClient.DB())
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

	queue, err := syncqueue.New(syncqueue.Options{
		Workers:  cfg.SyncQueue.Workers,
		Capacity: cfg.SyncQueue.Capacity,
		Handlers: map[syncqueue.Kind]syncqueue.Handler{
			syncqueue.KindItem:     inventoryProjector.ProjectItem,
			syncqueue.KindBlackout: blackoutProjector.ProjectWindow,
		},
		Logger:  logg,
		Metrics: syncMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync queue", err)
		os.Exit(1)
	}
	queue.Start(context.Background())

	availabilityService, err := availability.NewService(availability.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create availability service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(itemRepo, queue, engine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	reservationService, err := reservations.NewService(dbClient, reservationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation service", err)
		os.Exit(1)
	}
	blackoutService, err := blackouts.NewService(dbClient, windowRepo, maintenanceRepo, queue)
	if err != nil {
		logg.Error(context.Background(), "failed to create blackout service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(tenantRepo, settingsProjector, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}
	reporter, err := reconcile.NewReporter(itemRepo, windowRepo, engine, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync reporter", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"sync_enabled": engine.Enabled(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			Availability:       availabilityService,
			Inventory:          inventoryService,
			Reservations:       reservationService,
			Blackouts:          blackoutService,
			Settings:           settingsService,
			Reporter:           reporter,
			InventoryProjector: inventoryProjector,
			BlackoutProjector:  blackoutProjector,
			SettingsProjector:  settingsProjector,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "http shutdown failed", err)
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		logg.Error(shutdownCtx, "sync queue drain failed", err)
	}
	logg.Info(shutdownCtx, "api server stopped")
}
