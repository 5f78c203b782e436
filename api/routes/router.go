package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentable/rentable-backend/api/controllers"
	"github.com/rentable/rentable-backend/api/middleware"
	"github.com/rentable/rentable-backend/internal/availability"
	"github.com/rentable/rentable-backend/internal/blackouts"
	"github.com/rentable/rentable-backend/internal/inventory"
	"github.com/rentable/rentable-backend/internal/reconcile"
	"github.com/rentable/rentable-backend/internal/reservations"
	"github.com/rentable/rentable-backend/internal/settings"
	"github.com/rentable/rentable-backend/pkg/config"
	"github.com/rentable/rentable-backend/pkg/logger"
	"github.com/rentable/rentable-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     pinger
	Redis  *redis.Client

	Availability availability.Service
	Inventory    inventory.Service
	Reservations reservations.Service
	Blackouts    blackouts.Service
	Settings     settings.Service

	Reporter           *reconcile.Reporter
	InventoryProjector *inventory.Projector
	BlackoutProjector  *blackouts.Projector
	SettingsProjector  *settings.Projector
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	availabilityPolicy := middleware.NewRateLimitPolicy(
		"availability",
		cfg.RateLimit.AvailabilityWindow,
		cfg.RateLimit.AvailabilityIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.TenantContext(logg))

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(deps.Inventory, logg))
			r.Post("/", controllers.CreateItem(deps.Inventory, logg))
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(deps.Inventory, logg))
				r.Patch("/", controllers.UpdateItem(deps.Inventory, logg))
				r.Delete("/", controllers.DeleteItem(deps.Inventory, logg))
				r.Post("/resync", controllers.ResyncItem(deps.Inventory, logg))
				r.With(middleware.RateLimit(availabilityPolicy, deps.Redis, logg)).
					Get("/availability", controllers.CheckAvailability(deps.Availability, logg))
			})
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", controllers.ListReservations(deps.Reservations, logg))
			r.Post("/", controllers.CreateReservation(deps.Reservations, logg))
			r.Route("/{reservationID}", func(r chi.Router) {
				r.Get("/", controllers.GetReservation(deps.Reservations, logg))
				r.Patch("/status", controllers.UpdateReservationStatus(deps.Reservations, logg))
				r.Post("/cancel", controllers.CancelReservation(deps.Reservations, logg))
			})
		})

		r.Route("/blackouts", func(r chi.Router) {
			r.Get("/", controllers.ListBlackouts(deps.Blackouts, logg))
			r.Post("/", controllers.CreateBlackout(deps.Blackouts, logg))
			r.Route("/{blackoutID}", func(r chi.Router) {
				r.Get("/", controllers.GetBlackout(deps.Blackouts, logg))
				r.Patch("/", controllers.UpdateBlackout(deps.Blackouts, logg))
				r.Post("/deactivate", controllers.DeactivateBlackout(deps.Blackouts, logg))
			})
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Get("/", controllers.ListMaintenance(deps.Blackouts, logg))
			r.Post("/", controllers.ScheduleMaintenance(deps.Blackouts, logg))
			r.Route("/{maintenanceID}", func(r chi.Router) {
				r.Get("/", controllers.GetMaintenance(deps.Blackouts, logg))
				r.Post("/start", controllers.StartMaintenance(deps.Blackouts, logg))
				r.Post("/complete", controllers.CompleteMaintenance(deps.Blackouts, logg))
				r.Post("/cancel", controllers.CancelMaintenance(deps.Blackouts, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(deps.Settings, logg))
			r.Patch("/", controllers.UpdateSettings(deps.Settings, logg))
		})

		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", controllers.SyncStatus(deps.Reporter, logg))
			r.Post("/run", controllers.SyncRun(deps.InventoryProjector, deps.BlackoutProjector, deps.SettingsProjector, logg))
		})
	})

	return r
}
