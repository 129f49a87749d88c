package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/api/handlers"
	"github.com/pratik-mahalle/reminderflow/internal/api/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
)

type Handlers struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Business    *handlers.BusinessHandler
	Settings    *handlers.SettingsHandler
	Integration *handlers.IntegrationHandler
	Appointment *handlers.AppointmentHandler
	Reminder    *handlers.ReminderHandler
	Billing     *handlers.BillingHandler
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, errors.NotFound("Route"))
	})

	// Health checks and metrics
	r.Get("/health", h.Health.Healthz)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/refresh", h.Auth.RefreshToken)
			r.Get("/auth/google/login", h.Auth.GoogleLogin)
			r.Get("/auth/google/callback", h.Auth.GoogleCallback)
			r.Get("/plans", h.Billing.Plans)
		})

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
			r.Use(middleware.UserRateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/users/{id}/business", h.Business.ByUser)

			r.Route("/businesses", func(r chi.Router) {
				r.Get("/me", h.Business.Mine)
				r.Post("/", h.Business.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Patch("/", h.Business.Update)
					r.Get("/reminder-settings", h.Settings.Get)
					r.Put("/reminder-settings", h.Settings.Upsert)
					r.Get("/integrations", h.Integration.List)
					r.Post("/integrations", h.Integration.Create)
					r.Get("/appointments", h.Appointment.List)
					r.Post("/appointments", h.Appointment.Create)
					r.Get("/reminders", h.Reminder.List)
					r.Get("/subscription", h.Billing.GetSubscription)
					r.Get("/analytics/daily", h.Billing.DailyAnalytics)
				})
			})

			r.Route("/integrations/{id}", func(r chi.Router) {
				r.Patch("/", h.Integration.Update)
				r.Delete("/", h.Integration.Delete)
			})

			r.Route("/appointments/{id}", func(r chi.Router) {
				r.Get("/", h.Appointment.Get)
				r.Patch("/", h.Appointment.Update)
				r.Delete("/", h.Appointment.Delete)
			})

			r.Patch("/subscriptions/{id}", h.Billing.UpdateSubscription)
		})
	})

	return r
}
