package api

import (
	"net/http"

	"github.com/pratik-mahalle/reminderflow/internal/api/handlers"
	"github.com/pratik-mahalle/reminderflow/internal/api/router"
	"github.com/pratik-mahalle/reminderflow/internal/auth"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
	"github.com/pratik-mahalle/reminderflow/internal/repository/postgres"
	"github.com/pratik-mahalle/reminderflow/internal/services"
)

// Repositories groups the data-access layer over one database
type Repositories struct {
	Users         user.Repository
	Businesses    business.Repository
	Settings      settings.Repository
	Integrations  integration.Repository
	Appointments  appointment.Repository
	Reminders     reminder.Repository
	Subscriptions subscription.Repository
	Analytics     analytics.Repository
}

// NewRepositories creates every repository over db
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		Users:         postgres.NewUserRepository(db),
		Businesses:    postgres.NewBusinessRepository(db),
		Settings:      postgres.NewSettingsRepository(db),
		Integrations:  postgres.NewIntegrationRepository(db),
		Appointments:  postgres.NewAppointmentRepository(db),
		Reminders:     postgres.NewReminderRepository(db),
		Subscriptions: postgres.NewSubscriptionRepository(db),
		Analytics:     postgres.NewAnalyticsRepository(db),
	}
}

// Server is the assembled HTTP API
type Server struct {
	Repos   *Repositories
	Handler http.Handler
}

// New wires repositories, services and handlers into the API router
func New(cfg *config.Config, db *postgres.DB, log *logger.Logger) *Server {
	repos := NewRepositories(db)
	val := validator.New()

	userService := services.NewUserService(
		repos.Users, repos.Businesses, repos.Settings, repos.Subscriptions,
		cfg.Auth.BCryptCost, log.Component("users"),
	)
	businessService := services.NewBusinessService(repos.Businesses, repos.Settings, repos.Subscriptions, log.Component("businesses"))
	settingsService := services.NewSettingsService(repos.Settings, log.Component("settings"))
	integrationService := services.NewIntegrationService(repos.Integrations, log.Component("integrations"))
	appointmentService := services.NewAppointmentService(repos.Appointments, log.Component("appointments"))
	reminderService := services.NewReminderService(repos.Reminders, log.Component("reminders"))
	subscriptionService := services.NewSubscriptionService(repos.Subscriptions, log.Component("subscriptions"))
	analyticsService := services.NewAnalyticsService(repos.Analytics, log.Component("analytics"))

	var google handlers.GoogleAuth
	if g := cfg.OAuth.Google; g.Enabled() {
		google = auth.NewGoogleProvider(g.ClientID, g.ClientSecret, g.RedirectURL, g.Scopes, cfg.Auth.JWTSecret)
	}

	h := &router.Handlers{
		Health:      handlers.NewHealthHandler(db, log),
		Auth:        handlers.NewAuthHandler(userService, google, cfg, log, val),
		Business:    handlers.NewBusinessHandler(businessService, log, val),
		Settings:    handlers.NewSettingsHandler(settingsService, log, val),
		Integration: handlers.NewIntegrationHandler(integrationService, log, val),
		Appointment: handlers.NewAppointmentHandler(appointmentService, log, val),
		Reminder:    handlers.NewReminderHandler(reminderService, log),
		Billing:     handlers.NewBillingHandler(subscriptionService, analyticsService, log, val),
	}

	return &Server{
		Repos:   repos,
		Handler: router.New(cfg, log, h),
	}
}
