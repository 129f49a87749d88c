// Package dashboard serves the ReminderFlow web dashboard. Pages are rendered
// server-side from the session store and the data-access client; live updates
// reach the browser over Server-Sent Events.
package dashboard

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pratik-mahalle/reminderflow/internal/api/middleware"
	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

// Auth is the part of the auth service the dashboard drives directly
type Auth interface {
	CompleteOAuth(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) (*client.Session, error)
	RefreshSession(ctx context.Context) error
}

// Preferences holds the device-level display language
type Preferences interface {
	Language() string
	SetLanguage(lang string) error
}

// Deps are the collaborators of the dashboard server
type Deps struct {
	Config  config.DashboardConfig
	Store   *session.Store
	Toasts  *toast.Queue
	Flow    *authflow.Flow
	Auth    Auth
	API     *client.Client
	Prefs   Preferences
	Catalog *i18n.Catalog
	Logger  *logger.Logger
}

// Server renders the dashboard
type Server struct {
	cfg     config.DashboardConfig
	store   *session.Store
	toasts  *toast.Queue
	flow    *authflow.Flow
	auth    Auth
	api     *client.Client
	prefs   Preferences
	catalog *i18n.Catalog
	log     *logger.Logger
	views   *views

	keepAlive time.Duration
}

// New creates a dashboard server
func New(d Deps) (*Server, error) {
	if d.Store == nil || d.Toasts == nil || d.Flow == nil || d.API == nil {
		return nil, fmt.Errorf("dashboard: store, toasts, flow and api are required")
	}
	v, err := parseViews(d.Catalog)
	if err != nil {
		return nil, fmt.Errorf("dashboard: parse templates: %w", err)
	}
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		cfg:       d.Config,
		store:     d.Store,
		toasts:    d.Toasts,
		flow:      d.Flow,
		auth:      d.Auth,
		api:       d.API,
		prefs:     d.Prefs,
		catalog:   d.Catalog,
		log:       log.Component("dashboard"),
		views:     v,
		keepAlive: 25 * time.Second,
	}, nil
}

// Handler returns the dashboard's HTTP handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.log))
	r.Use(middleware.Recovery(s.log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(sameOrigin)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Handle("/metrics", metrics.Handler())

	loading := http.HandlerFunc(s.loadingPage)

	r.Get("/", s.landingPage)
	r.Get("/auth/google", s.googleStart)
	r.Get("/auth/callback", s.authCallback)
	r.Get("/auth/callback/google", s.authCallback)
	r.Get("/events", s.events)
	r.Post("/logout", s.logout)
	r.Post("/settings/theme", s.setTheme)
	r.Post("/settings/language", s.setLanguage)
	r.Post("/toasts/{id}/dismiss", s.dismissToast)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(guard.Public, s.store, loading))

		r.Get("/login", s.loginPage)
		r.Post("/login", s.loginSubmit)
		r.Get("/register", s.registerPage)
		r.Post("/register", s.registerSubmit)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(guard.Protected, s.store, loading))

		r.Get("/dashboard", s.dashboardPage)
		r.Get("/appointments", s.appointmentsPage)
		r.Post("/appointments", s.createAppointment)
		r.Post("/appointments/{id}/status", s.updateAppointmentStatus)
		r.Post("/appointments/{id}/delete", s.deleteAppointment)
		r.Get("/reminders", s.remindersPage)
		r.Get("/templates", s.templatesPage)
		r.Post("/templates", s.saveTemplate)
		r.Get("/integrations", s.integrationsPage)
		r.Post("/integrations", s.connectIntegration)
		r.Post("/integrations/{id}/sync", s.toggleIntegrationSync)
		r.Post("/integrations/{id}/delete", s.disconnectIntegration)
		r.Get("/settings", s.settingsPage)
		r.Post("/settings/business", s.saveBusiness)
		r.Post("/settings/reminders", s.saveReminderSettings)
		r.Get("/billing", s.billingPage)
		r.Post("/billing/plan", s.changePlan)
		r.Get("/help", s.helpPage)
	})

	return r
}

// sameOrigin rejects state-changing requests sent from other sites
func sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Sec-Fetch-Site") == "cross-site" {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if origin := r.Header.Get("Origin"); origin != "" && origin != "null" {
			host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
			if host != r.Host {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// language is the active display language
func (s *Server) language() string {
	if s.prefs == nil {
		return i18n.DefaultLanguage
	}
	return s.prefs.Language()
}

func (s *Server) t(key string, args ...interface{}) string {
	return s.catalog.T(s.language(), key, args...)
}

// localNext returns the form's "next" target when it is a local path
func localNext(r *http.Request, fallback string) string {
	next := r.FormValue("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
