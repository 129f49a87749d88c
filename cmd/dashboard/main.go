package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/backend"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/prefs"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/dashboard"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

func main() {
	cfg, err := config.LoadDashboard()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	logger.SetGlobal(log)

	preferences, err := prefs.Open(cfg.Dashboard.PreferencesPath)
	if err != nil {
		log.Fatalf("Failed to open preferences: %v", err)
	}

	catalog, err := i18n.New()
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	api := client.NewClient(client.Config{
		BaseURL: cfg.Dashboard.APIBaseURL,
		Timeout: cfg.Dashboard.APITimeout,
	})
	b := backend.New(api, preferences, log)

	store := session.New(b, b, preferences, session.ColorScheme(cfg.Dashboard.ColorScheme), log)
	defer store.Close()

	toasts := toast.NewQueue()
	flow := authflow.New(b, store, toasts, catalog, preferences, log)

	server, err := dashboard.New(dashboard.Deps{
		Config:  cfg.Dashboard,
		Store:   store,
		Toasts:  toasts,
		Flow:    flow,
		Auth:    b,
		API:     api,
		Prefs:   preferences,
		Catalog: catalog,
		Logger:  log,
	})
	if err != nil {
		log.Fatalf("Failed to build dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go store.Initialize(ctx)

	refresher := backend.NewRefresher(b, cfg.Dashboard.RefreshSchedule, log)
	go func() {
		if err := refresher.Start(ctx); err != nil {
			log.ErrorWithErr(err, "Token refresher failed to start")
		}
	}()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Dashboard.Host, cfg.Dashboard.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// event streams end with the process context
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        httpServer.Addr,
			"api":         cfg.Dashboard.APIBaseURL,
			"preferences": preferences.Path(),
		}).Info("Dashboard listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down dashboard")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
