package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/reminderflow/internal/api"
	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/repository/postgres"
	"github.com/pratik-mahalle/reminderflow/internal/worker"
	"github.com/pratik-mahalle/reminderflow/migrations"
)

func main() {
	cfg, err := config.Load()
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

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	applied, err := postgres.RunMigrations(db, migrations.Files)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.WithFields(map[string]interface{}{
		"driver":  db.Driver(),
		"applied": applied,
	}).Info("Database ready")

	server := api.New(cfg, db, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Worker.AnalyticsEnabled {
		rollup := worker.NewAnalyticsRollup(
			server.Repos.Businesses,
			server.Repos.Analytics,
			cfg.Worker.AnalyticsSchedule,
			cfg.Worker.SMSUnitCost,
			log,
		)
		go func() {
			if err := rollup.Start(ctx); err != nil {
				log.ErrorWithErr(err, "Analytics roll-up worker failed to start")
			}
		}()
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
}
