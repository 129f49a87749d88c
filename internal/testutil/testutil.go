package testutil

import (
	"database/sql"
	"testing"

	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/repository/postgres"
	"github.com/pratik-mahalle/reminderflow/migrations"
)

// NewTestDB creates an in-memory SQLite database with the real schema applied
func NewTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	db, err := postgres.New(config.DatabaseConfig{Driver: postgres.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := postgres.RunMigrations(db, migrations.Files); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { CleanupDB(db.DB) })
	return db
}

// CleanupDB closes the database connection
func CleanupDB(db *sql.DB) {
	if db != nil {
		db.Close()
	}
}

// NewTestLogger returns a logger that only emits errors
func NewTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}
