package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"path/filepath"
	"testing"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/config"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/migrations"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory SQLite database with the real schema applied
func newTestDB(t *testing.T) *DB {
	t.Helper()

	raw, err := sql.Open("sqlite", sqliteDSN(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	raw.SetMaxOpenConns(1)

	db := Wrap(raw, DriverSQLite)
	if _, err := RunMigrations(db, migrations.Files); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { raw.Close() })
	return db
}

// seedBusiness creates a user and a business owned by it
func seedBusiness(t *testing.T, db *DB, email string) *business.Business {
	t.Helper()
	ctx := context.Background()

	u := &user.User{Email: email, PasswordHash: "hash"}
	if err := NewUserRepository(db).Create(ctx, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	b := &business.Business{UserID: u.ID, Name: "Salon " + email}
	if err := NewBusinessRepository(db).Create(ctx, b); err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return b
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "sqlite untouched",
			driver: DriverSQLite,
			query:  "SELECT * FROM users WHERE id = ? AND email = ?",
			want:   "SELECT * FROM users WHERE id = ? AND email = ?",
		},
		{
			name:   "postgres numbered",
			driver: DriverPostgres,
			query:  "SELECT * FROM users WHERE id = ? AND email = ?",
			want:   "SELECT * FROM users WHERE id = $1 AND email = $2",
		},
		{
			name:   "postgres skips quoted literal",
			driver: DriverPostgres,
			query:  "SELECT '?' FROM users WHERE id = ?",
			want:   "SELECT '?' FROM users WHERE id = $1",
		},
		{
			name:   "no placeholders",
			driver: DriverPostgres,
			query:  "SELECT 1",
			want:   "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := Wrap(nil, tt.driver)
			if got := db.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	applied, err := RunMigrations(db, migrations.Files)
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("RunMigrations() applied %d migrations on second run, want 0", applied)
	}

	status, err := MigrationStatus(db, migrations.Files)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if !status["001_init.sql"] {
		t.Errorf("MigrationStatus() = %v, want 001_init.sql applied", status)
	}
}

func TestDB_HealthCheck(t *testing.T) {
	db := newTestDB(t)
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestNullHelpers(t *testing.T) {
	if got := stringPtr(nullString(nil)); got != nil {
		t.Errorf("stringPtr(nullString(nil)) = %v, want nil", *got)
	}
	s := "x"
	if got := stringPtr(nullString(&s)); got == nil || *got != "x" {
		t.Errorf("stringPtr(nullString(&x)) = %v", got)
	}

	if got := timePtr(nullUnix(nil)); got != nil {
		t.Errorf("timePtr(nullUnix(nil)) = %v, want nil", got)
	}
	now := time.Unix(time.Now().Unix(), 0)
	if got := timePtr(nullUnix(&now)); got == nil || !got.Equal(now) {
		t.Errorf("timePtr(nullUnix(now)) = %v, want %v", got, now)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: ":memory:", want: ":memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
		{path: "data/rf.db", want: "data/rf.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
		{path: "file:rf.db?cache=shared", want: "file:rf.db?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"},
	}

	for _, tt := range tests {
		if got := sqliteDSN(tt.path); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNew_SQLiteCascadeSurvivesReconnect(t *testing.T) {
	ctx := context.Background()
	db, err := New(config.DatabaseConfig{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "reminderflow.db")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := RunMigrations(db, migrations.Files); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	b := seedBusiness(t, db, "owner@example.com")
	appt := seedAppointment(t, db, b.ID, "Anna", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), appointment.StatusScheduled)
	if err := NewReminderRepository(db).Create(ctx, &reminder.Reminder{AppointmentID: appt.ID, Channel: "sms", ScheduledFor: appt.StartTime.Add(-time.Hour)}); err != nil {
		t.Fatalf("Create() reminder error = %v", err)
	}

	// Drop the pooled connection so the next query opens a fresh one
	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn() error = %v", err)
	}
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()

	var fk int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("PRAGMA foreign_keys error = %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d on reconnected connection, want 1", fk)
	}

	if err := NewAppointmentRepository(db).Delete(ctx, appt.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	var orphans int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reminders WHERE appointment_id = ?", appt.ID).Scan(&orphans); err != nil {
		t.Fatalf("count reminders error = %v", err)
	}
	if orphans != 0 {
		t.Errorf("%d reminders left after appointment delete, want 0", orphans)
	}
}
