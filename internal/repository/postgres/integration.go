package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// IntegrationRepository implements integration.Repository
type IntegrationRepository struct {
	db *DB
}

// NewIntegrationRepository creates a new calendar integration repository
func NewIntegrationRepository(db *DB) integration.Repository {
	return &IntegrationRepository{db: db}
}

const integrationColumns = `id, business_id, provider, access_token, refresh_token, calendar_id, sync_enabled, last_sync_at, created_at`

// ListByBusinessID lists the integrations of a business, oldest first
func (r *IntegrationRepository) ListByBusinessID(ctx context.Context, businessID string) ([]*integration.CalendarIntegration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+integrationColumns+` FROM calendar_integrations WHERE business_id = ? ORDER BY created_at, id`,
		businessID,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list integrations", err)
	}
	defer rows.Close()

	items := []*integration.CalendarIntegration{}
	for rows.Next() {
		c, err := scanIntegration(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan integration", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate integrations", err)
	}
	return items, nil
}

// Create creates a new integration
func (r *IntegrationRepository) Create(ctx context.Context, c *integration.CalendarIntegration) error {
	now := time.Now().Unix()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Unix(now, 0)

	query := `
		INSERT INTO calendar_integrations (id, business_id, provider, access_token, refresh_token,
			calendar_id, sync_enabled, last_sync_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.BusinessID, c.Provider, nullString(c.AccessToken), nullString(c.RefreshToken),
		nullString(c.CalendarID), c.SyncEnabled, nullUnix(c.LastSyncAt), now,
	)
	if err != nil {
		return errors.DatabaseError("Failed to create integration", err)
	}
	return nil
}

// Update applies patch and returns the updated integration
func (r *IntegrationRepository) Update(ctx context.Context, id string, patch integration.Patch) (*integration.CalendarIntegration, error) {
	var set setClause
	if patch.AccessToken != nil {
		set.add("access_token", *patch.AccessToken)
	}
	if patch.RefreshToken != nil {
		set.add("refresh_token", *patch.RefreshToken)
	}
	if patch.CalendarID != nil {
		set.add("calendar_id", *patch.CalendarID)
	}
	if patch.SyncEnabled != nil {
		set.add("sync_enabled", *patch.SyncEnabled)
	}
	if patch.LastSyncAt != nil {
		set.add("last_sync_at", patch.LastSyncAt.Unix())
	}

	if !set.empty() {
		result, err := r.db.ExecContext(ctx,
			`UPDATE calendar_integrations SET `+set.sql()+` WHERE id = ?`,
			append(set.args, id)...,
		)
		if err != nil {
			return nil, errors.DatabaseError("Failed to update integration", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, errors.NotFound("Integration")
		}
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+integrationColumns+` FROM calendar_integrations WHERE id = ?`, id)
	c, err := scanIntegration(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Integration")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get integration", err)
	}
	return c, nil
}

// Delete deletes an integration
func (r *IntegrationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM calendar_integrations WHERE id = ?`, id); err != nil {
		return errors.DatabaseError("Failed to delete integration", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIntegration(s scanner) (*integration.CalendarIntegration, error) {
	var c integration.CalendarIntegration
	var access, refresh, calendarID sql.NullString
	var lastSync sql.NullInt64
	var createdAt int64

	if err := s.Scan(
		&c.ID, &c.BusinessID, &c.Provider, &access, &refresh, &calendarID,
		&c.SyncEnabled, &lastSync, &createdAt,
	); err != nil {
		return nil, err
	}

	c.AccessToken = stringPtr(access)
	c.RefreshToken = stringPtr(refresh)
	c.CalendarID = stringPtr(calendarID)
	c.LastSyncAt = timePtr(lastSync)
	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}
