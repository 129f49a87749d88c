package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// SettingsRepository implements settings.Repository
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new reminder settings repository
func NewSettingsRepository(db *DB) settings.Repository {
	return &SettingsRepository{db: db}
}

// GetByBusinessID retrieves the reminder settings of a business
func (r *SettingsRepository) GetByBusinessID(ctx context.Context, businessID string) (*settings.ReminderSettings, error) {
	query := `
		SELECT id, business_id, intervals, sms_enabled, email_enabled, whatsapp_enabled,
		       default_message_template, created_at
		FROM reminder_settings WHERE business_id = ?
	`

	var s settings.ReminderSettings
	var intervals string
	var template sql.NullString
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, businessID).Scan(
		&s.ID, &s.BusinessID, &intervals, &s.SMSEnabled, &s.EmailEnabled, &s.WhatsAppEnabled,
		&template, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Reminder settings")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get reminder settings", err)
	}

	if err := json.Unmarshal([]byte(intervals), &s.Intervals); err != nil {
		return nil, errors.DatabaseError("Failed to decode reminder intervals", err)
	}
	if s.Intervals == nil {
		s.Intervals = []settings.Interval{}
	}
	s.DefaultMessageTemplate = stringPtr(template)
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}

// Upsert inserts the settings or replaces the row already stored for the business
func (r *SettingsRepository) Upsert(ctx context.Context, s *settings.ReminderSettings) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Intervals == nil {
		s.Intervals = []settings.Interval{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Unix(time.Now().Unix(), 0)
	}

	intervals, err := json.Marshal(s.Intervals)
	if err != nil {
		return errors.Internal("Failed to encode reminder intervals", err)
	}

	query := `
		INSERT INTO reminder_settings (id, business_id, intervals, sms_enabled, email_enabled,
			whatsapp_enabled, default_message_template, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (business_id) DO UPDATE SET
			intervals = excluded.intervals,
			sms_enabled = excluded.sms_enabled,
			email_enabled = excluded.email_enabled,
			whatsapp_enabled = excluded.whatsapp_enabled,
			default_message_template = excluded.default_message_template
	`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.BusinessID, string(intervals), s.SMSEnabled, s.EmailEnabled,
		s.WhatsAppEnabled, nullString(s.DefaultMessageTemplate), s.CreatedAt.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to save reminder settings", err)
	}
	return nil
}
