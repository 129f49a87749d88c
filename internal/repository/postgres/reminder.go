package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// ReminderRepository implements reminder.Repository
type ReminderRepository struct {
	db *DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *DB) reminder.Repository {
	return &ReminderRepository{db: db}
}

// ListByBusinessID lists reminders of a business with their appointment, newest first
func (r *ReminderRepository) ListByBusinessID(ctx context.Context, businessID string, filter reminder.Filter) ([]*reminder.Reminder, error) {
	query := `
		SELECT r.id, r.appointment_id, r.channel, r.status, r.scheduled_for, r.sent_at,
		       r.message_content, r.external_id, r.error_message, r.created_at,
		       a.id, a.business_id, a.external_id, a.client_name, a.client_phone, a.client_email,
		       a.service_name, a.start_time, a.end_time, a.status, a.notes, a.created_at
		FROM reminders r
		JOIN appointments a ON a.id = r.appointment_id
		WHERE a.business_id = ?
	`
	args := []any{businessID}

	if filter.Status != "" {
		query += ` AND r.status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY r.scheduled_for DESC, r.id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list reminders", err)
	}
	defer rows.Close()

	items := []*reminder.Reminder{}
	for rows.Next() {
		var rm reminder.Reminder
		var a appointment.Appointment
		var sentAt sql.NullInt64
		var content, externalID, errMsg sql.NullString
		var scheduledFor, createdAt int64
		var aExternalID, phone, email, service, notes sql.NullString
		var start, end, aCreatedAt int64

		if err := rows.Scan(
			&rm.ID, &rm.AppointmentID, &rm.Channel, &rm.Status, &scheduledFor, &sentAt,
			&content, &externalID, &errMsg, &createdAt,
			&a.ID, &a.BusinessID, &aExternalID, &a.ClientName, &phone, &email,
			&service, &start, &end, &a.Status, &notes, &aCreatedAt,
		); err != nil {
			return nil, errors.DatabaseError("Failed to scan reminder", err)
		}

		rm.ScheduledFor = time.Unix(scheduledFor, 0)
		rm.SentAt = timePtr(sentAt)
		rm.MessageContent = stringPtr(content)
		rm.ExternalID = stringPtr(externalID)
		rm.ErrorMessage = stringPtr(errMsg)
		rm.CreatedAt = time.Unix(createdAt, 0)

		a.ExternalID = stringPtr(aExternalID)
		a.ClientPhone = stringPtr(phone)
		a.ClientEmail = stringPtr(email)
		a.ServiceName = stringPtr(service)
		a.Notes = stringPtr(notes)
		a.StartTime = time.Unix(start, 0)
		a.EndTime = time.Unix(end, 0)
		a.CreatedAt = time.Unix(aCreatedAt, 0)
		rm.Appointment = &a

		items = append(items, &rm)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate reminders", err)
	}
	return items, nil
}

// Create creates a new reminder
func (r *ReminderRepository) Create(ctx context.Context, rm *reminder.Reminder) error {
	now := time.Now().Unix()
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	if rm.Status == "" {
		rm.Status = reminder.StatusPending
	}
	rm.CreatedAt = time.Unix(now, 0)

	query := `
		INSERT INTO reminders (id, appointment_id, channel, status, scheduled_for, sent_at,
			message_content, external_id, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rm.ID, rm.AppointmentID, rm.Channel, rm.Status, rm.ScheduledFor.Unix(), nullUnix(rm.SentAt),
		nullString(rm.MessageContent), nullString(rm.ExternalID), nullString(rm.ErrorMessage), now,
	)
	if err != nil {
		return errors.DatabaseError("Failed to create reminder", err)
	}
	return nil
}
