package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// AnalyticsRepository implements analytics.Repository
type AnalyticsRepository struct {
	db *DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *DB) analytics.Repository {
	return &AnalyticsRepository{db: db}
}

// ListDaily lists the daily rows of a business within an inclusive date range
func (r *AnalyticsRepository) ListDaily(ctx context.Context, businessID, from, to string) ([]*analytics.Daily, error) {
	query := `
		SELECT id, business_id, date, reminders_sent, reminders_delivered, confirmations,
		       cancellations, no_shows, sms_cost
		FROM analytics_daily
		WHERE business_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, businessID, from, to)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list analytics", err)
	}
	defer rows.Close()

	items := []*analytics.Daily{}
	for rows.Next() {
		var d analytics.Daily
		if err := rows.Scan(
			&d.ID, &d.BusinessID, &d.Date, &d.RemindersSent, &d.RemindersDelivered,
			&d.Confirmations, &d.Cancellations, &d.NoShows, &d.SMSCost,
		); err != nil {
			return nil, errors.DatabaseError("Failed to scan analytics", err)
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate analytics", err)
	}
	return items, nil
}

// Compute aggregates reminder and appointment counters for a business over [start, end)
func (r *AnalyticsRepository) Compute(ctx context.Context, businessID string, start, end time.Time, smsUnitCost float64) (*analytics.Daily, error) {
	d := &analytics.Daily{
		BusinessID: businessID,
		Date:       start.UTC().Format(analytics.DateLayout),
	}

	var smsSent int
	reminderQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN r.status IN (?, ?) THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN r.status IN (?, ?) AND r.channel = ? THEN 1 ELSE 0 END), 0)
		FROM reminders r
		JOIN appointments a ON a.id = r.appointment_id
		WHERE a.business_id = ? AND r.sent_at >= ? AND r.sent_at < ?
	`
	err := r.db.QueryRowContext(ctx, reminderQuery,
		reminder.StatusSent, reminder.StatusDelivered,
		reminder.StatusDelivered,
		reminder.StatusSent, reminder.StatusDelivered, settings.ChannelSMS,
		businessID, start.Unix(), end.Unix(),
	).Scan(&d.RemindersSent, &d.RemindersDelivered, &smsSent)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count reminders", err)
	}

	appointmentQuery := `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM appointments
		WHERE business_id = ? AND start_time >= ? AND start_time < ?
	`
	err = r.db.QueryRowContext(ctx, appointmentQuery,
		appointment.StatusConfirmed, appointment.StatusCancelled, appointment.StatusNoShow,
		businessID, start.Unix(), end.Unix(),
	).Scan(&d.Confirmations, &d.Cancellations, &d.NoShows)
	if err != nil {
		return nil, errors.DatabaseError("Failed to count appointments", err)
	}

	d.SMSCost = float64(smsSent) * smsUnitCost
	return d, nil
}

// UpsertDaily inserts the row or replaces the counters already stored for its date
func (r *AnalyticsRepository) UpsertDaily(ctx context.Context, d *analytics.Daily) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	query := `
		INSERT INTO analytics_daily (id, business_id, date, reminders_sent, reminders_delivered,
			confirmations, cancellations, no_shows, sms_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (business_id, date) DO UPDATE SET
			reminders_sent = excluded.reminders_sent,
			reminders_delivered = excluded.reminders_delivered,
			confirmations = excluded.confirmations,
			cancellations = excluded.cancellations,
			no_shows = excluded.no_shows,
			sms_cost = excluded.sms_cost
	`

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.BusinessID, d.Date, d.RemindersSent, d.RemindersDelivered,
		d.Confirmations, d.Cancellations, d.NoShows, d.SMSCost,
	)
	if err != nil {
		return errors.DatabaseError("Failed to save analytics", err)
	}
	return nil
}
