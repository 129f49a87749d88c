package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// AppointmentRepository implements appointment.Repository
type AppointmentRepository struct {
	db *DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *DB) appointment.Repository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, business_id, external_id, client_name, client_phone, client_email,
	service_name, start_time, end_time, status, notes, created_at`

// List lists the appointments of a business ordered by start time
func (r *AppointmentRepository) List(ctx context.Context, businessID string, filter appointment.Filter) ([]*appointment.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE business_id = ?`
	args := []any{businessID}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		query += ` AND start_time <= ?`
		args = append(args, filter.To.Unix())
	}
	query += ` ORDER BY start_time ASC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list appointments", err)
	}
	defer rows.Close()

	items := []*appointment.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan appointment", err)
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate appointments", err)
	}
	return items, nil
}

// GetByID retrieves an appointment by ID
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*appointment.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Appointment")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get appointment", err)
	}
	return a, nil
}

// Create creates a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	now := time.Now().Unix()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = appointment.StatusScheduled
	}
	a.CreatedAt = time.Unix(now, 0)

	query := `
		INSERT INTO appointments (id, business_id, external_id, client_name, client_phone, client_email,
			service_name, start_time, end_time, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.BusinessID, nullString(a.ExternalID), a.ClientName, nullString(a.ClientPhone),
		nullString(a.ClientEmail), nullString(a.ServiceName), a.StartTime.Unix(), a.EndTime.Unix(),
		a.Status, nullString(a.Notes), now,
	)
	if err != nil {
		return errors.DatabaseError("Failed to create appointment", err)
	}
	return nil
}

// Update applies patch and returns the updated appointment
func (r *AppointmentRepository) Update(ctx context.Context, id string, patch appointment.Patch) (*appointment.Appointment, error) {
	var set setClause
	if patch.ClientName != nil {
		set.add("client_name", *patch.ClientName)
	}
	if patch.ClientPhone != nil {
		set.add("client_phone", *patch.ClientPhone)
	}
	if patch.ClientEmail != nil {
		set.add("client_email", *patch.ClientEmail)
	}
	if patch.ServiceName != nil {
		set.add("service_name", *patch.ServiceName)
	}
	if patch.StartTime != nil {
		set.add("start_time", patch.StartTime.Unix())
	}
	if patch.EndTime != nil {
		set.add("end_time", patch.EndTime.Unix())
	}
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.Notes != nil {
		set.add("notes", *patch.Notes)
	}

	if !set.empty() {
		result, err := r.db.ExecContext(ctx,
			`UPDATE appointments SET `+set.sql()+` WHERE id = ?`,
			append(set.args, id)...,
		)
		if err != nil {
			return nil, errors.DatabaseError("Failed to update appointment", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, errors.NotFound("Appointment")
		}
	}

	return r.GetByID(ctx, id)
}

// Delete deletes an appointment and, through the foreign key, its reminders
func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = ?`, id); err != nil {
		return errors.DatabaseError("Failed to delete appointment", err)
	}
	return nil
}

func scanAppointment(s scanner) (*appointment.Appointment, error) {
	var a appointment.Appointment
	var externalID, phone, email, service, notes sql.NullString
	var start, end, createdAt int64

	if err := s.Scan(
		&a.ID, &a.BusinessID, &externalID, &a.ClientName, &phone, &email,
		&service, &start, &end, &a.Status, &notes, &createdAt,
	); err != nil {
		return nil, err
	}

	a.ExternalID = stringPtr(externalID)
	a.ClientPhone = stringPtr(phone)
	a.ClientEmail = stringPtr(email)
	a.ServiceName = stringPtr(service)
	a.Notes = stringPtr(notes)
	a.StartTime = time.Unix(start, 0)
	a.EndTime = time.Unix(end, 0)
	a.CreatedAt = time.Unix(createdAt, 0)
	return &a, nil
}
