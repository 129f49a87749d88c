package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

func seedAppointment(t *testing.T, db *DB, businessID, client string, start time.Time, status string) *appointment.Appointment {
	t.Helper()
	a := &appointment.Appointment{
		BusinessID: businessID,
		ClientName: client,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		Status:     status,
	}
	if err := NewAppointmentRepository(db).Create(context.Background(), a); err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return a
}

func TestAppointmentRepository_List(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository(db)
	b := seedBusiness(t, db, "owner@example.com")
	other := seedBusiness(t, db, "other@example.com")

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	seedAppointment(t, db, b.ID, "Late", base.Add(48*time.Hour), appointment.StatusScheduled)
	seedAppointment(t, db, b.ID, "Early", base, appointment.StatusConfirmed)
	seedAppointment(t, db, b.ID, "Middle", base.Add(24*time.Hour), appointment.StatusScheduled)
	seedAppointment(t, db, other.ID, "Foreign", base, appointment.StatusScheduled)

	from := base.Add(time.Hour)

	tests := []struct {
		name   string
		filter appointment.Filter
		want   []string
	}{
		{name: "all ordered by start", want: []string{"Early", "Middle", "Late"}},
		{name: "by status", filter: appointment.Filter{Status: appointment.StatusScheduled}, want: []string{"Middle", "Late"}},
		{name: "from", filter: appointment.Filter{From: &from}, want: []string{"Middle", "Late"}},
		{name: "limit", filter: appointment.Filter{Limit: 1}, want: []string{"Early"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, b.ID, tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("List() returned %d items, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.ClientName != tt.want[i] {
					t.Errorf("List()[%d] = %s, want %s", i, a.ClientName, tt.want[i])
				}
			}
		})
	}
}

func TestAppointmentRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAppointmentRepository(db)
	b := seedBusiness(t, db, "owner@example.com")
	a := seedAppointment(t, db, b.ID, "Anna", time.Now().Add(time.Hour), "")

	if a.Status != appointment.StatusScheduled {
		t.Errorf("Create() status = %q, want scheduled", a.Status)
	}

	status := appointment.StatusConfirmed
	notes := "prefers mornings"
	got, err := repo.Update(ctx, a.ID, appointment.Patch{Status: &status, Notes: &notes})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Status != status || got.Notes == nil || *got.Notes != notes || got.ClientName != "Anna" {
		t.Errorf("Update() = %+v", got)
	}

	rm := &reminder.Reminder{AppointmentID: a.ID, Channel: "sms", ScheduledFor: a.StartTime.Add(-time.Hour)}
	if err := NewReminderRepository(db).Create(ctx, rm); err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.IsNotFound(err) {
		t.Errorf("GetByID() after delete error = %v, want not found", err)
	}
	reminders, _ := NewReminderRepository(db).ListByBusinessID(ctx, b.ID, reminder.Filter{})
	if len(reminders) != 0 {
		t.Errorf("reminders survived appointment delete: %d", len(reminders))
	}
	if err := repo.Delete(ctx, a.ID); err != nil {
		t.Errorf("Delete() of absent id error = %v, want nil", err)
	}
}
