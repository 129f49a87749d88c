package postgres

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
)

func TestAnalyticsRepository_ComputeAndUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewAnalyticsRepository(db)
	reminders := NewReminderRepository(db)
	b := seedBusiness(t, db, "owner@example.com")

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	confirmed := seedAppointment(t, db, b.ID, "Anna", day.Add(10*time.Hour), appointment.StatusConfirmed)
	seedAppointment(t, db, b.ID, "Boris", day.Add(12*time.Hour), appointment.StatusNoShow)
	seedAppointment(t, db, b.ID, "Clara", day.Add(14*time.Hour), appointment.StatusCancelled)
	seedAppointment(t, db, b.ID, "Tomorrow", day.Add(30*time.Hour), appointment.StatusConfirmed)

	sent := day.Add(8 * time.Hour)
	for _, rm := range []*reminder.Reminder{
		{AppointmentID: confirmed.ID, Channel: "sms", Status: reminder.StatusDelivered, ScheduledFor: sent, SentAt: &sent},
		{AppointmentID: confirmed.ID, Channel: "sms", Status: reminder.StatusSent, ScheduledFor: sent, SentAt: &sent},
		{AppointmentID: confirmed.ID, Channel: "email", Status: reminder.StatusDelivered, ScheduledFor: sent, SentAt: &sent},
		{AppointmentID: confirmed.ID, Channel: "sms", Status: reminder.StatusFailed, ScheduledFor: sent, SentAt: &sent},
		{AppointmentID: confirmed.ID, Channel: "sms", Status: reminder.StatusPending, ScheduledFor: sent},
	} {
		if err := reminders.Create(ctx, rm); err != nil {
			t.Fatalf("create reminder: %v", err)
		}
	}

	d, err := repo.Compute(ctx, b.ID, day, day.Add(24*time.Hour), 0.01)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if d.Date != "2026-03-10" {
		t.Errorf("Date = %s", d.Date)
	}
	if d.RemindersSent != 3 || d.RemindersDelivered != 2 {
		t.Errorf("reminders sent/delivered = %d/%d, want 3/2", d.RemindersSent, d.RemindersDelivered)
	}
	if d.Confirmations != 1 || d.NoShows != 1 || d.Cancellations != 1 {
		t.Errorf("appointment counters = %d/%d/%d", d.Confirmations, d.NoShows, d.Cancellations)
	}
	if math.Abs(d.SMSCost-0.02) > 1e-9 {
		t.Errorf("SMSCost = %v, want 0.02", d.SMSCost)
	}

	if err := repo.UpsertDaily(ctx, d); err != nil {
		t.Fatalf("UpsertDaily() error = %v", err)
	}
	d2 := *d
	d2.ID = ""
	d2.RemindersSent = 7
	if err := repo.UpsertDaily(ctx, &d2); err != nil {
		t.Fatalf("UpsertDaily() second error = %v", err)
	}

	rows, err := repo.ListDaily(ctx, b.ID, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("ListDaily() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListDaily() returned %d rows, want 1", len(rows))
	}
	if rows[0].RemindersSent != 7 {
		t.Errorf("RemindersSent = %d, want 7 after upsert", rows[0].RemindersSent)
	}

	empty, err := repo.ListDaily(ctx, b.ID, "2026-04-01", "2026-04-30")
	if err != nil {
		t.Fatalf("ListDaily() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListDaily() out of range = %v, want empty", empty)
	}

}
