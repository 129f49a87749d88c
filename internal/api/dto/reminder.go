package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
)

// ReminderDTO represents a reminder with its appointment in API responses
type ReminderDTO struct {
	ID             string          `json:"id"`
	AppointmentID  string          `json:"appointment_id"`
	Channel        string          `json:"channel"`
	Status         string          `json:"status"`
	ScheduledFor   time.Time       `json:"scheduled_for"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	MessageContent *string         `json:"message_content,omitempty"`
	ExternalID     *string         `json:"external_id,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Appointment    *AppointmentDTO `json:"appointment,omitempty"`
}

// ToReminderDTOs converts a list, never returning nil
func ToReminderDTOs(items []*reminder.Reminder) []*ReminderDTO {
	out := make([]*ReminderDTO, 0, len(items))
	for _, r := range items {
		d := &ReminderDTO{
			ID:             r.ID,
			AppointmentID:  r.AppointmentID,
			Channel:        r.Channel,
			Status:         r.Status,
			ScheduledFor:   r.ScheduledFor,
			SentAt:         r.SentAt,
			MessageContent: r.MessageContent,
			ExternalID:     r.ExternalID,
			ErrorMessage:   r.ErrorMessage,
			CreatedAt:      r.CreatedAt,
		}
		if r.Appointment != nil {
			d.Appointment = ToAppointmentDTO(r.Appointment)
		}
		out = append(out, d)
	}
	return out
}
