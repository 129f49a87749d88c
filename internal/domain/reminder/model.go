package reminder

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
)

// Reminder statuses
const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Reminder is one notification attempt for an appointment
type Reminder struct {
	ID             string                   `json:"id"`
	AppointmentID  string                   `json:"appointment_id"`
	Channel        string                   `json:"channel"`
	Status         string                   `json:"status"`
	ScheduledFor   time.Time                `json:"scheduled_for"`
	SentAt         *time.Time               `json:"sent_at,omitempty"`
	MessageContent *string                  `json:"message_content,omitempty"`
	ExternalID     *string                  `json:"external_id,omitempty"`
	ErrorMessage   *string                  `json:"error_message,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	Appointment    *appointment.Appointment `json:"appointment,omitempty"`
}

// Filter narrows a list query. Results are ordered by scheduled time, newest first.
type Filter struct {
	Status string
	Limit  int
}
