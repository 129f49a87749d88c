package appointment

import "time"

// Appointment statuses
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Appointment is a client booking with a business
type Appointment struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	ExternalID  *string   `json:"external_id,omitempty"`
	ClientName  string    `json:"client_name"`
	ClientPhone *string   `json:"client_phone,omitempty"`
	ClientEmail *string   `json:"client_email,omitempty"`
	ServiceName *string   `json:"service_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows a list query. Results are always ordered by start time ascending.
type Filter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	ServiceName *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *string
	Notes       *string
}
