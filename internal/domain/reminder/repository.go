package reminder

import "context"

// Repository defines the interface for reminder data access
type Repository interface {
	// ListByBusinessID returns reminders joined with their appointment
	ListByBusinessID(ctx context.Context, businessID string, filter Filter) ([]*Reminder, error)
	Create(ctx context.Context, r *Reminder) error
}
