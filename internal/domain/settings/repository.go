package settings

import "context"

// Repository defines the interface for reminder settings data access
type Repository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*ReminderSettings, error)

	// Upsert inserts or replaces the row keyed by business id
	Upsert(ctx context.Context, s *ReminderSettings) error
}
