package settings

import "context"

// Service defines the interface for reminder settings operations
type Service interface {
	Get(ctx context.Context, businessID string) (*ReminderSettings, error)

	// Upsert merges u over the stored settings (or the defaults) and returns the result
	Upsert(ctx context.Context, u Upsert) (*ReminderSettings, error)
}
