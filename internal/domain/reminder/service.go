package reminder

import "context"

// Service defines the interface for reminder read operations
type Service interface {
	List(ctx context.Context, businessID string, filter Filter) ([]*Reminder, error)
}
