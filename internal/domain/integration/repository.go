package integration

import "context"

// Repository defines the interface for calendar integration data access
type Repository interface {
	ListByBusinessID(ctx context.Context, businessID string) ([]*CalendarIntegration, error)
	Create(ctx context.Context, c *CalendarIntegration) error
	Update(ctx context.Context, id string, patch Patch) (*CalendarIntegration, error)

	// Delete removes the row; deleting an absent id is not an error
	Delete(ctx context.Context, id string) error
}
