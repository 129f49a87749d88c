package integration

import "context"

// Service defines the interface for calendar integration operations
type Service interface {
	List(ctx context.Context, businessID string) ([]*CalendarIntegration, error)
	Create(ctx context.Context, c *CalendarIntegration) (*CalendarIntegration, error)
	Update(ctx context.Context, id string, patch Patch) (*CalendarIntegration, error)
	Delete(ctx context.Context, id string) error
}
