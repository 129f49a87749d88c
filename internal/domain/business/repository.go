package business

import "context"

// Repository defines the interface for business data access
type Repository interface {
	Create(ctx context.Context, b *Business) error

	// GetByUserID returns the business owned by userID
	GetByUserID(ctx context.Context, userID string) (*Business, error)

	GetByID(ctx context.Context, id string) (*Business, error)

	// Update applies patch and returns the full post-update record
	Update(ctx context.Context, id string, patch Patch) (*Business, error)

	// ListIDs returns the ids of every business
	ListIDs(ctx context.Context) ([]string, error)
}
