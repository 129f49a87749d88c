package business

import "context"

// Service defines the interface for business operations
type Service interface {
	GetByUserID(ctx context.Context, userID string) (*Business, error)
	GetByID(ctx context.Context, id string) (*Business, error)
	Create(ctx context.Context, b *Business) (*Business, error)
	Update(ctx context.Context, id string, patch Patch) (*Business, error)
}
