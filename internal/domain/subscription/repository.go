package subscription

import "context"

// Repository defines the interface for subscription data access
type Repository interface {
	GetByBusinessID(ctx context.Context, businessID string) (*Subscription, error)
	Create(ctx context.Context, s *Subscription) error
	Update(ctx context.Context, id string, patch Patch) (*Subscription, error)
}
