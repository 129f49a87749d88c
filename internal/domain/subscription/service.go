package subscription

import "context"

// Service defines the interface for subscription operations
type Service interface {
	Get(ctx context.Context, businessID string) (*Subscription, error)

	// Update applies patch; changing Plan without an explicit SMSLimit adopts the plan's limit
	Update(ctx context.Context, id string, patch Patch) (*Subscription, error)
}
