package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// SubscriptionService implements subscription.Service
type SubscriptionService struct {
	repo   subscription.Repository
	logger *logger.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(repo subscription.Repository, log *logger.Logger) subscription.Service {
	return &SubscriptionService{repo: repo, logger: log}
}

// Get retrieves the subscription of a business
func (s *SubscriptionService) Get(ctx context.Context, businessID string) (*subscription.Subscription, error) {
	return s.repo.GetByBusinessID(ctx, businessID)
}

// Update applies a partial update. Switching plan without an explicit SMS limit
// adopts the limit of the new plan.
func (s *SubscriptionService) Update(ctx context.Context, id string, patch subscription.Patch) (*subscription.Subscription, error) {
	if patch.Plan != nil {
		plan, ok := subscription.FindPlan(*patch.Plan)
		if !ok {
			return nil, errors.BadRequest("Unknown plan")
		}
		if patch.SMSLimit == nil {
			limit := plan.SMSLimit
			patch.SMSLimit = &limit
		}
	}
	if patch.Status != nil {
		switch *patch.Status {
		case subscription.StatusActive, subscription.StatusCancelled, subscription.StatusPastDue, subscription.StatusTrialing:
		default:
			return nil, errors.BadRequest("Unknown subscription status")
		}
	}

	sub, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"subscription_id": id,
		"plan":            sub.Plan,
	}).Info("Subscription updated")

	return sub, nil
}
