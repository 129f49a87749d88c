package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// BusinessService implements business.Service
type BusinessService struct {
	repo          business.Repository
	settings      settings.Repository
	subscriptions subscription.Repository
	logger        *logger.Logger
}

// NewBusinessService creates a new business service
func NewBusinessService(repo business.Repository, settingsRepo settings.Repository, subscriptions subscription.Repository, log *logger.Logger) business.Service {
	return &BusinessService{
		repo:          repo,
		settings:      settingsRepo,
		subscriptions: subscriptions,
		logger:        log,
	}
}

// GetByUserID retrieves the business owned by a user
func (s *BusinessService) GetByUserID(ctx context.Context, userID string) (*business.Business, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// GetByID gets a business by id
func (s *BusinessService) GetByID(ctx context.Context, id string) (*business.Business, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates a business for a user who signed up without one, together with
// its default reminder settings and free subscription
func (s *BusinessService) Create(ctx context.Context, b *business.Business) (*business.Business, error) {
	if b.Language != "" && b.Language != business.LanguageEN && b.Language != business.LanguageRU {
		return nil, errors.BadRequest("Unsupported language")
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.settings.Upsert(ctx, settings.Defaults(b.ID)); err != nil {
		return nil, err
	}

	free, _ := subscription.FindPlan(subscription.PlanFree)
	if err := s.subscriptions.Create(ctx, &subscription.Subscription{
		BusinessID: b.ID,
		Plan:       free.ID,
		SMSLimit:   free.SMSLimit,
	}); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"business_id": b.ID,
		"user_id":     b.UserID,
	}).Info("Business created")

	return b, nil
}

// Update applies a partial update
func (s *BusinessService) Update(ctx context.Context, id string, patch business.Patch) (*business.Business, error) {
	if patch.Language != nil && *patch.Language != business.LanguageEN && *patch.Language != business.LanguageRU {
		return nil, errors.BadRequest("Unsupported language")
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, errors.BadRequest("Business name cannot be empty")
	}

	b, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.With("business_id", id).Debug("Business updated")
	return b, nil
}
