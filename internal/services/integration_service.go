package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// IntegrationService implements integration.Service
type IntegrationService struct {
	repo   integration.Repository
	logger *logger.Logger
}

// NewIntegrationService creates a new calendar integration service
func NewIntegrationService(repo integration.Repository, log *logger.Logger) integration.Service {
	return &IntegrationService{repo: repo, logger: log}
}

// List lists the integrations of a business
func (s *IntegrationService) List(ctx context.Context, businessID string) ([]*integration.CalendarIntegration, error) {
	return s.repo.ListByBusinessID(ctx, businessID)
}

// Create records a new calendar integration
func (s *IntegrationService) Create(ctx context.Context, c *integration.CalendarIntegration) (*integration.CalendarIntegration, error) {
	switch c.Provider {
	case integration.ProviderGoogle, integration.ProviderCalendly, integration.ProviderOutlook:
	default:
		return nil, errors.BadRequest("Unsupported calendar provider")
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"business_id": c.BusinessID,
		"provider":    c.Provider,
	}).Info("Calendar integration created")

	return c, nil
}

// Update applies a partial update
func (s *IntegrationService) Update(ctx context.Context, id string, patch integration.Patch) (*integration.CalendarIntegration, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes an integration
func (s *IntegrationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.With("integration_id", id).Info("Calendar integration deleted")
	return nil
}
