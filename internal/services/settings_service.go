package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// SettingsService implements settings.Service
type SettingsService struct {
	repo   settings.Repository
	logger *logger.Logger
}

// NewSettingsService creates a new reminder settings service
func NewSettingsService(repo settings.Repository, log *logger.Logger) settings.Service {
	return &SettingsService{repo: repo, logger: log}
}

// Get retrieves the reminder settings of a business
func (s *SettingsService) Get(ctx context.Context, businessID string) (*settings.ReminderSettings, error) {
	return s.repo.GetByBusinessID(ctx, businessID)
}

// Upsert merges the update over the stored settings, or over the defaults when none exist
func (s *SettingsService) Upsert(ctx context.Context, u settings.Upsert) (*settings.ReminderSettings, error) {
	current, err := s.repo.GetByBusinessID(ctx, u.BusinessID)
	if errors.IsNotFound(err) {
		current = settings.Defaults(u.BusinessID)
	} else if err != nil {
		return nil, err
	}

	current.Apply(u)
	if err := s.repo.Upsert(ctx, current); err != nil {
		return nil, err
	}

	s.logger.With("business_id", u.BusinessID).Debug("Reminder settings saved")
	return current, nil
}
