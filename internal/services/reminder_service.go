package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// ReminderService implements reminder.Service
type ReminderService struct {
	repo   reminder.Repository
	logger *logger.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(repo reminder.Repository, log *logger.Logger) reminder.Service {
	return &ReminderService{repo: repo, logger: log}
}

// List lists reminders of a business, newest first
func (s *ReminderService) List(ctx context.Context, businessID string, filter reminder.Filter) ([]*reminder.Reminder, error) {
	switch filter.Status {
	case "", reminder.StatusPending, reminder.StatusSent, reminder.StatusDelivered, reminder.StatusFailed:
	default:
		return nil, errors.BadRequest("Unknown reminder status")
	}
	return s.repo.ListByBusinessID(ctx, businessID, filter)
}
