package services

import (
	"context"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// AnalyticsService implements analytics.Service
type AnalyticsService struct {
	repo   analytics.Repository
	logger *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo analytics.Repository, log *logger.Logger) analytics.Service {
	return &AnalyticsService{repo: repo, logger: log}
}

// DailyStats returns the daily rows of a business between two inclusive dates
func (s *AnalyticsService) DailyStats(ctx context.Context, businessID, from, to string) ([]*analytics.Daily, error) {
	fromDate, err := time.Parse(analytics.DateLayout, from)
	if err != nil {
		return nil, errors.BadRequest("from must be a YYYY-MM-DD date")
	}
	toDate, err := time.Parse(analytics.DateLayout, to)
	if err != nil {
		return nil, errors.BadRequest("to must be a YYYY-MM-DD date")
	}
	if toDate.Before(fromDate) {
		return nil, errors.BadRequest("to must not be before from")
	}
	return s.repo.ListDaily(ctx, businessID, from, to)
}
