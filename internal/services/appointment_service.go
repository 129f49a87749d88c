package services

import (
	"context"

	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// AppointmentService implements appointment.Service
type AppointmentService struct {
	repo   appointment.Repository
	logger *logger.Logger
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo appointment.Repository, log *logger.Logger) appointment.Service {
	return &AppointmentService{repo: repo, logger: log}
}

// List lists the appointments of a business
func (s *AppointmentService) List(ctx context.Context, businessID string, filter appointment.Filter) ([]*appointment.Appointment, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, errors.BadRequest("Unknown appointment status")
	}
	return s.repo.List(ctx, businessID, filter)
}

// Get retrieves an appointment
func (s *AppointmentService) Get(ctx context.Context, id string) (*appointment.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Create creates an appointment
func (s *AppointmentService) Create(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	if a.Status != "" && !validStatus(a.Status) {
		return nil, errors.BadRequest("Unknown appointment status")
	}
	if !a.EndTime.After(a.StartTime) {
		return nil, errors.BadRequest("Appointment must end after it starts")
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"business_id":    a.BusinessID,
		"appointment_id": a.ID,
	}).Debug("Appointment created")

	return a, nil
}

// Update applies a partial update
func (s *AppointmentService) Update(ctx context.Context, id string, patch appointment.Patch) (*appointment.Appointment, error) {
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, errors.BadRequest("Unknown appointment status")
	}
	if patch.StartTime != nil || patch.EndTime != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		start, end := current.StartTime, current.EndTime
		if patch.StartTime != nil {
			start = *patch.StartTime
		}
		if patch.EndTime != nil {
			end = *patch.EndTime
		}
		if !end.After(start) {
			return nil, errors.BadRequest("Appointment must end after it starts")
		}
	}

	return s.repo.Update(ctx, id, patch)
}

// Delete removes an appointment together with its reminders
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validStatus(status string) bool {
	switch status {
	case appointment.StatusScheduled, appointment.StatusConfirmed, appointment.StatusCancelled,
		appointment.StatusCompleted, appointment.StatusNoShow:
		return true
	}
	return false
}
