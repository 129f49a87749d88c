package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
)

// AppointmentDTO represents an appointment in API responses
type AppointmentDTO struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"business_id"`
	ExternalID  *string   `json:"external_id,omitempty"`
	ClientName  string    `json:"client_name"`
	ClientPhone *string   `json:"client_phone,omitempty"`
	ClientEmail *string   `json:"client_email,omitempty"`
	ServiceName *string   `json:"service_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAppointmentRequest represents an appointment creation request
type CreateAppointmentRequest struct {
	ExternalID  *string   `json:"external_id,omitempty"`
	ClientName  string    `json:"client_name" validate:"required,max=255"`
	ClientPhone *string   `json:"client_phone,omitempty" validate:"omitempty,max=64"`
	ClientEmail *string   `json:"client_email,omitempty" validate:"omitempty,email"`
	ServiceName *string   `json:"service_name,omitempty" validate:"omitempty,max=255"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled confirmed cancelled completed no_show"`
	Notes       *string   `json:"notes,omitempty"`
}

// UpdateAppointmentRequest represents a partial appointment update
type UpdateAppointmentRequest struct {
	ClientName  *string    `json:"client_name,omitempty" validate:"omitempty,min=1,max=255"`
	ClientPhone *string    `json:"client_phone,omitempty" validate:"omitempty,max=64"`
	ClientEmail *string    `json:"client_email,omitempty" validate:"omitempty,email"`
	ServiceName *string    `json:"service_name,omitempty" validate:"omitempty,max=255"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled confirmed cancelled completed no_show"`
	Notes       *string    `json:"notes,omitempty"`
}

// ToAppointmentDTO converts a domain appointment
func ToAppointmentDTO(a *appointment.Appointment) *AppointmentDTO {
	return &AppointmentDTO{
		ID:          a.ID,
		BusinessID:  a.BusinessID,
		ExternalID:  a.ExternalID,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		ClientEmail: a.ClientEmail,
		ServiceName: a.ServiceName,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      a.Status,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
	}
}

// ToAppointmentDTOs converts a list, never returning nil
func ToAppointmentDTOs(items []*appointment.Appointment) []*AppointmentDTO {
	out := make([]*AppointmentDTO, 0, len(items))
	for _, a := range items {
		out = append(out, ToAppointmentDTO(a))
	}
	return out
}

// Appointment converts the request into a domain appointment for businessID
func (r CreateAppointmentRequest) Appointment(businessID string) *appointment.Appointment {
	return &appointment.Appointment{
		BusinessID:  businessID,
		ExternalID:  r.ExternalID,
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		ServiceName: r.ServiceName,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      r.Status,
		Notes:       r.Notes,
	}
}

// Patch converts the request into a domain patch
func (r UpdateAppointmentRequest) Patch() appointment.Patch {
	return appointment.Patch{
		ClientName:  r.ClientName,
		ClientPhone: r.ClientPhone,
		ClientEmail: r.ClientEmail,
		ServiceName: r.ServiceName,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Status:      r.Status,
		Notes:       r.Notes,
	}
}
