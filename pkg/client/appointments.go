package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AppointmentService handles appointment API calls
type AppointmentService struct {
	client *Client
}

// AppointmentListOptions contains options for listing appointments
type AppointmentListOptions struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// CreateAppointmentRequest represents a request to create an appointment
type CreateAppointmentRequest struct {
	ExternalID  *string   `json:"external_id,omitempty"`
	ClientName  string    `json:"client_name"`
	ClientPhone *string   `json:"client_phone,omitempty"`
	ClientEmail *string   `json:"client_email,omitempty"`
	ServiceName *string   `json:"service_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

// AppointmentPatch is a partial update; nil fields are left untouched
type AppointmentPatch struct {
	ClientName  *string    `json:"client_name,omitempty"`
	ClientPhone *string    `json:"client_phone,omitempty"`
	ClientEmail *string    `json:"client_email,omitempty"`
	ServiceName *string    `json:"service_name,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// List retrieves a business's appointments ordered by start time
func (s *AppointmentService) List(ctx context.Context, businessID string, opts *AppointmentListOptions) ([]Appointment, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
		if opts.From != nil {
			query.Set("from", opts.From.UTC().Format(time.RFC3339))
		}
		if opts.To != nil {
			query.Set("to", opts.To.UTC().Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	path := businessPath(businessID, "appointments")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	items := []Appointment{}
	if err := s.client.doRequest(ctx, "GET", path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get retrieves an appointment
func (s *AppointmentService) Get(ctx context.Context, id string) (*Appointment, error) {
	var a Appointment
	if err := s.client.doRequest(ctx, "GET", "/api/v1/appointments/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create creates an appointment for a business
func (s *AppointmentService) Create(ctx context.Context, businessID string, req CreateAppointmentRequest) (*Appointment, error) {
	var a Appointment
	if err := s.client.doRequest(ctx, "POST", businessPath(businessID, "appointments"), req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update applies a partial update and returns the full record
func (s *AppointmentService) Update(ctx context.Context, id string, patch AppointmentPatch) (*Appointment, error) {
	var a Appointment
	if err := s.client.doRequest(ctx, "PATCH", "/api/v1/appointments/"+url.PathEscape(id), patch, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes an appointment; deleting an unknown id succeeds
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/appointments/"+url.PathEscape(id), nil, nil)
}
