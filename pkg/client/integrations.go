package client

import (
	"context"
	"net/url"
	"time"
)

// CalendarIntegrationService handles calendar integration API calls
type CalendarIntegrationService struct {
	client *Client
}

// CreateIntegrationRequest represents a request to connect a calendar
type CreateIntegrationRequest struct {
	Provider     string  `json:"provider"`
	AccessToken  *string `json:"access_token,omitempty"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	CalendarID   *string `json:"calendar_id,omitempty"`
	SyncEnabled  *bool   `json:"sync_enabled,omitempty"`
}

// IntegrationPatch is a partial update; nil fields are left untouched
type IntegrationPatch struct {
	AccessToken  *string    `json:"access_token,omitempty"`
	RefreshToken *string    `json:"refresh_token,omitempty"`
	CalendarID   *string    `json:"calendar_id,omitempty"`
	SyncEnabled  *bool      `json:"sync_enabled,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
}

// List retrieves a business's integrations
func (s *CalendarIntegrationService) List(ctx context.Context, businessID string) ([]CalendarIntegration, error) {
	items := []CalendarIntegration{}
	if err := s.client.doRequest(ctx, "GET", businessPath(businessID, "integrations"), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create connects a calendar provider to a business
func (s *CalendarIntegrationService) Create(ctx context.Context, businessID string, req CreateIntegrationRequest) (*CalendarIntegration, error) {
	var c CalendarIntegration
	if err := s.client.doRequest(ctx, "POST", businessPath(businessID, "integrations"), req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies a partial update and returns the full record
func (s *CalendarIntegrationService) Update(ctx context.Context, id string, patch IntegrationPatch) (*CalendarIntegration, error) {
	var c CalendarIntegration
	if err := s.client.doRequest(ctx, "PATCH", "/api/v1/integrations/"+url.PathEscape(id), patch, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes an integration; deleting an unknown id succeeds
func (s *CalendarIntegrationService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, "DELETE", "/api/v1/integrations/"+url.PathEscape(id), nil, nil)
}
