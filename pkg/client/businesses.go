package client

import (
	"context"
	"net/url"
)

// BusinessService handles business API calls
type BusinessService struct {
	client *Client
}

// CreateBusinessRequest represents a request to create a business
type CreateBusinessRequest struct {
	Name     string  `json:"name"`
	LogoURL  *string `json:"logo_url,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
	Language string  `json:"language,omitempty"`
}

// BusinessPatch is a partial update; nil fields are left untouched
type BusinessPatch struct {
	Name     *string `json:"name,omitempty"`
	LogoURL  *string `json:"logo_url,omitempty"`
	Timezone *string `json:"timezone,omitempty"`
	Language *string `json:"language,omitempty"`
}

// GetByUser retrieves the business owned by userID
func (s *BusinessService) GetByUser(ctx context.Context, userID string) (*Business, error) {
	var b Business
	if err := s.client.doRequest(ctx, "GET", "/api/v1/users/"+url.PathEscape(userID)+"/business", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create creates the authenticated user's business
func (s *BusinessService) Create(ctx context.Context, req CreateBusinessRequest) (*Business, error) {
	var b Business
	if err := s.client.doRequest(ctx, "POST", "/api/v1/businesses", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update applies a partial update and returns the full record
func (s *BusinessService) Update(ctx context.Context, id string, patch BusinessPatch) (*Business, error) {
	var b Business
	if err := s.client.doRequest(ctx, "PATCH", "/api/v1/businesses/"+url.PathEscape(id), patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
