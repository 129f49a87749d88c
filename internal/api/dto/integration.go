package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
)

// CalendarIntegrationDTO represents an integration in API responses; credentials are never returned
type CalendarIntegrationDTO struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"business_id"`
	Provider    string     `json:"provider"`
	Connected   bool       `json:"connected"`
	CalendarID  *string    `json:"calendar_id,omitempty"`
	SyncEnabled bool       `json:"sync_enabled"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateIntegrationRequest represents an integration creation request
type CreateIntegrationRequest struct {
	Provider     string  `json:"provider" validate:"required,oneof=google calendly outlook"`
	AccessToken  *string `json:"access_token,omitempty"`
	RefreshToken *string `json:"refresh_token,omitempty"`
	CalendarID   *string `json:"calendar_id,omitempty"`
	SyncEnabled  *bool   `json:"sync_enabled,omitempty"`
}

// UpdateIntegrationRequest represents a partial integration update
type UpdateIntegrationRequest struct {
	AccessToken  *string    `json:"access_token,omitempty"`
	RefreshToken *string    `json:"refresh_token,omitempty"`
	CalendarID   *string    `json:"calendar_id,omitempty"`
	SyncEnabled  *bool      `json:"sync_enabled,omitempty"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
}

// ToCalendarIntegrationDTO converts a domain integration
func ToCalendarIntegrationDTO(c *integration.CalendarIntegration) *CalendarIntegrationDTO {
	return &CalendarIntegrationDTO{
		ID:          c.ID,
		BusinessID:  c.BusinessID,
		Provider:    c.Provider,
		Connected:   c.Connected(),
		CalendarID:  c.CalendarID,
		SyncEnabled: c.SyncEnabled,
		LastSyncAt:  c.LastSyncAt,
		CreatedAt:   c.CreatedAt,
	}
}

// Patch converts the request into a domain patch
func (r UpdateIntegrationRequest) Patch() integration.Patch {
	return integration.Patch{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		CalendarID:   r.CalendarID,
		SyncEnabled:  r.SyncEnabled,
		LastSyncAt:   r.LastSyncAt,
	}
}
