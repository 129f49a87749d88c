package client

import (
	"context"
	"net/url"
)

// ReminderSettingsService handles reminder settings API calls
type ReminderSettingsService struct {
	client *Client
}

// ReminderSettingsUpsert carries an insert-or-update; nil fields keep their value
type ReminderSettingsUpsert struct {
	Intervals              []Interval `json:"intervals,omitempty"`
	SMSEnabled             *bool      `json:"sms_enabled,omitempty"`
	EmailEnabled           *bool      `json:"email_enabled,omitempty"`
	WhatsAppEnabled        *bool      `json:"whatsapp_enabled,omitempty"`
	DefaultMessageTemplate *string    `json:"default_message_template,omitempty"`
}

// Get retrieves a business's reminder settings
func (s *ReminderSettingsService) Get(ctx context.Context, businessID string) (*ReminderSettings, error) {
	var rs ReminderSettings
	if err := s.client.doRequest(ctx, "GET", businessPath(businessID, "reminder-settings"), nil, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Upsert inserts or updates a business's reminder settings
func (s *ReminderSettingsService) Upsert(ctx context.Context, businessID string, req ReminderSettingsUpsert) (*ReminderSettings, error) {
	var rs ReminderSettings
	if err := s.client.doRequest(ctx, "PUT", businessPath(businessID, "reminder-settings"), req, &rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func businessPath(businessID, sub string) string {
	return "/api/v1/businesses/" + url.PathEscape(businessID) + "/" + sub
}
