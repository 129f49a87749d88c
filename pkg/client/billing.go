package client

import (
	"context"
	"net/url"
	"strconv"
)

// ReminderService handles reminder history API calls
type ReminderService struct {
	client *Client
}

// ReminderListOptions contains options for listing reminders
type ReminderListOptions struct {
	Status string
	Limit  int
}

// List retrieves a business's reminders, newest scheduled first
func (s *ReminderService) List(ctx context.Context, businessID string, opts *ReminderListOptions) ([]Reminder, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			query.Set("status", opts.Status)
		}
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
	}

	path := businessPath(businessID, "reminders")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	items := []Reminder{}
	if err := s.client.doRequest(ctx, "GET", path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SubscriptionService handles subscription API calls
type SubscriptionService struct {
	client *Client
}

// SubscriptionPatch is a partial update; nil fields are left untouched
type SubscriptionPatch struct {
	Plan     *string `json:"plan,omitempty"`
	SMSLimit *int    `json:"sms_limit,omitempty"`
	SMSUsed  *int    `json:"sms_used,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Get retrieves a business's subscription
func (s *SubscriptionService) Get(ctx context.Context, businessID string) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "GET", businessPath(businessID, "subscription"), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update applies a partial update and returns the full record
func (s *SubscriptionService) Update(ctx context.Context, id string, patch SubscriptionPatch) (*Subscription, error) {
	var sub Subscription
	if err := s.client.doRequest(ctx, "PATCH", "/api/v1/subscriptions/"+url.PathEscape(id), patch, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// AnalyticsService handles analytics API calls
type AnalyticsService struct {
	client *Client
}

// DailyStats retrieves per-day counters between two YYYY-MM-DD dates (inclusive),
// ordered by date. Empty bounds use the API's default window.
func (s *AnalyticsService) DailyStats(ctx context.Context, businessID, from, to string) ([]DailyAnalytics, error) {
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}

	path := businessPath(businessID, "analytics/daily")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	items := []DailyAnalytics{}
	if err := s.client.doRequest(ctx, "GET", path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// PlanService handles plan catalogue API calls
type PlanService struct {
	client *Client
}

// List retrieves the plan catalogue
func (s *PlanService) List(ctx context.Context) ([]Plan, error) {
	items := []Plan{}
	if err := s.client.doRequest(ctx, "GET", "/api/v1/plans", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
