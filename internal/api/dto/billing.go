package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
)

// SubscriptionDTO represents a subscription in API responses
type SubscriptionDTO struct {
	ID                 string     `json:"id"`
	BusinessID         string     `json:"business_id"`
	Plan               string     `json:"plan"`
	SMSLimit           int        `json:"sms_limit"`
	SMSUsed            int        `json:"sms_used"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// UpdateSubscriptionRequest represents a partial subscription update
type UpdateSubscriptionRequest struct {
	Plan     *string `json:"plan,omitempty" validate:"omitempty,oneof=free starter business enterprise"`
	SMSLimit *int    `json:"sms_limit,omitempty" validate:"omitempty,gte=0"`
	SMSUsed  *int    `json:"sms_used,omitempty" validate:"omitempty,gte=0"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=active cancelled past_due trialing"`
}

// PlanDTO describes a purchasable plan
type PlanDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	SMSLimit int      `json:"sms_limit"`
	Features []string `json:"features"`
}

// DailyAnalyticsDTO is one day of counters
type DailyAnalyticsDTO struct {
	Date               string  `json:"date"`
	RemindersSent      int     `json:"reminders_sent"`
	RemindersDelivered int     `json:"reminders_delivered"`
	Confirmations      int     `json:"confirmations"`
	Cancellations      int     `json:"cancellations"`
	NoShows            int     `json:"no_shows"`
	SMSCost            float64 `json:"sms_cost"`
}

// ToSubscriptionDTO converts a domain subscription
func ToSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:                 s.ID,
		BusinessID:         s.BusinessID,
		Plan:               s.Plan,
		SMSLimit:           s.SMSLimit,
		SMSUsed:            s.SMSUsed,
		Status:             s.Status,
		CurrentPeriodStart: s.CurrentPeriodStart,
		CurrentPeriodEnd:   s.CurrentPeriodEnd,
		CreatedAt:          s.CreatedAt,
	}
}

// Patch converts the request into a domain patch
func (r UpdateSubscriptionRequest) Patch() subscription.Patch {
	return subscription.Patch{
		Plan:     r.Plan,
		SMSLimit: r.SMSLimit,
		SMSUsed:  r.SMSUsed,
		Status:   r.Status,
	}
}

// ToPlanDTOs converts the plan catalogue
func ToPlanDTOs(plans []subscription.Plan) []PlanDTO {
	out := make([]PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanDTO{ID: p.ID, Name: p.Name, Price: p.Price, SMSLimit: p.SMSLimit, Features: p.Features})
	}
	return out
}

// ToDailyAnalyticsDTOs converts daily rows, never returning nil
func ToDailyAnalyticsDTOs(rows []*analytics.Daily) []DailyAnalyticsDTO {
	out := make([]DailyAnalyticsDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, DailyAnalyticsDTO{
			Date:               d.Date,
			RemindersSent:      d.RemindersSent,
			RemindersDelivered: d.RemindersDelivered,
			Confirmations:      d.Confirmations,
			Cancellations:      d.Cancellations,
			NoShows:            d.NoShows,
			SMSCost:            d.SMSCost,
		})
	}
	return out
}
