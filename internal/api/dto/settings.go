package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
)

// IntervalDTO is one reminder offset
type IntervalDTO struct {
	Hours   int    `json:"hours" validate:"gt=0,lte=720"`
	Channel string `json:"channel" validate:"oneof=sms email whatsapp"`
}

// ReminderSettingsDTO represents reminder settings in API responses
type ReminderSettingsDTO struct {
	ID                     string        `json:"id"`
	BusinessID             string        `json:"business_id"`
	Intervals              []IntervalDTO `json:"intervals"`
	SMSEnabled             bool          `json:"sms_enabled"`
	EmailEnabled           bool          `json:"email_enabled"`
	WhatsAppEnabled        bool          `json:"whatsapp_enabled"`
	DefaultMessageTemplate *string       `json:"default_message_template,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
}

// UpsertReminderSettingsRequest carries an insert-or-update; omitted fields keep their value
type UpsertReminderSettingsRequest struct {
	Intervals              []IntervalDTO `json:"intervals,omitempty" validate:"omitempty,max=10,dive"`
	SMSEnabled             *bool         `json:"sms_enabled,omitempty"`
	EmailEnabled           *bool         `json:"email_enabled,omitempty"`
	WhatsAppEnabled        *bool         `json:"whatsapp_enabled,omitempty"`
	DefaultMessageTemplate *string       `json:"default_message_template,omitempty" validate:"omitempty,max=1600"`
}

// ToReminderSettingsDTO converts domain settings
func ToReminderSettingsDTO(s *settings.ReminderSettings) *ReminderSettingsDTO {
	intervals := make([]IntervalDTO, 0, len(s.Intervals))
	for _, i := range s.Intervals {
		intervals = append(intervals, IntervalDTO{Hours: i.Hours, Channel: i.Channel})
	}
	return &ReminderSettingsDTO{
		ID:                     s.ID,
		BusinessID:             s.BusinessID,
		Intervals:              intervals,
		SMSEnabled:             s.SMSEnabled,
		EmailEnabled:           s.EmailEnabled,
		WhatsAppEnabled:        s.WhatsAppEnabled,
		DefaultMessageTemplate: s.DefaultMessageTemplate,
		CreatedAt:              s.CreatedAt,
	}
}

// Upsert converts the request into a domain upsert for businessID
func (r UpsertReminderSettingsRequest) Upsert(businessID string) settings.Upsert {
	u := settings.Upsert{
		BusinessID:             businessID,
		SMSEnabled:             r.SMSEnabled,
		EmailEnabled:           r.EmailEnabled,
		WhatsAppEnabled:        r.WhatsAppEnabled,
		DefaultMessageTemplate: r.DefaultMessageTemplate,
	}
	if r.Intervals != nil {
		u.Intervals = make([]settings.Interval, 0, len(r.Intervals))
		for _, i := range r.Intervals {
			u.Intervals = append(u.Intervals, settings.Interval{Hours: i.Hours, Channel: i.Channel})
		}
	}
	return u
}
