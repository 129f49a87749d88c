package settings

import "time"

// Reminder channels
const (
	ChannelSMS      = "sms"
	ChannelEmail    = "email"
	ChannelWhatsApp = "whatsapp"
)

// Interval is one reminder offset before an appointment's start
type Interval struct {
	Hours   int    `json:"hours" validate:"gt=0,lte=720"`
	Channel string `json:"channel" validate:"oneof=sms email whatsapp"`
}

// ReminderSettings holds a business's reminder configuration
type ReminderSettings struct {
	ID                     string     `json:"id"`
	BusinessID             string     `json:"business_id"`
	Intervals              []Interval `json:"intervals"`
	SMSEnabled             bool       `json:"sms_enabled"`
	EmailEnabled           bool       `json:"email_enabled"`
	WhatsAppEnabled        bool       `json:"whatsapp_enabled"`
	DefaultMessageTemplate *string    `json:"default_message_template,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// Upsert carries the fields of an insert-or-update keyed by business id;
// nil fields keep their stored (or default) value
type Upsert struct {
	BusinessID             string
	Intervals              []Interval
	SMSEnabled             *bool
	EmailEnabled           *bool
	WhatsAppEnabled        *bool
	DefaultMessageTemplate *string
}

// Defaults returns the settings a new business starts with
func Defaults(businessID string) *ReminderSettings {
	return &ReminderSettings{
		BusinessID: businessID,
		Intervals: []Interval{
			{Hours: 24, Channel: ChannelSMS},
			{Hours: 2, Channel: ChannelSMS},
		},
		SMSEnabled:   true,
		EmailEnabled: true,
	}
}

// Apply merges u into s
func (s *ReminderSettings) Apply(u Upsert) {
	if u.Intervals != nil {
		s.Intervals = u.Intervals
	}
	if u.SMSEnabled != nil {
		s.SMSEnabled = *u.SMSEnabled
	}
	if u.EmailEnabled != nil {
		s.EmailEnabled = *u.EmailEnabled
	}
	if u.WhatsAppEnabled != nil {
		s.WhatsAppEnabled = *u.WhatsAppEnabled
	}
	if u.DefaultMessageTemplate != nil {
		s.DefaultMessageTemplate = u.DefaultMessageTemplate
	}
}
