package client

import "time"

// User represents an account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is a token pair together with the user it belongs to
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Business is the tenant owned by a user
type Business struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	Timezone  string    `json:"timezone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Interval is one reminder offset before an appointment
type Interval struct {
	Hours   int    `json:"hours"`
	Channel string `json:"channel"`
}

// ReminderSettings is a business's reminder configuration
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

// CalendarIntegration links a business to an external calendar
type CalendarIntegration struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"business_id"`
	Provider    string     `json:"provider"`
	Connected   bool       `json:"connected"`
	CalendarID  *string    `json:"calendar_id,omitempty"`
	SyncEnabled bool       `json:"sync_enabled"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Appointment is a booked slot with a client
type Appointment struct {
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

// Reminder is one notification sent (or due) for an appointment
type Reminder struct {
	ID             string       `json:"id"`
	AppointmentID  string       `json:"appointment_id"`
	Channel        string       `json:"channel"`
	Status         string       `json:"status"`
	ScheduledFor   time.Time    `json:"scheduled_for"`
	SentAt         *time.Time   `json:"sent_at,omitempty"`
	MessageContent *string      `json:"message_content,omitempty"`
	ExternalID     *string      `json:"external_id,omitempty"`
	ErrorMessage   *string      `json:"error_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Appointment    *Appointment `json:"appointment,omitempty"`
}

// Subscription is a business's plan and SMS allowance
type Subscription struct {
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

// Plan describes a purchasable plan
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	SMSLimit int      `json:"sms_limit"`
	Features []string `json:"features"`
}

// DailyAnalytics is one day of counters
type DailyAnalytics struct {
	Date               string  `json:"date"`
	RemindersSent      int     `json:"reminders_sent"`
	RemindersDelivered int     `json:"reminders_delivered"`
	Confirmations      int     `json:"confirmations"`
	Cancellations      int     `json:"cancellations"`
	NoShows            int     `json:"no_shows"`
	SMSCost            float64 `json:"sms_cost"`
}

// HealthResponse is returned by the liveness endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
