package integration

import "time"

// Calendar providers
const (
	ProviderGoogle   = "google"
	ProviderCalendly = "calendly"
	ProviderOutlook  = "outlook"
)

// CalendarIntegration links a business to an external calendar
type CalendarIntegration struct {
	ID           string     `json:"id"`
	BusinessID   string     `json:"business_id"`
	Provider     string     `json:"provider"`
	AccessToken  *string    `json:"-"`
	RefreshToken *string    `json:"-"`
	CalendarID   *string    `json:"calendar_id,omitempty"`
	SyncEnabled  bool       `json:"sync_enabled"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Connected reports whether credentials are stored
func (c *CalendarIntegration) Connected() bool {
	return c.AccessToken != nil && *c.AccessToken != ""
}

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	AccessToken  *string
	RefreshToken *string
	CalendarID   *string
	SyncEnabled  *bool
	LastSyncAt   *time.Time
}
