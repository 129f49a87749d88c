package business

import "time"

// Business is the single tenant record owned by a user
type Business struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	Timezone  string    `json:"timezone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Supported interface languages
const (
	LanguageEN = "en"
	LanguageRU = "ru"
)

// DefaultTimezone is used when a business is created without one
const DefaultTimezone = "UTC"

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	Name     *string
	LogoURL  *string
	Timezone *string
	Language *string
}
