package user

import "time"

// User represents an account that owns one business
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Not exposed in JSON
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Sign-in providers
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)
