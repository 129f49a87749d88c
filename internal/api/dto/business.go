package dto

import (
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
)

// BusinessDTO represents a business in API responses
type BusinessDTO struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	Timezone  string    `json:"timezone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBusinessRequest represents a business creation request
type CreateBusinessRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	LogoURL  *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Timezone string  `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Language string  `json:"language,omitempty" validate:"omitempty,oneof=en ru"`
}

// UpdateBusinessRequest represents a partial business update
type UpdateBusinessRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	LogoURL  *string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Timezone *string `json:"timezone,omitempty" validate:"omitempty,max=64"`
	Language *string `json:"language,omitempty" validate:"omitempty,oneof=en ru"`
}

// ToBusinessDTO converts a domain business
func ToBusinessDTO(b *business.Business) *BusinessDTO {
	return &BusinessDTO{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		LogoURL:   b.LogoURL,
		Timezone:  b.Timezone,
		Language:  b.Language,
		CreatedAt: b.CreatedAt,
	}
}

// Patch converts the request into a domain patch
func (r UpdateBusinessRequest) Patch() business.Patch {
	return business.Patch{
		Name:     r.Name,
		LogoURL:  r.LogoURL,
		Timezone: r.Timezone,
		Language: r.Language,
	}
}
