package user

import "context"

// Registration carries everything needed to open a new account
type Registration struct {
	Email        string
	Password     string
	BusinessName string
	Timezone     string
	Language     string
}

// Service defines the interface for account business logic
type Service interface {
	// Register creates the user together with their business, default
	// reminder settings and a free subscription
	Register(ctx context.Context, reg Registration) (*User, error)

	// Authenticate verifies an email/password pair
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// SignInWithProvider finds or creates the user behind an OAuth identity
	SignInWithProvider(ctx context.Context, provider, email string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)
}
