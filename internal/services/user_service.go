package services

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/reminderflow/internal/auth"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/domain/user"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo          user.Repository
	businesses    business.Repository
	settings      settings.Repository
	subscriptions subscription.Repository
	bcryptCost    int
	logger        *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(
	repo user.Repository,
	businesses business.Repository,
	settingsRepo settings.Repository,
	subscriptions subscription.Repository,
	bcryptCost int,
	log *logger.Logger,
) user.Service {
	return &UserService{
		repo:          repo,
		businesses:    businesses,
		settings:      settingsRepo,
		subscriptions: subscriptions,
		bcryptCost:    bcryptCost,
		logger:        log,
	}
}

// Register creates the account and provisions its business
func (s *UserService) Register(ctx context.Context, reg user.Registration) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.EmailInUse()
	} else if !errors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		Provider:     user.ProviderEmail,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	if _, err := s.provision(ctx, u.ID, reg.BusinessName, reg.Timezone, reg.Language); err != nil {
		s.logger.ErrorWithErr(err, "Failed to provision business for new user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User registered")

	return u, nil
}

// provision creates the business with its default reminder settings and a free subscription
func (s *UserService) provision(ctx context.Context, userID, name, timezone, language string) (*business.Business, error) {
	b := &business.Business{
		UserID:   userID,
		Name:     name,
		Timezone: timezone,
		Language: language,
	}
	if err := s.businesses.Create(ctx, b); err != nil {
		return nil, err
	}

	if err := s.settings.Upsert(ctx, settings.Defaults(b.ID)); err != nil {
		return nil, err
	}

	free, _ := subscription.FindPlan(subscription.PlanFree)
	sub := &subscription.Subscription{
		BusinessID: b.ID,
		Plan:       free.ID,
		SMSLimit:   free.SMSLimit,
		Status:     subscription.StatusActive,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}

	return b, nil
}

// Authenticate verifies an email/password pair
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if errors.IsNotFound(err) {
		return nil, errors.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errors.InvalidCredentials()
	}

	return u, nil
}

// SignInWithProvider returns the user with the given email, creating it on first sign-in.
// The business is created later through onboarding.
func (s *UserService) SignInWithProvider(ctx context.Context, provider, email string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	u = &user.User{Email: email, Provider: provider}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":  u.ID,
		"provider": provider,
	}).Info("User created from provider sign-in")

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}
