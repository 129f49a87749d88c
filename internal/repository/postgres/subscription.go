package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, business_id, stripe_customer_id, stripe_subscription_id, plan,
	sms_limit, sms_used, status, current_period_start, current_period_end, created_at`

// GetByBusinessID retrieves the subscription of a business
func (r *SubscriptionRepository) GetByBusinessID(ctx context.Context, businessID string) (*subscription.Subscription, error) {
	return r.getOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE business_id = ?`, businessID)
}

func (r *SubscriptionRepository) getOne(ctx context.Context, query string, arg any) (*subscription.Subscription, error) {
	var s subscription.Subscription
	var customer, stripeSub sql.NullString
	var periodStart, periodEnd sql.NullInt64
	var createdAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&s.ID, &s.BusinessID, &customer, &stripeSub, &s.Plan,
		&s.SMSLimit, &s.SMSUsed, &s.Status, &periodStart, &periodEnd, &createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s.StripeCustomerID = stringPtr(customer)
	s.StripeSubscriptionID = stringPtr(stripeSub)
	s.CurrentPeriodStart = timePtr(periodStart)
	s.CurrentPeriodEnd = timePtr(periodEnd)
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}

// Create creates a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	now := time.Now().Unix()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Plan == "" {
		s.Plan = subscription.PlanFree
	}
	if s.Status == "" {
		s.Status = subscription.StatusActive
	}
	s.CreatedAt = time.Unix(now, 0)

	query := `
		INSERT INTO subscriptions (id, business_id, stripe_customer_id, stripe_subscription_id, plan,
			sms_limit, sms_used, status, current_period_start, current_period_end, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.BusinessID, nullString(s.StripeCustomerID), nullString(s.StripeSubscriptionID), s.Plan,
		s.SMSLimit, s.SMSUsed, s.Status, nullUnix(s.CurrentPeriodStart), nullUnix(s.CurrentPeriodEnd), now,
	)
	if isUniqueViolation(err) {
		return errors.Conflict("Business already has a subscription")
	}
	if err != nil {
		return errors.DatabaseError("Failed to create subscription", err)
	}
	return nil
}

// Update applies patch and returns the updated subscription
func (r *SubscriptionRepository) Update(ctx context.Context, id string, patch subscription.Patch) (*subscription.Subscription, error) {
	var set setClause
	if patch.Plan != nil {
		set.add("plan", *patch.Plan)
	}
	if patch.SMSLimit != nil {
		set.add("sms_limit", *patch.SMSLimit)
	}
	if patch.SMSUsed != nil {
		set.add("sms_used", *patch.SMSUsed)
	}
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}

	if !set.empty() {
		result, err := r.db.ExecContext(ctx,
			`UPDATE subscriptions SET `+set.sql()+` WHERE id = ?`,
			append(set.args, id)...,
		)
		if err != nil {
			return nil, errors.DatabaseError("Failed to update subscription", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, errors.NotFound("Subscription")
		}
	}

	return r.getOne(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
}
