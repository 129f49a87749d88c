package subscription

import "time"

// Plans
const (
	PlanFree       = "free"
	PlanStarter    = "starter"
	PlanBusiness   = "business"
	PlanEnterprise = "enterprise"
)

// Statuses
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusPastDue   = "past_due"
	StatusTrialing  = "trialing"
)

// Subscription is a business's plan and SMS allowance
type Subscription struct {
	ID                   string     `json:"id"`
	BusinessID           string     `json:"business_id"`
	StripeCustomerID     *string    `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id,omitempty"`
	Plan                 string     `json:"plan"`
	SMSLimit             int        `json:"sms_limit"`
	SMSUsed              int        `json:"sms_used"`
	Status               string     `json:"status"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Patch is a partial update; nil fields are left untouched
type Patch struct {
	Plan     *string
	SMSLimit *int
	SMSUsed  *int
	Status   *string
}

// Plan describes a purchasable tier
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int      `json:"price"`
	SMSLimit int      `json:"sms_limit"`
	Features []string `json:"features"`
}

// Plans is the catalogue shown on the billing screen
var Plans = []Plan{
	{
		ID:       PlanFree,
		Name:     "Free",
		Price:    0,
		SMSLimit: 20,
		Features: []string{"20 SMS per month", "Unlimited emails", "Google Calendar sync", "Basic analytics"},
	},
	{
		ID:       PlanStarter,
		Name:     "Starter",
		Price:    19,
		SMSLimit: 100,
		Features: []string{"100 SMS per month", "Unlimited emails & WhatsApp", "Google Calendar sync", "Advanced analytics", "Custom message templates"},
	},
	{
		ID:       PlanBusiness,
		Name:     "Business",
		Price:    39,
		SMSLimit: 500,
		Features: []string{"500 SMS per month", "Unlimited emails & WhatsApp", "Multiple calendar sync", "Priority support", "Team access (3 users)", "API access"},
	},
	{
		ID:       PlanEnterprise,
		Name:     "Enterprise",
		Price:    79,
		SMSLimit: 2000,
		Features: []string{"2000 SMS per month", "Everything in Business", "Unlimited team members", "Dedicated support", "Custom integrations", "SLA guarantee"},
	},
}

// FindPlan looks up a plan by id
func FindPlan(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
