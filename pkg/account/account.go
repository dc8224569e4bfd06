package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

// SubscriptionStatus mirrors the payment provider's view of a subscription.
// It reflects the last processed webhook event, not ground truth: events may
// arrive out of order, so treat it as eventually consistent.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = ""
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// BillingState is the derived lifecycle state of an account, computed from
// the plan key and subscription status rather than stored.
type BillingState string

const (
	StateUnsubscribed BillingState = "unsubscribed"
	StateActive       BillingState = "active"
	StatePastDue      BillingState = "past_due"
	StateCancelled    BillingState = "cancelled"
)

// Account is the tenant record metered by the entitlement guard and
// reconciled by the billing service. Usage counters cover the current
// billing cycle and reset on invoice payment or plan change.
type Account struct {
	ID              uuid.UUID          `bson:"_id"`
	Email           string             `bson:"email"`
	PlanKey         string             `bson:"plan_key"`
	BlogsUsed       int64              `bson:"blogs_used"`
	WordsUsed       int64              `bson:"words_used"`
	TeamMembers     int64              `bson:"team_members"`
	BillingCycleEnd time.Time          `bson:"billing_cycle_end"`
	CustomerID      string             `bson:"customer_id,omitempty"`     // provider customer reference
	SubscriptionID  string             `bson:"subscription_id,omitempty"` // provider subscription reference
	Status          SubscriptionStatus `bson:"subscription_status,omitempty"`
	PaymentFailed   bool               `bson:"payment_failed"`
	ReferredBy      string             `bson:"referred_by,omitempty"` // affiliate referral code captured at signup
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

// New returns a fresh account on the free plan with zero counters.
func New(id uuid.UUID, email string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:          id,
		Email:       email,
		PlanKey:     plans.FreePlanKey,
		TeamMembers: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// State derives the billing lifecycle state.
func (a *Account) State() BillingState {
	switch {
	case a.Status == SubscriptionCanceled:
		return StateCancelled
	case a.Status == SubscriptionPastDue || a.PaymentFailed:
		return StatePastDue
	case a.SubscriptionID != "" && a.Status == SubscriptionActive:
		return StateActive
	case a.SubscriptionID != "":
		return StateActive
	default:
		return StateUnsubscribed
	}
}

// Patch describes a partial account update. Nil fields are left untouched;
// non-nil empty strings clear the stored value (used to drop the
// subscription reference on cancellation).
type Patch struct {
	PlanKey        *string
	CustomerID     *string
	SubscriptionID *string
	Status         *SubscriptionStatus
	PaymentFailed  *bool
	TeamMembers    *int64
}
