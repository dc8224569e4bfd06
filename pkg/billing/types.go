package billing

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the normalized billing event type. Provider implementations
// map their specific event names to these.
type EventType string

const (
	EventCheckoutCompleted   EventType = "checkout_completed"
	EventSubscriptionCreated EventType = "subscription_created"
	EventSubscriptionUpdated EventType = "subscription_updated"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventInvoicePaid         EventType = "invoice_paid"
	EventInvoiceFailed       EventType = "invoice_failed"
)

// Event is a normalized, authenticated provider notification.
//
// TenantID is zero when the payload carries no direct tenant reference
// (invoice events); those are resolved through the stored subscription
// reference instead. ID is the provider's event ID and serves as the
// idempotency key for effects that are not naturally idempotent.
type Event struct {
	ID             string
	Type           EventType
	ProviderEvent  string // original provider event name
	TenantID       uuid.UUID
	TenantEmail    string
	PlanKey        string
	CustomerID     string
	SubscriptionID string
	Status         string // provider-reported subscription status
	AmountTotal    int64  // smallest currency unit, checkout events only
	Raw            map[string]any
}

// CheckoutRequest contains data needed to create a hosted checkout session.
type CheckoutRequest struct {
	PriceID    string
	TenantID   uuid.UUID
	PlanKey    string
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutLink is a hosted checkout session returned by the provider.
type CheckoutLink struct {
	URL       string
	SessionID string
	ExpiresAt time.Time
}

// PortalLink is a pre-authenticated customer portal session.
type PortalLink struct {
	URL       string
	ExpiresAt time.Time
}
