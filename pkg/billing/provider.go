package billing

import "context"

// Provider abstracts the payment provider. The reconciler only depends on
// this interface, keeping provider quirks (signature schemes, payload
// shapes, customer ID mapping) inside the implementation.
type Provider interface {
	// ParseWebhook authenticates the raw payload against the signature
	// header and returns the normalized event. It must verify the signature
	// before parsing anything else; an unverifiable payload is rejected with
	// ErrSignatureVerificationFailed and no state is touched.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (*Event, error)

	// CreateCheckoutLink creates a hosted checkout session carrying the
	// tenant ID and target plan key as metadata, so the completion webhook
	// can be correlated back to the account.
	CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)

	// CustomerPortalLink returns a temporary link where the customer can
	// manage payment methods and cancel or change plans.
	CustomerPortalLink(ctx context.Context, customerID string) (*PortalLink, error)
}
