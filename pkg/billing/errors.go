package billing

import "errors"

var (
	ErrMissingWebhookSecret = errors.New("billing webhook secret is required")
	ErrMissingAPIKey        = errors.New("billing provider API key is required")

	ErrSignatureVerificationFailed = errors.New("webhook signature verification failed")
	ErrMalformedPayload            = errors.New("malformed webhook payload")

	ErrPlanNotFound  = errors.New("billing plan not found")
	ErrNoCheckoutURL = errors.New("no checkout URL returned from provider")
	ErrNoPortalURL   = errors.New("no portal URL returned from provider")
	ErrProviderError = errors.New("billing provider error")

	ErrFreePlanCheckout = errors.New("free plan does not require checkout")
)
