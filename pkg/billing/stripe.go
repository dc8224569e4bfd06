package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StripeConfig holds configuration for the Stripe billing provider.
type StripeConfig struct {
	SecretKey       string        `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret   string        `env:"STRIPE_WEBHOOK_SECRET,required"`
	APIBase         string        `env:"STRIPE_API_BASE" envDefault:"https://api.stripe.com"`
	PortalReturnURL string        `env:"STRIPE_PORTAL_RETURN_URL"`
	SignatureMaxAge time.Duration `env:"STRIPE_SIGNATURE_MAX_AGE" envDefault:"5m"`
}

// StripeProvider implements Provider for Stripe.
//
// Webhook authentication follows Stripe's signature scheme: the
// Stripe-Signature header carries "t=<unix>,v1=<hex>" where v1 is
// HMAC-SHA256(secret, "<t>.<payload>"). Verification uses constant-time
// comparison and a bounded timestamp window to prevent replay.
type StripeProvider struct {
	config StripeConfig
	client *http.Client
	now    func() time.Time
}

// NewStripeProvider creates a Stripe billing provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.stripe.com"
	}
	return &StripeProvider{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		now:    time.Now,
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header and normalizes the event.
func (p *StripeProvider) ParseWebhook(_ context.Context, payload []byte, signature string) (*Event, error) {
	if err := p.verifySignature(payload, signature); err != nil {
		return nil, err
	}

	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object map[string]any `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Join(ErrMalformedPayload, err)
	}
	if raw.ID == "" || raw.Type == "" {
		return nil, errors.Join(ErrMalformedPayload, errors.New("event ID or type missing"))
	}

	event := &Event{
		ID:            raw.ID,
		Type:          mapStripeEventType(raw.Type),
		ProviderEvent: raw.Type,
		Raw:           raw.Data.Object,
	}

	obj := raw.Data.Object
	metadata, _ := obj["metadata"].(map[string]any)

	switch {
	case strings.HasPrefix(raw.Type, "checkout.session."):
		event.CustomerID, _ = obj["customer"].(string)
		event.SubscriptionID, _ = obj["subscription"].(string)
		if amount, ok := obj["amount_total"].(float64); ok {
			event.AmountTotal = int64(amount)
		}
	case strings.HasPrefix(raw.Type, "customer.subscription."):
		event.SubscriptionID, _ = obj["id"].(string)
		event.Status, _ = obj["status"].(string)
	case strings.HasPrefix(raw.Type, "invoice."):
		// Invoices reference the subscription, never the tenant directly.
		event.SubscriptionID, _ = obj["subscription"].(string)
	}

	if metadata != nil {
		if userID, ok := metadata["userId"].(string); ok {
			if id, err := uuid.Parse(userID); err == nil {
				event.TenantID = id
			}
		}
		event.PlanKey, _ = metadata["planType"].(string)
		event.TenantEmail, _ = metadata["userEmail"].(string)
	}

	return event, nil
}

func (p *StripeProvider) verifySignature(payload []byte, header string) error {
	if header == "" {
		return errors.Join(ErrSignatureVerificationFailed, errors.New("signature header missing"))
	}

	var timestamp int64
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return errors.Join(ErrSignatureVerificationFailed, errors.New("invalid signature timestamp"))
			}
			timestamp = ts
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == 0 || len(candidates) == 0 {
		return errors.Join(ErrSignatureVerificationFailed, errors.New("incomplete signature header"))
	}

	if p.config.SignatureMaxAge > 0 {
		age := p.now().Sub(time.Unix(timestamp, 0))
		if age > p.config.SignatureMaxAge {
			return errors.Join(ErrSignatureVerificationFailed, fmt.Errorf("signature timestamp too old: %v", age))
		}
		if age < -1*time.Minute {
			return errors.Join(ErrSignatureVerificationFailed, errors.New("signature timestamp is in the future"))
		}
	}

	mac := hmac.New(sha256.New, []byte(p.config.WebhookSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return nil
		}
	}
	return errors.Join(ErrSignatureVerificationFailed, errors.New("signature mismatch"))
}

// CreateCheckoutLink creates a hosted subscription checkout session.
// The tenant ID and plan key ride in both the session and subscription
// metadata so every later webhook can be correlated to the account.
func (p *StripeProvider) CreateCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	if req.PriceID == "" {
		return nil, errors.New("price ID is required")
	}
	if req.TenantID == uuid.Nil {
		return nil, errors.New("tenant ID is required")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", req.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("metadata[userId]", req.TenantID.String())
	form.Set("metadata[planType]", req.PlanKey)
	form.Set("subscription_data[metadata][userId]", req.TenantID.String())
	form.Set("subscription_data[metadata][planType]", req.PlanKey)
	if req.Email != "" {
		form.Set("customer_email", req.Email)
		form.Set("metadata[userEmail]", req.Email)
	}

	var session struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		ExpiresAt int64  `json:"expires_at"`
	}
	if err := p.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, ErrNoCheckoutURL
	}

	expiresAt := time.Unix(session.ExpiresAt, 0)
	if session.ExpiresAt == 0 {
		expiresAt = p.now().Add(24 * time.Hour)
	}

	return &CheckoutLink{
		URL:       session.URL,
		SessionID: session.ID,
		ExpiresAt: expiresAt,
	}, nil
}

// CustomerPortalLink creates a billing portal session for the customer.
func (p *StripeProvider) CustomerPortalLink(ctx context.Context, customerID string) (*PortalLink, error) {
	if customerID == "" {
		return nil, errors.New("customer ID is required")
	}

	form := url.Values{}
	form.Set("customer", customerID)
	if p.config.PortalReturnURL != "" {
		form.Set("return_url", p.config.PortalReturnURL)
	}

	var session struct {
		URL string `json:"url"`
	}
	if err := p.post(ctx, "/v1/billing_portal/sessions", form, &session); err != nil {
		return nil, err
	}
	if session.URL == "" {
		return nil, ErrNoPortalURL
	}

	return &PortalLink{
		URL:       session.URL,
		ExpiresAt: p.now().Add(24 * time.Hour),
	}, nil
}

func (p *StripeProvider) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Join(ErrProviderError, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Join(ErrProviderError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Join(ErrProviderError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return errors.Join(ErrProviderError,
			fmt.Errorf("stripe %s: status %d: %s", path, resp.StatusCode, apiErr.Error.Message))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Join(ErrProviderError, err)
	}
	return nil
}

// mapStripeEventType maps Stripe event names to normalized event types.
// Unmapped names pass through so the reconciler can log and skip them.
func mapStripeEventType(stripeEvent string) EventType {
	switch stripeEvent {
	case "checkout.session.completed":
		return EventCheckoutCompleted
	case "customer.subscription.created":
		return EventSubscriptionCreated
	case "customer.subscription.updated":
		return EventSubscriptionUpdated
	case "customer.subscription.deleted":
		return EventSubscriptionDeleted
	case "invoice.payment_succeeded":
		return EventInvoicePaid
	case "invoice.payment_failed":
		return EventInvoiceFailed
	default:
		return EventType(stripeEvent)
	}
}
