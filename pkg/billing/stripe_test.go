package billing_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/billing"
)

const testWebhookSecret = "whsec_test_secret"

func newStripeProvider(t *testing.T, apiBase string) *billing.StripeProvider {
	t.Helper()
	p, err := billing.NewStripeProvider(billing.StripeConfig{
		SecretKey:       "sk_test_key",
		WebhookSecret:   testWebhookSecret,
		APIBase:         apiBase,
		SignatureMaxAge: 5 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

// signStripe produces a Stripe-Signature header for the payload.
func signStripe(payload []byte, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestNewStripeProvider(t *testing.T) {
	t.Parallel()

	_, err := billing.NewStripeProvider(billing.StripeConfig{WebhookSecret: "whsec"})
	assert.ErrorIs(t, err, billing.ErrMissingAPIKey)

	_, err = billing.NewStripeProvider(billing.StripeConfig{SecretKey: "sk"})
	assert.ErrorIs(t, err, billing.ErrMissingWebhookSecret)
}

func TestParseWebhook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("checkout session completed", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		tenantID := uuid.New()
		payload := fmt.Appendf(nil, `{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"data": {"object": {
				"id": "cs_1",
				"customer": "cus_1",
				"subscription": "sub_1",
				"amount_total": 2900,
				"metadata": {"userId": %q, "planType": "PRO", "userEmail": "t@example.com"}
			}}
		}`, tenantID)

		event, err := provider.ParseWebhook(ctx, payload, signStripe(payload, time.Now().Unix()))
		require.NoError(t, err)
		assert.Equal(t, billing.EventCheckoutCompleted, event.Type)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, tenantID, event.TenantID)
		assert.Equal(t, "PRO", event.PlanKey)
		assert.Equal(t, "cus_1", event.CustomerID)
		assert.Equal(t, "sub_1", event.SubscriptionID)
		assert.Equal(t, int64(2900), event.AmountTotal)
		assert.Equal(t, "t@example.com", event.TenantEmail)
	})

	t.Run("subscription updated", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		tenantID := uuid.New()
		payload := fmt.Appendf(nil, `{
			"id": "evt_2",
			"type": "customer.subscription.updated",
			"data": {"object": {
				"id": "sub_2",
				"status": "past_due",
				"metadata": {"userId": %q, "planType": "PRO"}
			}}
		}`, tenantID)

		event, err := provider.ParseWebhook(ctx, payload, signStripe(payload, time.Now().Unix()))
		require.NoError(t, err)
		assert.Equal(t, billing.EventSubscriptionUpdated, event.Type)
		assert.Equal(t, "sub_2", event.SubscriptionID)
		assert.Equal(t, "past_due", event.Status)
		assert.Equal(t, tenantID, event.TenantID)
	})

	t.Run("invoice carries only the subscription reference", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		payload := []byte(`{
			"id": "evt_3",
			"type": "invoice.payment_succeeded",
			"data": {"object": {"id": "in_3", "subscription": "sub_3"}}
		}`)

		event, err := provider.ParseWebhook(ctx, payload, signStripe(payload, time.Now().Unix()))
		require.NoError(t, err)
		assert.Equal(t, billing.EventInvoicePaid, event.Type)
		assert.Equal(t, "sub_3", event.SubscriptionID)
		assert.Equal(t, uuid.Nil, event.TenantID)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		payload := []byte(`{"id": "evt_4", "type": "invoice.payment_succeeded", "data": {"object": {}}}`)
		signature := signStripe(payload, time.Now().Unix())

		tampered := []byte(`{"id": "evt_4", "type": "invoice.payment_succeeded", "data": {"object": {"subscription": "sub_evil"}}}`)
		_, err := provider.ParseWebhook(ctx, tampered, signature)
		assert.ErrorIs(t, err, billing.ErrSignatureVerificationFailed)
	})

	t.Run("missing signature header", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		_, err := provider.ParseWebhook(ctx, []byte(`{}`), "")
		assert.ErrorIs(t, err, billing.ErrSignatureVerificationFailed)
	})

	t.Run("expired signature timestamp", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		payload := []byte(`{"id": "evt_5", "type": "invoice.payment_succeeded", "data": {"object": {}}}`)
		stale := time.Now().Add(-10 * time.Minute).Unix()

		_, err := provider.ParseWebhook(ctx, payload, signStripe(payload, stale))
		assert.ErrorIs(t, err, billing.ErrSignatureVerificationFailed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		payload := []byte(`{"id": "evt_6", "type": "invoice.payment_succeeded", "data": {"object": {}}}`)
		ts := time.Now().Unix()
		mac := hmac.New(sha256.New, []byte("whsec_other"))
		fmt.Fprintf(mac, "%d.%s", ts, payload)
		header := fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))

		_, err := provider.ParseWebhook(ctx, payload, header)
		assert.ErrorIs(t, err, billing.ErrSignatureVerificationFailed)
	})

	t.Run("valid signature over malformed payload", func(t *testing.T) {
		t.Parallel()

		provider := newStripeProvider(t, "")
		payload := []byte(`{"id": "evt_7"`)
		_, err := provider.ParseWebhook(ctx, payload, signStripe(payload, time.Now().Unix()))
		assert.ErrorIs(t, err, billing.ErrMalformedPayload)
	})
}

func TestCreateCheckoutLink(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates hosted session with correlation metadata", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
			require.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "subscription", r.Form.Get("mode"))
			assert.Equal(t, "price_pro_monthly", r.Form.Get("line_items[0][price]"))
			assert.Equal(t, tenantID.String(), r.Form.Get("metadata[userId]"))
			assert.Equal(t, "PRO", r.Form.Get("metadata[planType]"))
			assert.Equal(t, tenantID.String(), r.Form.Get("subscription_data[metadata][userId]"))

			json.NewEncoder(w).Encode(map[string]any{
				"id":  "cs_test_1",
				"url": "https://checkout.stripe.com/c/cs_test_1",
			})
		}))
		defer srv.Close()

		provider := newStripeProvider(t, srv.URL)
		link, err := provider.CreateCheckoutLink(ctx, billing.CheckoutRequest{
			PriceID:    "price_pro_monthly",
			TenantID:   tenantID,
			PlanKey:    "PRO",
			Email:      "t@example.com",
			SuccessURL: "https://app/success",
			CancelURL:  "https://app/cancel",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", link.URL)
		assert.Equal(t, "cs_test_1", link.SessionID)
	})

	t.Run("provider error surfaces", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "no such price"}})
		}))
		defer srv.Close()

		provider := newStripeProvider(t, srv.URL)
		_, err := provider.CreateCheckoutLink(ctx, billing.CheckoutRequest{
			PriceID:  "price_missing",
			TenantID: uuid.New(),
		})
		assert.ErrorIs(t, err, billing.ErrProviderError)
		assert.ErrorContains(t, err, "no such price")
	})
}

func TestCustomerPortalLink(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/billing_portal/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_1", r.Form.Get("customer"))
		json.NewEncoder(w).Encode(map[string]any{"url": "https://billing.stripe.com/p/session_1"})
	}))
	defer srv.Close()

	provider := newStripeProvider(t, srv.URL)
	link, err := provider.CustomerPortalLink(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session_1", link.URL)
}
