package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/account"
	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

// cycleDuration is the fixed billing cycle length.
const cycleDuration = 30 * 24 * time.Hour

// ConversionRecorder credits affiliate commission for a completed checkout.
// Crediting is NOT naturally idempotent, so the reconciler only invokes it
// on the first delivery of an event ID.
type ConversionRecorder interface {
	Credit(ctx context.Context, eventID string, tenantID uuid.UUID, email, planKey string, amount int64) error
}

// Notifier delivers billing notifications to the tenant.
type Notifier interface {
	PaymentFailed(ctx context.Context, email string) error
}

// Service is the billing reconciliation state machine. It applies one
// deterministic transition per event type to the tenant account so the
// entitlement guard's next read reflects provider reality.
type Service struct {
	catalog     *plans.Catalog
	store       account.Store
	provider    Provider
	deduper     Deduper
	log         *slog.Logger
	conversions ConversionRecorder
	notifier    Notifier
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithConversionRecorder enables affiliate commission crediting on
// checkout completion.
func WithConversionRecorder(r ConversionRecorder) ServiceOption {
	return func(s *Service) { s.conversions = r }
}

// WithNotifier enables payment-failure notifications.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates the billing reconciler.
// Panics if required dependencies are nil to fail fast during initialization.
func NewService(catalog *plans.Catalog, store account.Store, provider Provider, deduper Deduper, opts ...ServiceOption) *Service {
	if catalog == nil {
		panic("billing: plan catalog is required")
	}
	if store == nil {
		panic("billing: account store is required")
	}
	if provider == nil {
		panic("billing: provider is required")
	}
	if deduper == nil {
		panic("billing: deduper is required")
	}

	s := &Service{
		catalog:  catalog,
		store:    store,
		provider: provider,
		deduper:  deduper,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleWebhook authenticates and applies one provider event.
//
// Authentication and payload errors propagate to the caller (the transport
// answers 400; the provider does not redeliver those). Events that resolve
// to zero or multiple accounts are logged and dropped: the transition is
// skipped rather than applied to a guessed tenant. Store failures propagate
// so the provider's retry policy gets another attempt.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(ctx, payload, signature)
	if err != nil {
		return err
	}

	log := s.log.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
	)

	switch event.Type {
	case EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, log, event)
	case EventSubscriptionCreated:
		return s.applySubscriptionCreated(ctx, log, event)
	case EventSubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, log, event)
	case EventSubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, log, event)
	case EventInvoicePaid:
		return s.applyInvoicePaid(ctx, log, event)
	case EventInvoiceFailed:
		return s.applyInvoiceFailed(ctx, log, event)
	default:
		log.DebugContext(ctx, "unhandled billing event", slog.String("provider_event", event.ProviderEvent))
		return nil
	}
}

// applyCheckoutCompleted activates the purchased plan: plan assignment,
// provider references, zeroed counters, fresh 30-day cycle. Commission
// crediting is deduplicated on the provider event ID; everything else in
// this transition is idempotent under redelivery.
func (s *Service) applyCheckoutCompleted(ctx context.Context, log *slog.Logger, event *Event) error {
	if event.TenantID == uuid.Nil || event.PlanKey == "" {
		log.WarnContext(ctx, "checkout event missing tenant or plan metadata")
		return nil
	}
	if !s.catalog.Has(event.PlanKey) {
		log.WarnContext(ctx, "checkout event references unknown plan", slog.String("plan", event.PlanKey))
		return nil
	}

	status := account.SubscriptionActive
	paymentFailed := false
	err := s.store.Update(ctx, event.TenantID, account.Patch{
		PlanKey:        &event.PlanKey,
		CustomerID:     &event.CustomerID,
		SubscriptionID: &event.SubscriptionID,
		Status:         &status,
		PaymentFailed:  &paymentFailed,
	})
	if errors.Is(err, account.ErrNotFound) {
		log.WarnContext(ctx, "checkout event for unknown tenant", slog.String("tenant_id", event.TenantID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply checkout: %w", err)
	}

	if err := s.store.ResetUsage(ctx, event.TenantID, time.Now().Add(cycleDuration)); err != nil {
		return fmt.Errorf("reset usage after checkout: %w", err)
	}

	log.InfoContext(ctx, "tenant upgraded",
		slog.String("tenant_id", event.TenantID.String()),
		slog.String("plan", event.PlanKey),
	)

	s.creditConversion(ctx, log, event)
	return nil
}

// creditConversion credits affiliate commission exactly once per event ID.
// Failures are logged, never surfaced: the account transition already
// applied and must not be retried because of an affiliate-side problem.
func (s *Service) creditConversion(ctx context.Context, log *slog.Logger, event *Event) {
	if s.conversions == nil {
		return
	}

	first, err := s.deduper.FirstDelivery(ctx, event.ID)
	if err != nil {
		// Fail closed: skipping a credit is recoverable by support,
		// double-crediting is not.
		log.ErrorContext(ctx, "event dedup check failed, skipping commission", slog.Any("error", err))
		return
	}
	if !first {
		log.DebugContext(ctx, "duplicate checkout delivery, commission already credited")
		return
	}

	if err := s.conversions.Credit(ctx, event.ID, event.TenantID, event.TenantEmail, event.PlanKey, event.AmountTotal); err != nil {
		log.ErrorContext(ctx, "failed to credit affiliate conversion", slog.Any("error", err))
	}
}

// applySubscriptionCreated performs bookkeeping only; plan activation
// happens on checkout completion.
func (s *Service) applySubscriptionCreated(ctx context.Context, log *slog.Logger, event *Event) error {
	if event.TenantID == uuid.Nil {
		log.WarnContext(ctx, "subscription created event missing tenant metadata")
		return nil
	}
	log.InfoContext(ctx, "subscription created",
		slog.String("tenant_id", event.TenantID.String()),
		slog.String("subscription_id", event.SubscriptionID),
	)
	return nil
}

// applySubscriptionUpdated syncs plan assignment and provider status.
// An absent plan key downgrades to the free plan, matching the provider's
// behavior when a price is removed from the subscription.
func (s *Service) applySubscriptionUpdated(ctx context.Context, log *slog.Logger, event *Event) error {
	if event.TenantID == uuid.Nil {
		log.WarnContext(ctx, "subscription updated event missing tenant metadata")
		return nil
	}

	planKey := event.PlanKey
	if planKey == "" {
		planKey = plans.FreePlanKey
	}
	if !s.catalog.Has(planKey) {
		log.WarnContext(ctx, "subscription update references unknown plan", slog.String("plan", planKey))
		return nil
	}

	status := mapProviderStatus(event.Status)
	err := s.store.Update(ctx, event.TenantID, account.Patch{
		PlanKey: &planKey,
		Status:  &status,
	})
	if errors.Is(err, account.ErrNotFound) {
		log.WarnContext(ctx, "subscription update for unknown tenant", slog.String("tenant_id", event.TenantID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply subscription update: %w", err)
	}
	return nil
}

// applySubscriptionDeleted reverts the tenant to the free plan and clears
// the subscription reference so later stale invoice events no longer
// resolve to this account.
func (s *Service) applySubscriptionDeleted(ctx context.Context, log *slog.Logger, event *Event) error {
	if event.TenantID == uuid.Nil {
		log.WarnContext(ctx, "subscription deleted event missing tenant metadata")
		return nil
	}

	freePlan := plans.FreePlanKey
	noSubscription := ""
	status := account.SubscriptionCanceled
	err := s.store.Update(ctx, event.TenantID, account.Patch{
		PlanKey:        &freePlan,
		SubscriptionID: &noSubscription,
		Status:         &status,
	})
	if errors.Is(err, account.ErrNotFound) {
		log.WarnContext(ctx, "subscription deletion for unknown tenant", slog.String("tenant_id", event.TenantID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply subscription deletion: %w", err)
	}

	log.InfoContext(ctx, "tenant downgraded to free plan", slog.String("tenant_id", event.TenantID.String()))
	return nil
}

// applyInvoicePaid starts a new billing cycle: counters reset to zero.
// Resetting is idempotent, so redelivery needs no dedup here.
func (s *Service) applyInvoicePaid(ctx context.Context, log *slog.Logger, event *Event) error {
	acc, ok, err := s.resolveBySubscription(ctx, log, event)
	if err != nil || !ok {
		return err
	}

	if err := s.store.ResetUsage(ctx, acc.ID, time.Now().Add(cycleDuration)); err != nil {
		return fmt.Errorf("reset usage on invoice paid: %w", err)
	}

	log.InfoContext(ctx, "billing cycle reset", slog.String("tenant_id", acc.ID.String()))
	return nil
}

// applyInvoiceFailed flags the account past due. Access is NOT revoked
// here: the tenant keeps generating until the provider gives up and sends
// subscription deletion.
func (s *Service) applyInvoiceFailed(ctx context.Context, log *slog.Logger, event *Event) error {
	acc, ok, err := s.resolveBySubscription(ctx, log, event)
	if err != nil || !ok {
		return err
	}

	paymentFailed := true
	status := account.SubscriptionPastDue
	if err := s.store.Update(ctx, acc.ID, account.Patch{
		PaymentFailed: &paymentFailed,
		Status:        &status,
	}); err != nil {
		return fmt.Errorf("apply invoice failure: %w", err)
	}

	log.WarnContext(ctx, "tenant payment failed", slog.String("tenant_id", acc.ID.String()))

	if s.notifier != nil && acc.Email != "" {
		if err := s.notifier.PaymentFailed(ctx, acc.Email); err != nil {
			log.ErrorContext(ctx, "failed to send payment failure notification", slog.Any("error", err))
		}
	}
	return nil
}

// resolveBySubscription maps an invoice event to exactly one account via the
// stored subscription reference. Zero or multiple matches means the event is
// stale or the data is inconsistent; either way the transition is skipped.
func (s *Service) resolveBySubscription(ctx context.Context, log *slog.Logger, event *Event) (*account.Account, bool, error) {
	if event.SubscriptionID == "" {
		log.DebugContext(ctx, "invoice event without subscription reference")
		return nil, false, nil
	}

	acc, err := s.store.GetBySubscription(ctx, event.SubscriptionID)
	switch {
	case errors.Is(err, account.ErrNotFound):
		log.InfoContext(ctx, "no account matches subscription reference",
			slog.String("subscription_id", event.SubscriptionID))
		return nil, false, nil
	case errors.Is(err, account.ErrAmbiguousSubscription):
		log.WarnContext(ctx, "subscription reference matches multiple accounts",
			slog.String("subscription_id", event.SubscriptionID))
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("resolve subscription %s: %w", event.SubscriptionID, err)
	}
	return acc, true, nil
}

// Checkout creates a hosted checkout session for a paid plan.
func (s *Service) Checkout(ctx context.Context, tenantID uuid.UUID, planKey, successURL, cancelURL string) (*CheckoutLink, error) {
	plan, err := s.catalog.Lookup(planKey)
	if err != nil {
		return nil, errors.Join(ErrPlanNotFound, err)
	}
	if plan.IsFree() {
		return nil, ErrFreePlanCheckout
	}

	acc, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return s.provider.CreateCheckoutLink(ctx, CheckoutRequest{
		PriceID:    plan.PriceID,
		TenantID:   tenantID,
		PlanKey:    plan.Key,
		Email:      acc.Email,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
}

// PortalLink returns a customer portal session for the tenant.
func (s *Service) PortalLink(ctx context.Context, tenantID uuid.UUID) (*PortalLink, error) {
	acc, err := s.store.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if acc.CustomerID == "" {
		return nil, fmt.Errorf("no customer portal available: tenant %s has no billing customer", tenantID)
	}
	return s.provider.CustomerPortalLink(ctx, acc.CustomerID)
}

// mapProviderStatus normalizes a provider-reported subscription status.
func mapProviderStatus(status string) account.SubscriptionStatus {
	switch status {
	case "active", "trialing":
		return account.SubscriptionActive
	case "past_due", "unpaid":
		return account.SubscriptionPastDue
	case "canceled", "cancelled":
		return account.SubscriptionCanceled
	case "":
		return account.SubscriptionNone
	default:
		return account.SubscriptionStatus(status)
	}
}
