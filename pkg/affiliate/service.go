package affiliate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/account"
)

// Service resolves referral attribution and credits commissions. It satisfies
// the billing reconciler's ConversionRecorder interface.
type Service struct {
	store    Store
	accounts account.Store
	log      *slog.Logger
}

// NewService creates an affiliate service.
// Panics if store or accounts is nil to fail fast on wiring mistakes.
func NewService(store Store, accounts account.Store, log *slog.Logger) *Service {
	if store == nil {
		panic("affiliate: store is required")
	}
	if accounts == nil {
		panic("affiliate: account store is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, accounts: accounts, log: log}
}

// Register creates a new affiliate with a generated referral code. Code
// collisions are retried a few times before giving up.
func (s *Service) Register(ctx context.Context, email string) (*Affiliate, error) {
	for range 3 {
		aff := &Affiliate{
			ID:           uuid.New(),
			Email:        email,
			ReferralCode: NewReferralCode(email),
			Status:       StatusActive,
			CreatedAt:    time.Now().UTC(),
		}
		err := s.store.Create(ctx, aff)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return aff, nil
	}
	return nil, ErrCodeTaken
}

// TrackClick counts a visit through a referral link. Unknown codes are
// ignored so probing cannot be distinguished from real traffic.
func (s *Service) TrackClick(ctx context.Context, code string) error {
	return s.store.RecordClick(ctx, code)
}

// Credit records a commission for a paid checkout if the tenant was referred.
// Missing attribution, unknown codes, and suspended affiliates are all
// non-errors: the checkout simply yields no commission. Redelivered events
// hit the unique conversion key and are dropped silently.
func (s *Service) Credit(ctx context.Context, eventID string, tenantID uuid.UUID, email, planKey string, amount int64) error {
	acc, err := s.accounts.Get(ctx, tenantID)
	if errors.Is(err, account.ErrNotFound) {
		s.log.WarnContext(ctx, "conversion for unknown tenant",
			slog.String("event_id", eventID),
			slog.String("tenant_id", tenantID.String()))
		return nil
	}
	if err != nil {
		return err
	}
	if acc.ReferredBy == "" {
		return nil
	}

	aff, err := s.store.ByReferralCode(ctx, acc.ReferredBy)
	if errors.Is(err, ErrNotFound) {
		s.log.WarnContext(ctx, "referral code without affiliate",
			slog.String("event_id", eventID),
			slog.String("referral_code", acc.ReferredBy))
		return nil
	}
	if err != nil {
		return err
	}
	if aff.Status != StatusActive {
		return nil
	}

	commission := CommissionFor(amount)
	if commission == 0 {
		return nil
	}

	conv := &Conversion{
		ID:          uuid.New(),
		EventID:     eventID,
		AffiliateID: aff.ID,
		TenantID:    tenantID,
		TenantEmail: email,
		PlanKey:     planKey,
		Amount:      amount,
		Commission:  commission,
		CreatedAt:   time.Now().UTC(),
	}
	err = s.store.CreateConversion(ctx, conv)
	if errors.Is(err, ErrDuplicateConversion) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "affiliate commission credited",
		slog.String("event_id", eventID),
		slog.String("affiliate_id", aff.ID.String()),
		slog.Int64("commission", commission))
	return nil
}
