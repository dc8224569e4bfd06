package affiliate

import (
	"context"

	"github.com/google/uuid"
)

// Store persists affiliates and their conversions.
type Store interface {
	// Get returns the affiliate by ID, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Affiliate, error)
	// ByReferralCode returns the affiliate owning the code, or ErrNotFound.
	ByReferralCode(ctx context.Context, code string) (*Affiliate, error)
	// Create inserts a new affiliate. Returns ErrCodeTaken if the
	// referral code is already in use.
	Create(ctx context.Context, aff *Affiliate) error
	// RecordClick increments the click counter for a referral code.
	// Unknown codes are ignored.
	RecordClick(ctx context.Context, code string) error
	// CreateConversion inserts a conversion and rolls its commission into
	// the affiliate's totals. Returns ErrDuplicateConversion when a
	// conversion with the same event ID already exists.
	CreateConversion(ctx context.Context, conv *Conversion) error
	// Conversions lists an affiliate's conversions, newest first.
	Conversions(ctx context.Context, affiliateID uuid.UUID) ([]Conversion, error)
}
