package account

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines account persistence. Implementations must guarantee
// field-level atomicity for the increment operations.
type Store interface {
	// Get returns the account for the tenant ID.
	// Returns ErrNotFound if no account exists.
	Get(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetBySubscription resolves an account by its provider subscription
	// reference. Returns ErrNotFound when nothing matches and
	// ErrAmbiguousSubscription when more than one account does; callers must
	// not guess between candidates.
	GetBySubscription(ctx context.Context, subscriptionID string) (*Account, error)

	// Create inserts a new account. Returns ErrAlreadyExists on ID collision.
	Create(ctx context.Context, acc *Account) error

	// Update applies a partial patch to the account.
	Update(ctx context.Context, id uuid.UUID, patch Patch) error

	// IncrementUsage unconditionally adds to the usage counters.
	IncrementUsage(ctx context.Context, id uuid.UUID, blogs, words int64) error

	// IncrementUsageWithin atomically adds one blog credit and the given
	// word count, but only if the resulting counters stay within the limits
	// (plans.Unlimited disables the corresponding condition). Returns
	// ErrUsageLimitReached when the increment would exceed a quota.
	IncrementUsageWithin(ctx context.Context, id uuid.UUID, words, blogLimit, wordLimit int64) error

	// ResetUsage zeroes both usage counters and starts a new billing cycle.
	// Resetting is idempotent: applying it twice leaves the same counters.
	ResetUsage(ctx context.Context, id uuid.UUID, cycleEnd time.Time) error
}
