package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/account"
	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

// Guard evaluates plan entitlements against live usage counters.
// It holds no mutable state of its own; the account record is the single
// shared resource and every access is one read or one atomic update.
type Guard struct {
	catalog *plans.Catalog
	store   account.Store
}

// NewGuard creates a Guard. Panics on nil dependencies to fail fast during
// initialization.
func NewGuard(catalog *plans.Catalog, store account.Store) *Guard {
	if catalog == nil {
		panic("entitlement: plan catalog is required")
	}
	if store == nil {
		panic("entitlement: account store is required")
	}
	return &Guard{catalog: catalog, store: store}
}

// snapshot loads the tenant account and its plan definition.
// A missing account or an unknown plan key is a data-integrity fault, never
// a reason to fall back to unmetered behavior.
func (g *Guard) snapshot(ctx context.Context, tenantID uuid.UUID) (*account.Account, plans.Plan, error) {
	acc, err := g.store.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, plans.Plan{}, ErrTenantNotFound
		}
		return nil, plans.Plan{}, err
	}

	plan, err := g.catalog.Lookup(acc.PlanKey)
	if err != nil {
		return nil, plans.Plan{}, errors.Join(ErrPlanNotFound, err)
	}

	return acc, plan, nil
}

// CheckBlog reports whether the tenant may generate another blog post.
func (g *Guard) CheckBlog(ctx context.Context, tenantID uuid.UUID) error {
	acc, plan, err := g.snapshot(ctx, tenantID)
	if err != nil {
		return err
	}

	if plan.BlogCredits == plans.Unlimited {
		return nil
	}
	if acc.BlogsUsed >= plan.BlogCredits {
		return &QuotaError{Kind: QuotaBlogs, Used: acc.BlogsUsed, Limit: plan.BlogCredits}
	}
	return nil
}

// CheckWords reports whether generating the requested number of words would
// keep the tenant within its word quota. The check is prospective: it
// evaluates consumed + requested, not just the current counter.
func (g *Guard) CheckWords(ctx context.Context, tenantID uuid.UUID, requested int64) error {
	acc, plan, err := g.snapshot(ctx, tenantID)
	if err != nil {
		return err
	}

	if plan.WordLimit == plans.Unlimited {
		return nil
	}
	if acc.WordsUsed+requested > plan.WordLimit {
		return &QuotaError{Kind: QuotaWords, Used: acc.WordsUsed, Limit: plan.WordLimit}
	}
	return nil
}

// CheckTeamSeat reports whether the tenant may add another team member.
func (g *Guard) CheckTeamSeat(ctx context.Context, tenantID uuid.UUID) error {
	acc, plan, err := g.snapshot(ctx, tenantID)
	if err != nil {
		return err
	}

	if plan.TeamSeats == plans.Unlimited {
		return nil
	}
	if acc.TeamMembers >= plan.TeamSeats {
		return &QuotaError{Kind: QuotaTeam, Used: acc.TeamMembers, Limit: plan.TeamSeats}
	}
	return nil
}

// Record consumes one blog credit and the actual generated word count.
// Call it only after generation verifiably succeeded. The increment is
// conditional at the store level, so a concurrent request that slipped past
// the pre-check still cannot push the tenant over quota.
func (g *Guard) Record(ctx context.Context, tenantID uuid.UUID, wordsGenerated int64) error {
	acc, plan, err := g.snapshot(ctx, tenantID)
	if err != nil {
		return err
	}

	err = g.store.IncrementUsageWithin(ctx, tenantID, wordsGenerated, plan.BlogCredits, plan.WordLimit)
	if errors.Is(err, account.ErrUsageLimitReached) {
		// Lost the race to a concurrent request. Report which quota closed.
		if plan.BlogCredits != plans.Unlimited && acc.BlogsUsed >= plan.BlogCredits {
			return &QuotaError{Kind: QuotaBlogs, Used: acc.BlogsUsed, Limit: plan.BlogCredits}
		}
		return &QuotaError{Kind: QuotaWords, Used: acc.WordsUsed, Limit: plan.WordLimit}
	}
	return err
}
