package entitlement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

// QuotaUsage describes one quota kind for dashboard display.
// Percentage is -1 for unlimited quotas and capped at 100 otherwise.
type QuotaUsage struct {
	Used       int64 `json:"used"`
	Limit      int64 `json:"limit"`
	Percentage int   `json:"percentage"`
}

// UsageStats is the tenant's full metering snapshot.
type UsageStats struct {
	PlanKey         string     `json:"plan"`
	PlanName        string     `json:"plan_name"`
	Blogs           QuotaUsage `json:"blogs"`
	Words           QuotaUsage `json:"words"`
	Team            QuotaUsage `json:"team"`
	BillingCycleEnd time.Time  `json:"billing_cycle_end"`
}

// Usage returns the tenant's current usage against its plan quotas.
func (g *Guard) Usage(ctx context.Context, tenantID uuid.UUID) (*UsageStats, error) {
	acc, plan, err := g.snapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &UsageStats{
		PlanKey:         plan.Key,
		PlanName:        plan.Name,
		Blogs:           quotaUsage(acc.BlogsUsed, plan.BlogCredits),
		Words:           quotaUsage(acc.WordsUsed, plan.WordLimit),
		Team:            quotaUsage(acc.TeamMembers, plan.TeamSeats),
		BillingCycleEnd: acc.BillingCycleEnd,
	}, nil
}

func quotaUsage(used, limit int64) QuotaUsage {
	u := QuotaUsage{Used: used, Limit: limit}
	switch {
	case limit == plans.Unlimited:
		u.Percentage = -1
	case limit == 0:
		u.Percentage = 100
	default:
		u.Percentage = min(int((used*100)/limit), 100)
	}
	return u
}
