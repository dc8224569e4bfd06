package plans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogsmith/pkg/plans"
)

func TestNewCatalog(t *testing.T) {
	t.Parallel()

	t.Run("loads default plans", func(t *testing.T) {
		t.Parallel()

		catalog, err := plans.NewCatalog(context.Background(), plans.NewStaticSource(plans.DefaultPlans()...))
		require.NoError(t, err)

		free, err := catalog.Lookup(plans.FreePlanKey)
		require.NoError(t, err)
		assert.Equal(t, int64(3), free.BlogCredits)
		assert.Equal(t, int64(5000), free.WordLimit)
		assert.True(t, free.IsFree())

		unlimited, err := catalog.Lookup("UNLIMITED")
		require.NoError(t, err)
		assert.Equal(t, plans.Unlimited, unlimited.BlogCredits)
		assert.Equal(t, plans.Unlimited, unlimited.WordLimit)
	})

	t.Run("rejects catalog without free plan", func(t *testing.T) {
		t.Parallel()

		src := plans.NewStaticSource(plans.Plan{
			Key:         "PRO",
			Name:        "Pro",
			Price:       plans.Money{Amount: 2900, Currency: "USD"},
			PriceID:     "price_pro",
			BlogCredits: 30,
			WordLimit:   50000,
			TeamSeats:   1,
			Tier:        plans.TierIndividual,
		})

		_, err := plans.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects duplicate plan keys", func(t *testing.T) {
		t.Parallel()

		p := plans.Plan{
			Key: plans.FreePlanKey, Name: "Free",
			BlogCredits: 3, WordLimit: 5000, TeamSeats: 1,
			Tier: plans.TierIndividual,
		}

		_, err := plans.NewCatalog(context.Background(), plans.NewStaticSource(p, p))
		assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects quota below unlimited sentinel", func(t *testing.T) {
		t.Parallel()

		src := plans.NewStaticSource(plans.Plan{
			Key: plans.FreePlanKey, Name: "Free",
			BlogCredits: -2, WordLimit: 5000, TeamSeats: 1,
			Tier: plans.TierIndividual,
		})

		_, err := plans.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
	})

	t.Run("rejects paid plan without price ID", func(t *testing.T) {
		t.Parallel()

		src := plans.NewStaticSource(
			plans.DefaultPlans()[0],
			plans.Plan{
				Key: "PRO", Name: "Pro",
				Price:       plans.Money{Amount: 2900, Currency: "USD"},
				BlogCredits: 30, WordLimit: 50000, TeamSeats: 1,
				Tier: plans.TierIndividual,
			},
		)

		_, err := plans.NewCatalog(context.Background(), src)
		assert.ErrorIs(t, err, plans.ErrInvalidPlanConfiguration)
	})
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	catalog, err := plans.NewCatalog(context.Background(), plans.NewStaticSource(plans.DefaultPlans()...))
	require.NoError(t, err)

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.Lookup("ULTIMATE")
		assert.ErrorIs(t, err, plans.ErrPlanNotFound)
	})

	t.Run("by price ID", func(t *testing.T) {
		t.Parallel()

		plan, err := catalog.ByPriceID("price_agency_pro_monthly")
		require.NoError(t, err)
		assert.Equal(t, "AGENCY_PRO", plan.Key)

		_, err = catalog.ByPriceID("")
		assert.ErrorIs(t, err, plans.ErrPlanNotFound)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{
			"AGENCY_BASIC", "AGENCY_ENTERPRISE", "AGENCY_PRO",
			"FREE", "PRO", "UNLIMITED",
		}, catalog.Keys())
	})
}
