package plans

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// CatalogSource defines how plan definitions are loaded into a Catalog.
type CatalogSource interface {
	Load(ctx context.Context) ([]Plan, error)
}

// Catalog is an immutable set of plan definitions keyed by plan key.
// It is built once at startup and safe for concurrent readers.
type Catalog struct {
	plans map[string]Plan
}

// NewCatalog loads plans from the source and validates them.
// The free plan must be present: new accounts default to it and the billing
// reconciler reverts cancelled subscriptions to it.
func NewCatalog(ctx context.Context, src CatalogSource) (*Catalog, error) {
	if src == nil {
		panic("plans: CatalogSource is required")
	}

	loaded, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if len(loaded) == 0 {
		return nil, errors.Join(ErrInvalidPlanConfiguration, errors.New("no plans defined"))
	}

	byKey := make(map[string]Plan, len(loaded))
	for _, p := range loaded {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byKey[p.Key]; dup {
			return nil, errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("duplicate plan key %s", p.Key))
		}
		byKey[p.Key] = p
	}

	if _, ok := byKey[FreePlanKey]; !ok {
		return nil, errors.Join(ErrInvalidPlanConfiguration,
			fmt.Errorf("catalog must include the %s plan", FreePlanKey))
	}

	return &Catalog{plans: byKey}, nil
}

// Lookup returns the plan for the given key.
func (c *Catalog) Lookup(key string) (Plan, error) {
	plan, ok := c.plans[key]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// Has reports whether a plan key exists in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.plans[key]
	return ok
}

// ByPriceID returns the plan whose provider price ID matches.
// Webhook payloads often carry the price ID rather than our plan key.
func (c *Catalog) ByPriceID(priceID string) (Plan, error) {
	if priceID == "" {
		return Plan{}, ErrPlanNotFound
	}
	for _, p := range c.plans {
		if p.PriceID == priceID {
			return p, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

// Keys returns all plan keys in deterministic order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.plans))
	for k := range c.plans {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
