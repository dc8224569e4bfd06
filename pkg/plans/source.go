package plans

import (
	"context"
	"slices"
)

type staticSource struct {
	plans []Plan
}

// NewStaticSource returns a CatalogSource backed by a fixed slice of plans.
// Panics if no plans are provided so a misconfigured service fails at startup.
// The slice is copied to keep the source immutable.
func NewStaticSource(plans ...Plan) CatalogSource {
	if len(plans) == 0 {
		panic("plans: at least one plan is required")
	}
	return &staticSource{plans: slices.Clone(plans)}
}

// Load returns a copy of the configured plans.
func (s *staticSource) Load(_ context.Context) ([]Plan, error) {
	return slices.Clone(s.plans), nil
}
