package plans

import (
	"errors"
	"fmt"
)

// FreePlanKey is the plan every account starts on and the plan tenants
// revert to when their subscription is deleted.
const FreePlanKey = "FREE"

// Plan describes a subscription plan and its usage quotas.
// PriceID holds the payment provider's price identifier for paid plans and
// is empty for the free plan.
type Plan struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Price       Money  `yaml:"price"`
	PriceID     string `yaml:"price_id"`
	BlogCredits int64  `yaml:"blog_credits"` // posts per billing cycle, -1 unlimited
	WordLimit   int64  `yaml:"word_limit"`   // words per billing cycle, -1 unlimited
	TeamSeats   int64  `yaml:"team_seats"`   // concurrent team members, -1 unlimited
	Tier        Tier   `yaml:"tier"`
}

// IsFree reports whether the plan requires no payment provider subscription.
func (p Plan) IsFree() bool {
	return p.Price.Amount == 0
}

// Validate checks that the plan definition is internally consistent.
func (p Plan) Validate() error {
	if p.Key == "" {
		return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan key is empty"))
	}
	if p.Name == "" {
		return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("plan %s has no name", p.Key))
	}
	if p.Price.Amount < 0 {
		return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("plan %s has negative price: %d", p.Key, p.Price.Amount))
	}
	for _, q := range []struct {
		name  string
		value int64
	}{
		{"blog_credits", p.BlogCredits},
		{"word_limit", p.WordLimit},
		{"team_seats", p.TeamSeats},
	} {
		if q.value < Unlimited {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has invalid %s: %d", p.Key, q.name, q.value))
		}
	}
	switch p.Tier {
	case TierIndividual, TierAgency:
	default:
		return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("plan %s has unknown tier %q", p.Key, p.Tier))
	}
	if !p.IsFree() && p.PriceID == "" {
		return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("paid plan %s has no price ID", p.Key))
	}
	return nil
}
