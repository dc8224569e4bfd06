package plans

// DefaultPlans returns the built-in plan catalog.
// Provider price IDs are placeholders here; production deployments override
// them via the YAML catalog file.
func DefaultPlans() []Plan {
	return []Plan{
		{
			Key:         FreePlanKey,
			Name:        "Free",
			Price:       Money{Amount: 0, Currency: "USD"},
			BlogCredits: 3,
			WordLimit:   5000,
			TeamSeats:   1,
			Tier:        TierIndividual,
		},
		{
			Key:         "PRO",
			Name:        "Pro",
			Price:       Money{Amount: 2900, Currency: "USD"},
			PriceID:     "price_pro_monthly",
			BlogCredits: 30,
			WordLimit:   50000,
			TeamSeats:   1,
			Tier:        TierIndividual,
		},
		{
			Key:         "UNLIMITED",
			Name:        "Unlimited",
			Price:       Money{Amount: 9900, Currency: "USD"},
			PriceID:     "price_unlimited_monthly",
			BlogCredits: Unlimited,
			WordLimit:   Unlimited,
			TeamSeats:   1,
			Tier:        TierIndividual,
		},
		{
			Key:         "AGENCY_BASIC",
			Name:        "Agency Basic",
			Price:       Money{Amount: 19900, Currency: "USD"},
			PriceID:     "price_agency_basic_monthly",
			BlogCredits: 100,
			WordLimit:   100000,
			TeamSeats:   5,
			Tier:        TierAgency,
		},
		{
			Key:         "AGENCY_PRO",
			Name:        "Agency Pro",
			Price:       Money{Amount: 49900, Currency: "USD"},
			PriceID:     "price_agency_pro_monthly",
			BlogCredits: 300,
			WordLimit:   300000,
			TeamSeats:   15,
			Tier:        TierAgency,
		},
		{
			Key:         "AGENCY_ENTERPRISE",
			Name:        "Agency Enterprise",
			Price:       Money{Amount: 99900, Currency: "USD"},
			PriceID:     "price_agency_enterprise_monthly",
			BlogCredits: Unlimited,
			WordLimit:   Unlimited,
			TeamSeats:   Unlimited,
			Tier:        TierAgency,
		},
	}
}
