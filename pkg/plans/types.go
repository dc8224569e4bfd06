package plans

const (
	// Unlimited indicates no ceiling for a quota. It is a distinct value
	// from zero: zero forbids consumption entirely.
	Unlimited int64 = -1
)

// Tier categorizes plans by who they are sold to.
type Tier string

const (
	TierIndividual Tier = "individual"
	TierAgency     Tier = "agency"
)

// Money represents a monetary amount in the smallest currency unit.
// For example, $29.00 USD is Amount: 2900, Currency: "USD".
type Money struct {
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
}
