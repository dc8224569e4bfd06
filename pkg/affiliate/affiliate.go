package affiliate

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status describes whether an affiliate may accumulate new conversions.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// CommissionPercent is the share of a conversion amount credited to the
// referring affiliate, in whole percent.
const CommissionPercent int64 = 30

// Affiliate is a referral partner.
type Affiliate struct {
	ID               uuid.UUID `bson:"_id"`
	Email            string    `bson:"email"`
	ReferralCode     string    `bson:"referral_code"`
	TotalClicks      int64     `bson:"total_clicks"`
	TotalConversions int64     `bson:"total_conversions"`
	TotalEarnings    int64     `bson:"total_earnings"`
	Status           Status    `bson:"status"`
	CreatedAt        time.Time `bson:"created_at"`
}

// Conversion records a commission credited for one paid checkout.
// EventID is the billing event that produced it and is unique per
// conversion, which makes crediting safe under webhook redelivery.
type Conversion struct {
	ID          uuid.UUID `bson:"_id"`
	EventID     string    `bson:"event_id"`
	AffiliateID uuid.UUID `bson:"affiliate_id"`
	TenantID    uuid.UUID `bson:"tenant_id"`
	TenantEmail string    `bson:"tenant_email"`
	PlanKey     string    `bson:"plan_key"`
	Amount      int64     `bson:"amount"`
	Commission  int64     `bson:"commission"`
	CreatedAt   time.Time `bson:"created_at"`
}

// CommissionFor computes the commission owed on an amount in the smallest
// currency unit, truncating fractional cents toward zero.
func CommissionFor(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return amount * CommissionPercent / 100
}

// NewReferralCode generates a referral code from the affiliate's email
// local part plus a random suffix, lowercased for link friendliness.
func NewReferralCode(email string) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic("affiliate: rand.Read failed: " + err.Error())
	}
	suffix := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)

	local, _, _ := strings.Cut(email, "@")
	local = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, local)
	return strings.ToLower(local + suffix)
}
