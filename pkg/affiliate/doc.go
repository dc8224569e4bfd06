// Package affiliate tracks referral partners and credits them a commission
// when a referred tenant completes a paid checkout.
//
// Each affiliate owns a referral code. Tenants that sign up through a
// referral link carry that code on their account record, and checkout
// completions for such tenants produce a conversion worth a fixed
// percentage of the charged amount. Conversions are keyed by the billing
// event ID so that webhook redelivery never credits twice.
package affiliate
