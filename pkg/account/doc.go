// Package account holds the tenant account record and its persistence layer.
//
// The account is the single shared mutable entity between the entitlement
// guard (which reads quotas and records consumption) and the billing
// reconciler (which applies webhook-driven plan changes). Both sides access
// it through the Store interface; every write is either a whole-field patch
// or a field-level atomic increment, so no caller ever holds the record
// "checked out".
//
// Store implementations must provide a conditional increment
// (IncrementUsageWithin) that only applies when the resulting counters stay
// within the given quotas. This closes the classic check-then-act race
// between concurrent generation requests for the same tenant.
package account
