// Package billing reconciles tenant accounts with the payment provider.
//
// The provider pushes webhook events (checkout completion, subscription
// lifecycle, invoice outcomes) with at-least-once delivery and no ordering
// guarantee. Each event type has its own self-contained transition over the
// account record, so a redelivered or late event never assumes it is the
// most recent billing fact. Counter resets are naturally idempotent;
// commission crediting is not and is deduplicated by provider event ID.
//
// Every inbound event is authenticated against the provider's shared-secret
// signature before any state is touched. Events that cannot be resolved to
// exactly one account are logged and dropped: silent non-application beats
// misapplying a transition to the wrong tenant.
package billing
