// Package email sends transactional mail for billing events.
//
// The Sender interface abstracts the delivery channel: the Postmark
// client is used in production and the dev sender writes messages to
// disk for local inspection. The notifier adapts a Sender to the fixed
// billing notifications the reconciler emits, such as the payment
// failure notice.
package email
