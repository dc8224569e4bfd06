package email

import "context"

// Notifier sends the fixed billing notifications through a Sender.
// It satisfies the billing reconciler's Notifier interface.
type Notifier struct {
	sender      Sender
	supportMail string
}

// NewNotifier creates a billing notifier.
// Panics if sender is nil to fail fast on wiring mistakes.
func NewNotifier(sender Sender, supportMail string) *Notifier {
	if sender == nil {
		panic("email: sender is required")
	}
	return &Notifier{sender: sender, supportMail: supportMail}
}

// PaymentFailed tells the tenant their latest invoice could not be charged.
func (n *Notifier) PaymentFailed(ctx context.Context, to string) error {
	return n.sender.Send(ctx, Message{
		To:      to,
		Subject: "Payment failed - action required",
		Tag:     "payment-failed",
		BodyHTML: `<html><body>` +
			`<h2>We could not process your payment</h2>` +
			`<p>Your latest subscription invoice failed to charge. Your account keeps full access ` +
			`while the payment provider retries, but please update your payment method to avoid ` +
			`interruption.</p>` +
			`<p>You can update your card from the billing portal in your dashboard.</p>` +
			`<p>Questions? Reach us at ` + n.supportMail + `.</p>` +
			`</body></html>`,
	})
}
