// Package billing exposes the payment provider surface: the webhook
// receiver plus checkout and customer portal session endpoints.
package billing
