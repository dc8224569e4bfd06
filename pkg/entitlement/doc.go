// Package entitlement answers "may this tenant perform this operation now?"
// and records consumption after the operation verifiably succeeded.
//
// All checks run strictly before any generation work starts, so a denied
// request wastes no compute, and a failed generation never consumes quota.
// Recording uses the account store's conditional increment, which keeps two
// concurrent requests from pushing a tenant past its plan even though both
// passed the pre-check.
//
// Quota denials are recoverable and carry the exceeded quota kind so the
// caller can render an upgrade prompt. A missing tenant or plan is a
// data-integrity fault and surfaces as a fatal error instead.
package entitlement
