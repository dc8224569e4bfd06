package affiliate

import "errors"

var (
	// ErrNotFound is returned when no affiliate matches the lookup key.
	ErrNotFound = errors.New("affiliate not found")
	// ErrDuplicateConversion is returned when a conversion with the same
	// billing event ID has already been recorded.
	ErrDuplicateConversion = errors.New("conversion already recorded")
	// ErrCodeTaken is returned when the requested referral code is in use.
	ErrCodeTaken = errors.New("referral code already taken")
	// ErrStoreFailure wraps backend failures so callers can branch on the
	// category without inspecting driver errors.
	ErrStoreFailure = errors.New("affiliate store failure")
)
