package entitlement

import (
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded is the recoverable "upgrade required" condition.
	// Concrete denials are *QuotaError values that unwrap to this sentinel.
	ErrQuotaExceeded = errors.New("quota exceeded")

	ErrTenantNotFound = errors.New("tenant account not found")
	ErrPlanNotFound   = errors.New("tenant plan not found in catalog")
)

// QuotaKind identifies which plan quota was exhausted.
type QuotaKind string

const (
	QuotaBlogs QuotaKind = "blogs"
	QuotaWords QuotaKind = "words"
	QuotaTeam  QuotaKind = "team"
)

// QuotaError reports a denied operation with enough structure for the caller
// to render an upgrade prompt. Used and Limit describe the counter that
// triggered the denial.
type QuotaError struct {
	Kind  QuotaKind
	Used  int64
	Limit int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d/%d used this cycle", e.Kind, e.Used, e.Limit)
}

func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}
