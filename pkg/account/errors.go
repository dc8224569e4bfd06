package account

import "errors"

var (
	ErrNotFound              = errors.New("account not found")
	ErrAlreadyExists         = errors.New("account already exists")
	ErrAmbiguousSubscription = errors.New("subscription reference matches multiple accounts")
	ErrUsageLimitReached     = errors.New("usage increment would exceed quota")
	ErrStoreFailure          = errors.New("account store failure")
)
