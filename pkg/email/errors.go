package email

import "errors"

var (
	ErrSendFailed    = errors.New("email: send failed")
	ErrInvalidConfig = errors.New("email: invalid config")
	ErrInvalidParams = errors.New("email: invalid params")
)
