package schedule

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownStatus  = errors.New("unknown trip status")
	ErrInvalidRule    = errors.New("invalid recurrence rule")
	ErrInvalidEventAt = errors.New("invalid event date or time")
)
