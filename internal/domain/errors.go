package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyRunning  = errors.New("countdown already running")
	ErrNotRunning      = errors.New("countdown is not running")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidSnooze   = errors.New("snooze input is not a positive number of minutes")
	ErrInvalidRequest  = errors.New("invalid notification request")
)
