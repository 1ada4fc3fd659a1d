package types

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrServiceNotFound     = errors.New("service not found")

	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrStaleApplication  = errors.New("application was modified by another request")

	// ErrPersistence wraps any failure writing to the application store.
	ErrPersistence = errors.New("persistence failure")
)
