package service

import "errors"

// Expected operation outcomes. Handlers translate these to HTTP statuses;
// anything else that comes out of the service is an internal failure.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("buyer not found")
	ErrForbidden       = errors.New("not authorized for this buyer")
	ErrConflict        = errors.New("buyer was modified by another user")
	ErrRateLimited     = errors.New("too many requests")
	ErrTooManyRows     = errors.New("import exceeds the maximum row count")
)
