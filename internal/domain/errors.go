package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrMissingAddress = errors.New("missing address")
)

// ResolutionError is the single failure kind reported by route resolvers:
// geocoding misses, routing failures, timeouts and malformed responses all
// surface as this type.
type ResolutionError struct {
	Reason string
	Err    error
}

func NewResolutionError(reason string, err error) *ResolutionError {
	return &ResolutionError{Reason: reason, Err: err}
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return "route resolution: " + e.Reason
	}
	return fmt.Sprintf("route resolution: %s: %v", e.Reason, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
