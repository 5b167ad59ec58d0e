package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput matches every caller-fixable validation failure; the HTTP
// layer maps it to 400 with the error text as the message.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError message is shown to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError failure of an external API (email); Status is the HTTP
// status inferred from the upstream error text.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }
