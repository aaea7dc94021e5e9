package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrTokenNotFound         = errors.New("assignment token not found")
	ErrCertificationNotFound = errors.New("certification not found")
	ErrInvalidAction         = errors.New("invalid assignment action")
	ErrAlreadyIssued         = errors.New("certification already issued")
	ErrDiscountInvalid       = errors.New("discount code invalid or expired")

	// ErrOrderNumberTaken and ErrCertificationIDTaken signal a collision
	// on a generated identifier; callers regenerate and retry.
	ErrOrderNumberTaken     = errors.New("order number already taken")
	ErrCertificationIDTaken = errors.New("certification id already taken")
)

// ValidationError reports bad input. It is returned synchronously and
// never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PreconditionError reports a stage or payment invariant violation,
// i.e. a caller-side sequencing bug rather than bad field input.
type PreconditionError struct {
	Reason string
}

func (e PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// AlreadyRespondedError is returned on a repeated assignment-token
// response. It carries the original decision so the caller can render
// "already accepted/declined" instead of a generic failure.
type AlreadyRespondedError struct {
	Decision    TokenStatus
	RespondedAt time.Time
}

func (e AlreadyRespondedError) Error() string {
	return "assignment already " + string(e.Decision)
}
