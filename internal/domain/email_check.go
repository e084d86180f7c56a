package domain

import (
	"context"
	"errors"
)

var (
	// ErrCheckerUnavailable is returned when the email checker cannot be reached.
	ErrCheckerUnavailable = errors.New("email validation service unavailable")
	// ErrCheckerTimeout is returned when the email checker exceeds its bounded wait.
	ErrCheckerTimeout = errors.New("email validation service timed out")
)

// EmailVerdict is the outcome of an email syntax check.
// swagger:model EmailVerdict
type EmailVerdict struct {
	Email   string `json:"email"`
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

// EmailChecker validates the syntax of an email address.
type EmailChecker interface {
	Check(ctx context.Context, email string) (EmailVerdict, error)
}
