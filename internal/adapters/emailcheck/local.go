package emailcheck

import (
	"context"

	"bodhini/internal/domain"
	syntax "bodhini/internal/emailcheck"
)

type localChecker struct{}

// NewLocalChecker returns an EmailChecker that validates in-process. It never fails.
func NewLocalChecker() domain.EmailChecker {
	return localChecker{}
}

func (localChecker) Check(_ context.Context, email string) (domain.EmailVerdict, error) {
	return syntax.Validate(email), nil
}
