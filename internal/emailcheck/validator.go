// Package emailcheck implements the email syntax check and the HTTP service that exposes it.
package emailcheck

import (
	"regexp"
	"strings"

	"bodhini/internal/domain"
)

const (
	msgValid   = "Email is valid"
	msgInvalid = "Email is not valid"
)

// local-part @ domain-labels . TLD of 2 to 6 letters. Syntax only, no DNS lookup.
var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// Validate trims raw and matches it against the email pattern.
func Validate(raw string) domain.EmailVerdict {
	email := strings.TrimSpace(raw)
	if emailRegexp.MatchString(email) {
		return domain.EmailVerdict{Email: email, IsValid: true, Message: msgValid}
	}
	return domain.EmailVerdict{Email: email, IsValid: false, Message: msgInvalid}
}
