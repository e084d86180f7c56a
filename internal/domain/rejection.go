package domain

import "fmt"

// RejectionKind classifies why a request was refused.
type RejectionKind int

const (
	// KindValidation is user-correctable: missing fields, mismatch, bad email, duplicates.
	KindValidation RejectionKind = iota
	// KindUnavailable means the email checker could not be reached.
	KindUnavailable
	// KindTimeout means the email checker did not answer within the bounded wait.
	KindTimeout
	// KindDependency is any other failure talking to the email checker.
	KindDependency
	// KindStore is an unexpected persistence failure.
	KindStore
)

func (k RejectionKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	case KindTimeout:
		return "timeout"
	case KindDependency:
		return "dependency"
	case KindStore:
		return "store"
	}
	return fmt.Sprintf("RejectionKind(%d)", int(k))
}

// RejectionError is returned when a request is refused. Field is empty when the
// reason is not tied to a single input field.
type RejectionError struct {
	Kind   RejectionKind
	Field  string
	Reason string
	Err    error
}

func (e *RejectionError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *RejectionError) Unwrap() error { return e.Err }

// Reject builds a validation rejection for field.
func Reject(field, reason string) *RejectionError {
	return &RejectionError{Kind: KindValidation, Field: field, Reason: reason}
}
