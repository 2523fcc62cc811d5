package service

// errors.go — the domain error taxonomy shared by all workflow services.
// Handlers map these to HTTP codes with errors.Is / errors.As; nothing below
// carries transport concerns.

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound: the referenced registration or document does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidTransition: the requested status change is not legal from the
	// current state. Also covers the lost-race case of concurrent updates.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrImmutableState: the registration can no longer be edited by the applicant.
	ErrImmutableState = errors.New("registration is no longer editable")
	// ErrUnsupportedMediaType: upload mime type outside the accepted set.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	// ErrPayloadTooLarge: upload exceeds the configured size cap.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrDependency: a collaborator (file store, mailer) failed.
	ErrDependency = errors.New("dependency failure")
)

// ValidationError carries every offending field, not just the first, so the
// caller can render actionable messages in one round trip.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
