package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error; the REST boundary maps kinds to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindNotFound
	KindUnauthenticated
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is a typed domain failure. Code doubles as the i18n message key suffix.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Field)
	}
	return e.Message
}

// Is matches by code so that field-specific errors still compare equal to
// their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Domain errors.
var (
	ErrParticipantNotFound = newError(KindNotFound, "participant_not_found", "participant not found")
	ErrEventNotFound       = newError(KindNotFound, "event_not_found", "event not found")
	ErrEntryNotFound       = newError(KindNotFound, "entry_not_found", "entry not found")
	ErrUserNotFound        = newError(KindNotFound, "user_not_found", "user not found")

	ErrEventInactive  = newError(KindValidation, "event_inactive", "event is not active")
	ErrDuplicateEntry = newError(KindDuplicate, "duplicate_entry", "participant already entered this event")
	ErrDuplicateKey   = newError(KindDuplicate, "duplicate_key", "value already exists")

	ErrParticipantHasEntries = newError(KindValidation, "participant_has_entries", "participant has recorded entries")
	ErrEventHasEntries       = newError(KindValidation, "event_has_entries", "event has recorded entries")
	ErrUserHasEntries        = newError(KindValidation, "user_has_entries", "user has scanned entries")

	ErrFieldRequired           = newError(KindValidation, "field_required", "field is required")
	ErrFieldInvalid            = newError(KindValidation, "field_invalid", "field is invalid")
	ErrPasswordTooShort        = newError(KindValidation, "password_too_short", "password must be at least 6 characters")
	ErrPasswordTooLong         = newError(KindValidation, "password_too_long", "password must be at most 72 bytes")
	ErrCurrentPasswordMismatch = newError(KindValidation, "current_password_mismatch", "current password is wrong")

	ErrInvalidCredentials    = newError(KindUnauthenticated, "invalid_credentials", "invalid username or password")
	ErrUnauthenticated       = newError(KindUnauthenticated, "unauthenticated", "authentication required")
	ErrTokenExpired          = newError(KindUnauthenticated, "token_expired", "token expired")
	ErrTokenMalformed        = newError(KindUnauthenticated, "token_malformed", "token malformed")
	ErrTokenSignatureInvalid = newError(KindUnauthenticated, "token_signature_invalid", "token signature invalid")
	ErrInactiveUser          = newError(KindUnauthenticated, "inactive_user", "user is not active")

	ErrForbidden = newError(KindForbidden, "forbidden", "insufficient role")
)

// DuplicateKey reports a uniqueness violation on field.
func DuplicateKey(field string) *Error {
	return &Error{Kind: KindDuplicate, Code: ErrDuplicateKey.Code, Field: field, Message: ErrDuplicateKey.Message}
}

// Required reports a missing mandatory field.
func Required(field string) *Error {
	return &Error{Kind: KindValidation, Code: ErrFieldRequired.Code, Field: field, Message: ErrFieldRequired.Message}
}

// Invalid reports a malformed field value.
func Invalid(field string) *Error {
	return &Error{Kind: KindValidation, Code: ErrFieldInvalid.Code, Field: field, Message: ErrFieldInvalid.Message}
}

// Code returns the domain error code carried by err, or "" when err is not a
// domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Field returns the offending field of a domain error, if any.
func Field(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Field
	}
	return ""
}

// KindOf classifies err. Errors that are not domain errors are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
