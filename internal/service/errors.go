package service

import (
	"errors"

	"github.com/sefazor/eventos-backend/pkg/utils"
)

// Kind classifies a service failure; the HTTP layer maps each kind to a status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindEventFull
	KindAlreadyJoined
	KindNotJoined
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindEventFull:
		return "event_full"
	case KindAlreadyJoined:
		return "already_joined"
	case KindNotJoined:
		return "not_joined"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []utils.FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind so errors.Is(err, ErrEventFull) works for any EventFull error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NewValidationError(fields []utils.FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid input data", Fields: fields}
}

var (
	ErrInvalidID          = newError(KindValidation, "Invalid ID")
	ErrEventNotFound      = newError(KindNotFound, "Event not found")
	ErrUserNotFound       = newError(KindNotFound, "User not found")
	ErrNotEventCreator    = newError(KindForbidden, "Only the event creator can modify this event")
	ErrEmailTaken         = newError(KindConflict, "A user with this email already exists")
	ErrInvalidCredentials = newError(KindUnauthorized, "Invalid credentials")
	ErrWrongPassword      = newError(KindUnauthorized, "Current password is incorrect")
	ErrMissingToken       = newError(KindUnauthorized, "Access token required")
	ErrInvalidToken       = newError(KindUnauthorized, "Invalid token")
	ErrExpiredToken       = newError(KindUnauthorized, "Token expired")
	ErrEventFull          = newError(KindEventFull, "The event has reached its maximum capacity")
	ErrAlreadyJoined      = newError(KindAlreadyJoined, "You have already confirmed attendance to this event")
	ErrNotJoined          = newError(KindNotJoined, "You have not confirmed attendance to this event")
)

// KindOf returns the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
