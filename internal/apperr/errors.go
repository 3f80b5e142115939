// Package apperr defines the error kinds every core operation fails with.
// Handlers translate a Kind into a transport status; services and
// repositories only decide which Kind a failure belongs to.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure independently of the transport.
type Kind int

const (
	Internal Kind = iota
	Unauthorized
	Forbidden
	NotFound
	ValidationFailed
	Conflict
	CreationFailed
	UpdateFailed
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case ValidationFailed:
		return "validation_failed"
	case Conflict:
		return "conflict"
	case CreationFailed:
		return "creation_failed"
	case UpdateFailed:
		return "update_failed"
	default:
		return "internal"
	}
}

// FieldError describes one field-level validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified failure with a human readable message. Err holds
// the underlying cause, if any, and is reachable through errors.Is/As.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap classifies err under kind. A nil err yields nil.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Validation builds a ValidationFailed error from field errors.
func Validation(msg string, fields []FieldError) *Error {
	return &Error{Kind: ValidationFailed, Message: msg, Fields: fields}
}

// KindOf reports the Kind of the first *Error in err's chain. Unclassified
// errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the caller-facing message of err. Internal causes are
// not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// FieldsOf returns the field-level details carried by err, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// FieldErrors accumulates validation problems.
type FieldErrors []FieldError

// Add records a problem for field.
func (fe *FieldErrors) Add(field, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg})
}

// Err returns nil when nothing was recorded, otherwise a ValidationFailed
// error carrying every recorded field.
func (fe FieldErrors) Err(msg string) error {
	if len(fe) == 0 {
		return nil
	}
	return Validation(msg, fe)
}

func (fe FieldErrors) String() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fe {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return strings.Join(parts, "; ")
}
