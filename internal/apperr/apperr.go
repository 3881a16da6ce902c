// Package apperr defines the user-facing error kinds shared by the room
// manager, the identity gate and the command-line shell
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindStore marks a failed remote store operation.
	KindStore Kind = iota
	// KindValidation marks bad user input caught before any remote call.
	KindValidation
	// KindNotFound marks an expected empty result.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	default:
		return "store"
	}
}

// Error is an application error with a kind and an optional cause.
type Error struct {
	Cause   error
	Message string
	Kind    Kind
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	if e.Message == "" {
		return e.Cause.Error()
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same kind and message. This
// lets sentinels built with Fmt or Wrap match the original template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.Kind == t.Kind && e.Message == t.Message
}

// Fmt returns a copy of the error with its message formatted using args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: fmt.Sprintf(e.Message, args...),
	}
}

// Wrap returns a copy of the error with cause attached.
func (e *Error) Wrap(cause error) *Error {
	return &Error{
		Kind:    e.Kind,
		Message: e.Message,
		Cause:   cause,
	}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Store creates a store error.
func Store(msg string) *Error {
	return &Error{Kind: KindStore, Message: msg}
}

// IsValidation reports whether err carries a validation error.
func IsValidation(err error) bool {
	return hasKind(err, KindValidation)
}

// IsStore reports whether err carries a store error.
func IsStore(err error) bool {
	return hasKind(err, KindStore)
}

func hasKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}

	return false
}
