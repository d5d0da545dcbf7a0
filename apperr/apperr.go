// Package apperr classifies failures so handlers can map them to HTTP
// statuses in one place. Storage errors are re-classified at the store
// boundary (mongo.ErrNoDocuments becomes NotFound, anything else
// StorageFailure) so callers can render 404 vs 500 without inspecting
// driver errors.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	BadRequest Kind = iota
	Unauthorized
	Forbidden
	NotFound
	Conflict
	StorageFailure
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case StorageFailure:
		return "storage_failure"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error without an underlying cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Message returns the human-readable message, or the bare error text for
// unclassified errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}

// Status maps a classified error to its HTTP status. Unclassified errors
// are treated as internal failures.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case BadRequest:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case StorageFailure:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
