// Package apierr classifies errors for the HTTP boundary. Every error that
// crosses it is coerced into a single shape carrying a message and an HTTP
// status, regardless of where it originated.
package apierr

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Error is a classified error: message plus the HTTP status mirroring its
// classification.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation marks malformed or missing input (400).
func Validation(message string) *Error { return New(400, message) }

// Unauthorized marks a missing or invalid session (401).
func Unauthorized(message string) *Error { return New(401, message) }

// NotFound marks an absent referenced record (404).
func NotFound(message string) *Error { return New(404, message) }

// Conflict marks a duplicate unique field (409).
func Conflict(message string) *Error { return New(409, message) }

// Internal marks anything not explicitly classified (500).
func Internal(message string) *Error { return New(500, message) }

// From coerces any error into an *Error. Already-classified errors pass
// through; known persistence failures map to their status; everything else
// becomes a generic 500 so internals never leak to clients.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("record not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || IsUniqueConstraint(err) {
		return Conflict("duplicate record")
	}
	return Internal("internal server error")
}

// IsUniqueConstraint reports whether err looks like a unique-constraint
// violation from the database driver.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}
