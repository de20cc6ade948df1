// Package errs contains the error kinds shared by the alert engine, the
// storage layer, the HTTP surface and the client repository.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTransportMessage is used when a failed request carries no server message.
const DefaultTransportMessage = "Request failed"

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoAlertDate indicates a lifecycle operation on an appliance without an alert date.
	ErrNoAlertDate = errors.New("appliance has no alert date")

	// ErrSnoozeNotInFuture indicates a snooze target on or before today.
	ErrSnoozeNotInFuture = errors.New("snooze date must be after today")

	// ErrInvalidSnoozeDays indicates a snooze of less than one day.
	ErrInvalidSnoozeDays = errors.New("snooze days must be at least 1")

	// ErrAlertCancelled indicates a snooze attempted on a cancelled alert.
	ErrAlertCancelled = errors.New("alert is cancelled; reactivate it first")

	// ErrInvalidSchedule indicates a CUSTOM recurrence without a positive day interval.
	ErrInvalidSchedule = errors.New("custom recurrence requires recurringIntervalDays of at least 1")
)

// ValidationError carries the field-level messages produced by Validate.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns nil when msgs is empty.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages, " ")
}

// TransitionError reports a rejected alert lifecycle operation.
type TransitionError struct {
	Op  string
	Err error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// TransportError is any failure at the repository boundary. Message prefers the
// server's own error text.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return DefaultTransportMessage
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransition reports whether err is (or wraps) a TransitionError.
func IsTransition(err error) bool {
	var t *TransitionError
	return errors.As(err, &t)
}
