package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"houseshow-backend/models"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError collects per-field problems with caller input.
type ValidationError struct {
	fields map[string][]string
}

func NewValidationError(field, msg string) *ValidationError {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

func (e *ValidationError) Add(field, msg string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	e.fields[field] = append(e.fields[field], msg)
}

func (e *ValidationError) Fields() map[string][]string {
	return e.fields
}

func (e *ValidationError) empty() bool {
	return len(e.fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.fields[k], ", ")))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// AuthorizationError means the actor may not perform the operation on this booking.
type AuthorizationError struct {
	Operation Operation
	ActorID   string
	Role      models.Role
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s %q is not allowed to %s this booking", e.Role, e.ActorID, e.Operation)
}

// InvalidStateError means the booking's current state does not permit the operation.
type InvalidStateError struct {
	BookingID     string
	Operation     Operation
	Status        models.BookingStatus
	DoorFeeStatus models.DoorFeeStatus
}

func (e *InvalidStateError) Error() string {
	if e.DoorFeeStatus != models.DoorFeeStatusNone {
		return fmt.Sprintf("cannot %s booking %s in status %s (door fee %s)", e.Operation, e.BookingID, e.Status, e.DoorFeeStatus)
	}
	return fmt.Sprintf("cannot %s booking %s in status %s", e.Operation, e.BookingID, e.Status)
}

// ConcurrencyConflictError means another transition committed between the
// read and the write of this one.
type ConcurrencyConflictError struct {
	BookingID string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("booking %s was modified concurrently, reload and retry", e.BookingID)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsAuthorizationError(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsInvalidStateError(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsConcurrencyConflictError(err error) bool {
	var target *ConcurrencyConflictError
	return errors.As(err, &target)
}

func invalidState(b *models.Booking, op Operation) *InvalidStateError {
	return &InvalidStateError{
		BookingID:     b.ID,
		Operation:     op,
		Status:        b.Status,
		DoorFeeStatus: b.DoorFeeStatus,
	}
}

func unauthorized(actor Actor, op Operation) *AuthorizationError {
	return &AuthorizationError{Operation: op, ActorID: actor.UserID, Role: actor.Role}
}
