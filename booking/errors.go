/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All rejection outcomes in one place for consistency and discoverability.
  Every error here is an expected, recoverable, user-facing outcome - none
  are process-fatal, and a rejected admission leaves the ledger unchanged.

ERROR CATEGORIES:
  1. Admission rejections - business rule violations (quota, capacity, dupes)
  2. Lookup failures - missing users or reservations
  3. Ledger errors - id collisions on insert

USAGE:
  The API layer maps these with errors.Is:

    if errors.Is(err, booking.ErrCapacityExceeded) {
        // 409
    }

SEE ALSO:
  - engine.go: Produces these errors in a fixed validation order
  - store.go: Ledger contract that signals ErrDuplicateID / ErrNotFound
*/
package booking

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUserNotFound is returned when the referenced user does not exist in
	// the directory. Checked before any booking validation.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyBooked is returned when the user already holds a reservation
	// for the requested date.
	ErrAlreadyBooked = errors.New("already booked this day")

	// ErrQuotaExceeded is returned when an admission would exceed the rolling
	// weekly booking limit.
	ErrQuotaExceeded = errors.New("weekly booking quota exceeded")

	// ErrCapacityExceeded is returned when the requested date is already at
	// desk capacity.
	ErrCapacityExceeded = errors.New("desk capacity exceeded")

	// ErrNotFound is returned when a cancellation or lookup target does not
	// exist.
	ErrNotFound = errors.New("reservation not found")

	// ErrDuplicateID is returned by the ledger on an id collision at insert.
	// The engine retries id generation rather than surfacing this.
	ErrDuplicateID = errors.New("duplicate reservation id")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AlreadyBookedError reports a duplicate (user, date) admission attempt.
type AlreadyBookedError struct {
	UserID UserID
	Date   Date
}

func (e *AlreadyBookedError) Error() string {
	return fmt.Sprintf("user %s already has a booking for %s", e.UserID, e.Date)
}

func (e *AlreadyBookedError) Unwrap() error { return ErrAlreadyBooked }

// QuotaExceededError reports a weekly quota violation.
type QuotaExceededError struct {
	UserID UserID
	Count  int // bookings already inside the window
	Limit  int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("user %s has %d bookings this week (limit %d)", e.UserID, e.Count, e.Limit)
}

func (e *QuotaExceededError) Unwrap() error { return ErrQuotaExceeded }

// CapacityExceededError reports a full date.
type CapacityExceededError struct {
	Date  Date
	Count int
	Limit int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("date %s has %d of %d desks booked", e.Date, e.Count, e.Limit)
}

func (e *CapacityExceededError) Unwrap() error { return ErrCapacityExceeded }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is a rejection of the caller's
// request rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAlreadyBooked) ||
		errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrCapacityExceeded)
}

// IsNotFound returns true if the error indicates a missing user or
// reservation.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotFound)
}
