/*
errors.go - Centralized error types for the booking engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Every operation fails gracefully: it returns one of these errors and
  leaves the entity unchanged. Nothing in this package panics across the
  package boundary.

ERROR CATEGORIES:
  1. Financial errors  - Payment and price-override violations
  2. Calendar errors   - Date conflicts and invalid selections
  3. Lifecycle errors  - Illegal status transitions, missing reasons
  4. Store errors      - Not-found and concurrency conflicts

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, booking.ErrDateConflict) {
        // surface 409 to the client
    }

  Structured variants carry context and unwrap to the sentinel:

    var conflict *booking.DateConflictError
    if errors.As(err, &conflict) {
        log.Printf("blocked by %s", conflict.ConflictingID)
    }

SEE ALSO:
  - ledger.go:       Returns the financial errors
  - statemachine.go: Returns TransitionError
  - postpone.go:     Returns DateConflictError, ErrEmptySelection
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
	// ErrInvalidAmount is returned when a payment amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrExceedsRemaining is returned when a payment exceeds the open balance.
	ErrExceedsRemaining = errors.New("amount exceeds remaining balance")

	// ErrInvalidOverride is returned when a manual price lacks a reason or
	// is not positive.
	ErrInvalidOverride = errors.New("invalid price override")

	// ErrDateConflict is returned when a requested range overlaps another
	// non-cancelled reservation on the same unit.
	ErrDateConflict = errors.New("date range not available")

	// ErrEmptySelection is returned when a postponement has no dates chosen.
	ErrEmptySelection = errors.New("no dates selected")

	// ErrNonContiguousSelection is returned when selected days have gaps:
	// the stay would occupy the whole span anyway, so the selection must
	// cover every night in it.
	ErrNonContiguousSelection = errors.New("selected days must be contiguous")

	// ErrInvalidDateRange is returned when checkout is not after check-in.
	ErrInvalidDateRange = errors.New("invalid date range: checkout must be after check-in")

	// ErrInvalidTransition is returned for an illegal status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrMissingReason is returned when a manual mutation (cancel, price
	// change) carries no explanation.
	ErrMissingReason = errors.New("reason required")

	// ErrReservationNotFound is returned when a referenced reservation
	// doesn't exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrUnitNotFound is returned when a referenced unit doesn't exist.
	ErrUnitNotFound = errors.New("unit not found")

	// ErrVersionConflict is returned when optimistic locking detects a
	// concurrent modification at commit time.
	ErrVersionConflict = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PaymentError provides details about a rejected payment.
type PaymentError struct {
	ReservationID ReservationID
	Requested     Money
	Remaining     Money
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %v exceeds remaining %v on reservation %s",
		e.Requested, e.Remaining, e.ReservationID)
}

func (e *PaymentError) Unwrap() error { return ErrExceedsRemaining }

// DateConflictError identifies the reservation blocking a requested range.
type DateConflictError struct {
	UnitID        UnitID
	Requested     DateRange
	ConflictingID ReservationID
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("unit %s unavailable for %s (blocked by reservation %s)",
		e.UnitID, e.Requested, e.ConflictingID)
}

func (e *DateConflictError) Unwrap() error { return ErrDateConflict }

// TransitionError records the rejected (state, trigger) pair.
type TransitionError struct {
	From    Status
	Trigger Trigger
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a %s reservation", e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// OverrideError explains why a manual price was rejected.
type OverrideError struct {
	Price  Money
	Reason string
}

func (e *OverrideError) Error() string {
	if e.Reason == "" {
		return "price override requires a reason"
	}
	return fmt.Sprintf("price override must be positive, got %v", e.Price)
}

func (e *OverrideError) Unwrap() error { return ErrInvalidOverride }

// StoreError wraps a persistence failure. The engine surfaces it unchanged
// and never retries: retrying a financial mutation blindly risks
// double-application.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrExceedsRemaining) ||
		errors.Is(err, ErrInvalidOverride) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrNonContiguousSelection) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrMissingReason)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrUnitNotFound)
}

// IsConflict returns true for errors that may succeed after the caller
// re-reads state (availability races, optimistic-lock failures).
func IsConflict(err error) bool {
	return errors.Is(err, ErrDateConflict) ||
		errors.Is(err, ErrVersionConflict)
}
