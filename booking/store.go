/*
store.go - Persistence interfaces consumed by the engine

PURPOSE:
  Defines the boundary between the engine and whatever holds the data.
  The engine itself is stateless; it reads siblings and units through
  these interfaces and hands back updated entities for the store to
  persist. Different implementations back this with SQLite or memory.

COMMIT-TIME CONTRACT (read-verify-write):
  The availability check performed during planning is advisory. Every
  implementation of Update and Create MUST repeat the authoritative check
  immediately before persisting, under its own mutual exclusion (lock or
  write transaction), using the same IsRangeAvailable predicate so the two
  checks cannot disagree. Update additionally compares the entity's
  Version and rejects with ErrVersionConflict on mismatch, incrementing it
  on success.

ATOMICITY:
  RecordPayment persists the updated reservation and the payment entry
  together: either both land or neither does. Update persists the
  reservation and its status-history entry the same way.

IMPLEMENTATIONS:
  - booking/store/memory.go: In-memory, for tests and demos
  - store/sqlite/sqlite.go:  Production SQLite

SEE ALSO:
  - service.go: The only caller of these interfaces inside the engine
*/
package booking

import "context"

// =============================================================================
// RESERVATION STORE
// =============================================================================

// ReservationStore persists reservations, their payments, and their status
// history.
type ReservationStore interface {
	// Get returns the reservation or ErrReservationNotFound.
	Get(ctx context.Context, id ReservationID) (*Reservation, error)

	// List returns all reservations, newest first.
	List(ctx context.Context) ([]*Reservation, error)

	// ListByUnit returns ALL reservations for a unit, cancelled included;
	// the engine filters. This is the sibling set for availability.
	ListByUnit(ctx context.Context, unitID UnitID) ([]*Reservation, error)

	// Create persists a new reservation after re-verifying its range is
	// free on the unit.
	Create(ctx context.Context, r *Reservation) error

	// Update persists a mutated reservation under the commit-time
	// contract (version check + range re-check), appending the optional
	// status-history entry atomically. On success r.Version is bumped.
	Update(ctx context.Context, r *Reservation, history *StatusChange) error

	// RecordPayment persists the updated reservation and the payment
	// entry atomically, under the same version check as Update.
	RecordPayment(ctx context.Context, r *Reservation, p *Payment) error

	// Payments returns the payment trail, oldest first.
	Payments(ctx context.Context, id ReservationID) ([]Payment, error)

	// StatusHistory returns the transition trail, oldest first.
	StatusHistory(ctx context.Context, id ReservationID) ([]StatusChange, error)
}

// =============================================================================
// UNIT STORE
// =============================================================================

// UnitStore persists the rentable units.
type UnitStore interface {
	// GetUnit returns the unit or ErrUnitNotFound.
	GetUnit(ctx context.Context, id UnitID) (*Unit, error)

	// ListUnits returns all units.
	ListUnits(ctx context.Context) ([]*Unit, error)

	// CreateUnit persists a new unit.
	CreateUnit(ctx context.Context, u *Unit) error
}
