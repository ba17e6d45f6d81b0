// Package store provides an in-memory implementation of the booking store
// interfaces, used by tests, demos, and the dev server.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements booking.ReservationStore and booking.UnitStore. All
// commit-time checks (version compare, range re-check) run under the same
// mutex, which is the per-unit mutual exclusion the engine's concurrency
// model requires of a store.
type Memory struct {
	mu           sync.RWMutex
	units        map[booking.UnitID]*booking.Unit
	reservations map[booking.ReservationID]*booking.Reservation
	payments     map[booking.ReservationID][]booking.Payment
	history      map[booking.ReservationID][]booking.StatusChange
}

var _ booking.ReservationStore = (*Memory)(nil)
var _ booking.UnitStore = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{}
	m.reset()
	return m
}

func (m *Memory) reset() {
	m.units = make(map[booking.UnitID]*booking.Unit)
	m.reservations = make(map[booking.ReservationID]*booking.Reservation)
	m.payments = make(map[booking.ReservationID][]booking.Payment)
	m.history = make(map[booking.ReservationID][]booking.StatusChange)
}

// Reset clears all data. Demo scenarios use this; never call it outside
// dev/test environments.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	return nil
}

// =============================================================================
// UNITS
// =============================================================================

func (m *Memory) GetUnit(_ context.Context, id booking.UnitID) (*booking.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[id]
	if !ok {
		return nil, booking.ErrUnitNotFound
	}
	c := *u
	return &c, nil
}

func (m *Memory) ListUnits(_ context.Context) ([]*booking.Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*booking.Unit, 0, len(m.units))
	for _, u := range m.units {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateUnit(_ context.Context, u *booking.Unit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.units[u.ID] = &c
	return nil
}

// =============================================================================
// RESERVATIONS
// =============================================================================

func (m *Memory) Get(_ context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, booking.ErrReservationNotFound
	}
	return r.Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]*booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*booking.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) ListByUnit(_ context.Context, unitID booking.UnitID) ([]*booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.siblingsLocked(unitID), nil
}

func (m *Memory) siblingsLocked(unitID booking.UnitID) []*booking.Reservation {
	var out []*booking.Reservation
	for _, r := range m.reservations {
		if r.UnitID == unitID {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (m *Memory) Create(_ context.Context, r *booking.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Authoritative range check under the lock.
	siblings := m.siblingsLocked(r.UnitID)
	if conflict := booking.FirstConflict(r.UnitID, r.Range(), siblings, r.ID); conflict != nil {
		return &booking.DateConflictError{
			UnitID:        r.UnitID,
			Requested:     r.Range(),
			ConflictingID: conflict.ID,
		}
	}

	m.reservations[r.ID] = r.Clone()
	return nil
}

func (m *Memory) Update(_ context.Context, r *booking.Reservation, history *booking.StatusChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitLocked(r); err != nil {
		return err
	}
	if history != nil {
		m.history[r.ID] = append(m.history[r.ID], *history)
	}
	return nil
}

func (m *Memory) RecordPayment(_ context.Context, r *booking.Reservation, p *booking.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.commitLocked(r); err != nil {
		return err
	}
	m.payments[r.ID] = append(m.payments[r.ID], *p)
	return nil
}

// commitLocked is the read-verify-write step shared by Update and
// RecordPayment: version compare, range re-check, then write with the
// version bumped on both the stored copy and the caller's entity.
func (m *Memory) commitLocked(r *booking.Reservation) error {
	current, ok := m.reservations[r.ID]
	if !ok {
		return booking.ErrReservationNotFound
	}
	if current.Version != r.Version {
		return booking.ErrVersionConflict
	}

	if r.IsBlocking() {
		siblings := m.siblingsLocked(r.UnitID)
		if conflict := booking.FirstConflict(r.UnitID, r.Range(), siblings, r.ID); conflict != nil {
			return &booking.DateConflictError{
				UnitID:        r.UnitID,
				Requested:     r.Range(),
				ConflictingID: conflict.ID,
			}
		}
	}

	r.Version++
	m.reservations[r.ID] = r.Clone()
	return nil
}

// =============================================================================
// AUDIT TRAILS
// =============================================================================

func (m *Memory) Payments(_ context.Context, id booking.ReservationID) ([]booking.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]booking.Payment, len(m.payments[id]))
	copy(out, m.payments[id])
	return out, nil
}

func (m *Memory) StatusHistory(_ context.Context, id booking.ReservationID) ([]booking.StatusChange, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]booking.StatusChange, len(m.history[id]))
	copy(out, m.history[id])
	return out, nil
}
