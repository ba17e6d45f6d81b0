/*
availability.go - Unit availability over calendar ranges

PURPOSE:
  Decides whether a unit is free for a date range, given the unit's sibling
  reservations. The range predicate is the authoritative contract: it is
  used both for the advisory plan-time check and for the commit-time
  re-check inside the stores, so behavior is identical at both points.

WHY RANGE, NOT PER-DAY:
  A day-by-day picker can mark every selected day "available" while the
  span between the first and last selection crosses an occupied day. Once
  the selection becomes a check-in/check-out pair, that occupied day is
  silently inside the interval. Per-day evaluation therefore never gates a
  commit; IsDateAvailable exists only for rendering affordances (coloring
  a calendar).

SEMANTICS:
  Half-open intervals [CheckIn, CheckOut): a checkout on day D does not
  conflict with a check-in on day D. Cancelled reservations never block.

SEE ALSO:
  - calendar.go: DateRange.Overlaps
  - postpone.go: Plan-time caller
  - store.go:    Commit-time re-check contract
*/
package booking

// =============================================================================
// RANGE AVAILABILITY - The authoritative predicate
// =============================================================================

// IsRangeAvailable reports whether [r.Start, r.End) is free on the unit.
// It returns false iff any sibling with the same unit, a non-cancelled
// status, and an id different from exclude overlaps the requested range.
// Pass the reservation's own id as exclude when re-checking a move so the
// reservation doesn't conflict with itself.
func IsRangeAvailable(unitID UnitID, r DateRange, siblings []*Reservation, exclude ReservationID) bool {
	return FirstConflict(unitID, r, siblings, exclude) == nil
}

// FirstConflict returns the first sibling blocking the range, or nil if the
// range is free. Callers use the conflicting reservation for error context.
func FirstConflict(unitID UnitID, r DateRange, siblings []*Reservation, exclude ReservationID) *Reservation {
	if !r.IsValid() {
		return nil
	}
	for _, other := range siblings {
		if other.UnitID != unitID {
			continue
		}
		if exclude != "" && other.ID == exclude {
			continue
		}
		if !other.IsBlocking() {
			continue
		}
		if other.Range().Overlaps(r) {
			return other
		}
	}
	return nil
}

// =============================================================================
// SINGLE-DAY SPECIALIZATION - Rendering affordance only
// =============================================================================

// IsDateAvailable reports whether the single night [day, day+1) is free.
// This exists for calendar coloring; it is never the sole gate before a
// commit (see the package note on range vs per-day evaluation).
func IsDateAvailable(unitID UnitID, day Date, siblings []*Reservation, exclude ReservationID) bool {
	return IsRangeAvailable(unitID, DateRange{Start: day, End: day.AddDays(1)}, siblings, exclude)
}
