/*
postpone.go - Moving a reservation to new dates

PURPOSE:
  Plans the move of an existing reservation to a new set of selected days:
  validates the selection (non-empty, contiguous), checks the whole
  resulting range for availability (excluding the reservation itself),
  reprices, and reports the financial difference. The plan NEVER mutates
  the input reservation; the caller commits by writing the result back
  through the store, which re-checks availability to guard against a race.

PLAN FLOW:

  selected days ──▶ normalize + contiguity ──▶ span [min, max+1) ──▶ availability
                                                            │
                              ┌─────────────────────────────┘
                              ▼
                      reprice (computed or manual override)
                              ▼
                      PostponementResult (advisory)
                              ▼
                  CommitPostponement (authoritative, via store)

CHECKOUT CONVENTION:
  The last selected day is an occupied night, so the new checkout is the
  day AFTER it. This keeps nights == checkOut - checkIn consistent with
  how original bookings are counted.

OVERPAYMENT:
  Moving to fewer nights can push the new remaining amount negative. The
  planner flags it (RequiresReconciliation) and leaves resolution to a
  downstream manual adjustment; it never invents a refund.

SEE ALSO:
  - availability.go: Range predicate (advisory and commit-time)
  - pricing.go:      Repricing and manual override rules
  - service.go:      CommitPostponement
*/
package booking

// =============================================================================
// MANUAL PRICE
// =============================================================================

// ManualPrice is an explicit override of the computed total for the new
// dates. It is validated by the same rules as any price override.
type ManualPrice struct {
	Price  Money
	Reason string
}

// =============================================================================
// POSTPONEMENT RESULT
// =============================================================================

// PostponementResult is the advisory outcome of planning a move. Nothing
// has been persisted when it is returned.
type PostponementResult struct {
	ReservationID ReservationID

	CheckIn  Date
	CheckOut Date
	Nights   int

	// DailyRateSnapshot is the unit rate the repricing used; the commit
	// freezes it on the reservation.
	DailyRateSnapshot Money

	TotalPrice      Money
	PriceDifference Money // new total minus old total (negative = cheaper)
	RemainingAmount Money // new total minus already paid (negative = overpaid)

	// RequiresReconciliation is set when RemainingAmount is negative: the
	// customer has paid more than the new total and the surplus must be
	// settled outside the engine.
	RequiresReconciliation bool

	// ManualOverride records that TotalPrice came from a manual price
	// rather than the pricing formula, with the stated reason.
	ManualOverride bool
	OverrideReason string
}

// =============================================================================
// PLANNING
// =============================================================================

// PlanPostponement computes the move of the reservation onto selectedDays.
// The unit supplies the current daily rate for repricing; siblings are all
// reservations for the unit (cancelled included, the engine filters).
func PlanPostponement(
	r *Reservation,
	selectedDays []Date,
	siblings []*Reservation,
	unit *Unit,
	manual *ManualPrice,
) (*PostponementResult, error) {
	days := NormalizeDays(selectedDays)
	if len(days) == 0 {
		return nil, ErrEmptySelection
	}

	span := SpanOf(days)
	// A gapped selection would occupy (and be billed for) only part of the
	// span while blocking all of it, so the nights count and the interval
	// would disagree. Every night in the span must be selected.
	if span.Nights() != len(days) {
		return nil, ErrNonContiguousSelection
	}

	if conflict := FirstConflict(r.UnitID, span, siblings, r.ID); conflict != nil {
		return nil, &DateConflictError{
			UnitID:        r.UnitID,
			Requested:     span,
			ConflictingID: conflict.ID,
		}
	}

	newNights := len(days)
	computed := ComputePrice(unit.DailyRate, newNights)

	newTotal := computed
	overridden := false
	overrideReason := ""
	if manual != nil {
		price, err := ApplyManualOverride(computed, manual.Price, manual.Reason)
		if err != nil {
			return nil, err
		}
		newTotal = price
		overridden = true
		overrideReason = manual.Reason
	}

	newRemaining := newTotal.Sub(r.PaidAmount)

	return &PostponementResult{
		ReservationID:          r.ID,
		CheckIn:                span.Start,
		CheckOut:               span.End,
		Nights:                 newNights,
		DailyRateSnapshot:      unit.DailyRate,
		TotalPrice:             newTotal,
		PriceDifference:        newTotal.Sub(r.TotalPrice),
		RemainingAmount:        newRemaining,
		RequiresReconciliation: newRemaining.IsNegative(),
		ManualOverride:         overridden,
		OverrideReason:         overrideReason,
	}, nil
}
