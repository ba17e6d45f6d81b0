/*
service.go - Operation facade over the engine

PURPOSE:
  One exported method per mutation a caller can perform on a reservation:
  create, approve, check-in, check-out, cancel, record payment, change
  price, plan and commit a postponement. Each method loads current state
  through the store interfaces, validates preconditions with the pure
  functions in this package, and persists the outcome (or returns a typed
  error with nothing written).

OPERATION FLOW:
  1. Fetch the entity (and, where needed, siblings and unit)
  2. Validate preconditions against current state
  3. Compute new field values on a clone
  4. Persist through the store (which re-validates at commit time)
  5. Return the updated entity or the store's error unchanged

ERROR DISCIPLINE:
  The service performs no retries. Retrying a financial mutation blindly
  risks double-application; retry policy belongs to the caller, driven by
  idempotency keys, outside this engine. Store failures are surfaced
  unchanged.

SEE ALSO:
  - store.go:        The interfaces this facade drives
  - statemachine.go: Transition rules applied here
  - postpone.go:     Planning logic for the move operations
*/
package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service wires the engine's pure rules to a reservation store, a unit
// store, and a clock. It holds no other state.
type Service struct {
	Reservations ReservationStore
	Units        UnitStore
	Clock        Clock
}

// NewService creates a service. A nil clock defaults to the system clock.
func NewService(reservations ReservationStore, units UnitStore, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{Reservations: reservations, Units: units, Clock: clock}
}

// =============================================================================
// CREATION - The booking flow
// =============================================================================

// CreateParams describes a new booking request.
type CreateParams struct {
	UnitID     UnitID
	CustomerID CustomerID
	CheckIn    Date
	CheckOut   Date
	GuestCount int

	// Deposit, if positive, is recorded as the first payment.
	Deposit       Money
	DepositMethod PaymentMethod

	// Manual overrides the computed price (reason required).
	Manual *ManualPrice
}

// Create prices and persists a new Pending reservation. The date range is
// checked against the unit's siblings here (advisory) and again inside the
// store's Create (authoritative).
func (s *Service) Create(ctx context.Context, p CreateParams) (*Reservation, error) {
	rng := DateRange{Start: p.CheckIn, End: p.CheckOut}
	if !rng.IsValid() {
		return nil, ErrInvalidDateRange
	}
	if p.Deposit.IsNegative() {
		return nil, ErrInvalidAmount
	}

	unit, err := s.Units.GetUnit(ctx, p.UnitID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.Reservations.ListByUnit(ctx, p.UnitID)
	if err != nil {
		return nil, err
	}
	if conflict := FirstConflict(p.UnitID, rng, siblings, ""); conflict != nil {
		return nil, &DateConflictError{UnitID: p.UnitID, Requested: rng, ConflictingID: conflict.ID}
	}

	total := ComputePrice(unit.DailyRate, rng.Nights())
	overrideReason := ""
	if p.Manual != nil {
		total, err = ApplyManualOverride(total, p.Manual.Price, p.Manual.Reason)
		if err != nil {
			return nil, err
		}
		overrideReason = p.Manual.Reason
	}
	if p.Deposit.GreaterThan(total) {
		return nil, &PaymentError{Requested: p.Deposit, Remaining: total}
	}

	now := s.Clock.Now()
	id := uuid.NewString()
	r := &Reservation{
		ID:                  ReservationID(id),
		Code:                newReservationCode(id),
		UnitID:              p.UnitID,
		CustomerID:          p.CustomerID,
		GuestCount:          p.GuestCount,
		Status:              StatusPending,
		PaymentStatus:       PaymentUnpaid,
		DailyRateSnapshot:   unit.DailyRate,
		TotalPrice:          total,
		PaidAmount:          ZeroMoney(),
		RemainingAmount:     total,
		PriceOverrideReason: overrideReason,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	r.syncDates(p.CheckIn, p.CheckOut)

	if err := s.Reservations.Create(ctx, r); err != nil {
		return nil, err
	}

	if p.Deposit.IsPositive() {
		method := p.DepositMethod
		if method == "" {
			method = MethodTransfer
		}
		return s.RecordPayment(ctx, r.ID, p.Deposit, method, "booking deposit")
	}
	return r, nil
}

// newReservationCode derives the human-readable code from the uuid.
func newReservationCode(id string) string {
	return "BNG-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:6])
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// Approve moves a Pending reservation to Confirmed.
func (s *Service) Approve(ctx context.Context, id ReservationID, actor string) (*Reservation, error) {
	return s.applyTrigger(ctx, id, TriggerApprove, "", actor)
}

// CheckIn moves a Confirmed reservation to CheckedIn.
func (s *Service) CheckIn(ctx context.Context, id ReservationID, actor string) (*Reservation, error) {
	return s.applyTrigger(ctx, id, TriggerCheckIn, "", actor)
}

// CheckOut moves a CheckedIn reservation to CheckedOut (terminal).
func (s *Service) CheckOut(ctx context.Context, id ReservationID, actor string) (*Reservation, error) {
	return s.applyTrigger(ctx, id, TriggerCheckOut, "", actor)
}

func (s *Service) applyTrigger(ctx context.Context, id ReservationID, trigger Trigger, reason, actor string) (*Reservation, error) {
	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := NextStatus(r.Status, trigger)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	updated := r.Clone()
	updated.Status = next
	updated.StatusChangeReason = reason
	updated.UpdatedAt = now

	history := &StatusChange{
		ReservationID: r.ID,
		From:          r.Status,
		To:            next,
		Reason:        reason,
		Actor:         actor,
		ChangedAt:     now,
	}
	if err := s.Reservations.Update(ctx, updated, history); err != nil {
		return nil, err
	}
	return updated, nil
}

// =============================================================================
// CANCELLATION
// =============================================================================

// Cancel cancels a non-terminal reservation. The refund owed to the
// customer is computed from the time remaining until check-in and returned
// as a settlement for external payout; it is never subtracted from the
// paid amount. A reason is mandatory.
func (s *Service) Cancel(ctx context.Context, id ReservationID, reason, actor string) (*Reservation, *CancellationSettlement, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, nil, ErrMissingReason
	}

	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	next, err := NextStatus(r.Status, TriggerCancel)
	if err != nil {
		return nil, nil, err
	}

	now := s.Clock.Now()
	updated, settlement := settleCancellation(r, now)
	updated.Status = next
	updated.CancellationReason = reason
	updated.StatusChangeReason = reason

	history := &StatusChange{
		ReservationID: r.ID,
		From:          r.Status,
		To:            next,
		Reason:        reason,
		Actor:         actor,
		ChangedAt:     now,
	}
	if err := s.Reservations.Update(ctx, updated, history); err != nil {
		return nil, nil, err
	}
	return updated, settlement, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// RecordPayment applies a payment and appends the ledger entry atomically.
// Collection may continue after checkout (arrears on the open balance), but
// never after cancellation: the post-cancellation payment status means no
// further money moves, and a payment would silently reclassify it.
func (s *Service) RecordPayment(ctx context.Context, id ReservationID, amount Money, method PaymentMethod, notes string) (*Reservation, error) {
	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusCancelled {
		return nil, &TransitionError{From: r.Status, Trigger: TriggerRecordPayment}
	}

	updated, entry, err := RecordPayment(r, amount, method, notes, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.Reservations.RecordPayment(ctx, updated, entry); err != nil {
		return nil, err
	}
	return updated, nil
}

// =============================================================================
// PRICE CHANGE
// =============================================================================

// ChangePrice replaces the total with a manual price. A reason is
// mandatory and the price must be positive. Paid amount is untouched;
// remaining and payment status are rebalanced.
func (s *Service) ChangePrice(ctx context.Context, id ReservationID, newPrice Money, reason string) (*Reservation, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrMissingReason
	}

	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.IsTerminal() {
		return nil, &TransitionError{From: r.Status, Trigger: TriggerReprice}
	}

	price, err := ApplyManualOverride(r.TotalPrice, newPrice, reason)
	if err != nil {
		return nil, err
	}

	updated := Reprice(r, price, s.Clock.Now())
	updated.PriceOverrideReason = reason

	if err := s.Reservations.Update(ctx, updated, nil); err != nil {
		return nil, err
	}
	return updated, nil
}

// =============================================================================
// POSTPONEMENT
// =============================================================================

// PlanPostponement computes the advisory plan for moving the reservation
// onto the selected days. Nothing is persisted.
func (s *Service) PlanPostponement(ctx context.Context, id ReservationID, selectedDays []Date, manual *ManualPrice) (*PostponementResult, error) {
	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.IsTerminal() {
		return nil, &TransitionError{From: r.Status, Trigger: TriggerPostpone}
	}

	unit, err := s.Units.GetUnit(ctx, r.UnitID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.Reservations.ListByUnit(ctx, r.UnitID)
	if err != nil {
		return nil, err
	}

	return PlanPostponement(r, selectedDays, siblings, unit, manual)
}

// CommitPostponement applies a previously planned move. The store's Update
// repeats the availability check under its own exclusion, so a plan that
// raced another booking fails here with ErrDateConflict and the
// reservation stays on its original dates.
func (s *Service) CommitPostponement(ctx context.Context, id ReservationID, plan *PostponementResult) (*Reservation, error) {
	if plan == nil || plan.ReservationID != id {
		return nil, ErrReservationNotFound
	}

	r, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status.IsTerminal() {
		return nil, &TransitionError{From: r.Status, Trigger: TriggerPostpone}
	}

	updated := Reprice(r, plan.TotalPrice, s.Clock.Now())
	updated.syncDates(plan.CheckIn, plan.CheckOut)
	updated.DailyRateSnapshot = plan.DailyRateSnapshot
	if plan.ManualOverride {
		updated.PriceOverrideReason = plan.OverrideReason
	}

	if err := s.Reservations.Update(ctx, updated, nil); err != nil {
		return nil, err
	}
	return updated, nil
}

// =============================================================================
// AVAILABILITY QUERIES
// =============================================================================

// DayAvailability is one calendar cell for rendering.
type DayAvailability struct {
	Day       Date
	Available bool
}

// MonthAvailability returns per-day availability for a unit's month. This
// backs the calendar affordance only; commits always go through the range
// predicate.
func (s *Service) MonthAvailability(ctx context.Context, unitID UnitID, year int, month int) ([]DayAvailability, error) {
	if _, err := s.Units.GetUnit(ctx, unitID); err != nil {
		return nil, err
	}
	siblings, err := s.Reservations.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}

	first := NewDate(year, time.Month(month), 1)
	var out []DayAvailability
	for d := first; d.Month() == first.Month(); d = d.AddDays(1) {
		out = append(out, DayAvailability{
			Day:       d,
			Available: IsDateAvailable(unitID, d, siblings, ""),
		})
	}
	return out, nil
}

// CheckRange reports whether [checkIn, checkOut) is free for the unit.
func (s *Service) CheckRange(ctx context.Context, unitID UnitID, checkIn, checkOut Date, exclude ReservationID) (bool, error) {
	rng := DateRange{Start: checkIn, End: checkOut}
	if !rng.IsValid() {
		return false, ErrInvalidDateRange
	}
	if _, err := s.Units.GetUnit(ctx, unitID); err != nil {
		return false, err
	}
	siblings, err := s.Reservations.ListByUnit(ctx, unitID)
	if err != nil {
		return false, err
	}
	return IsRangeAvailable(unitID, rng, siblings, exclude), nil
}
