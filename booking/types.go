/*
Package booking provides the reservation lifecycle and financial engine.

PURPOSE:
  This package contains the rules governing a bungalow reservation from
  creation to check-out (or cancellation): whether a unit is free for a
  date range, how prices and refunds are computed, how the payment ledger
  stays consistent, and which status transitions are legal.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - Reservation: The mutable aggregate owned by the engine during a mutation
  - Unit: A rentable bungalow with a daily rate and capacity
  - Status / PaymentStatus: Closed enumerations (never display strings)

DESIGN PRINCIPLES:
  1. Purity: Every computation is a function of its inputs; time is injected
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Type Safety: Strong typing for IDs prevents mixing unit/customer IDs
  4. No partial mutation: Operations return a new entity or a typed error

USAGE:
  total := booking.ComputePrice(unit.DailyRate, 3)
  updated, pay, err := booking.RecordPayment(res, amount, booking.MethodCard, "", now)

SEE ALSO:
  - calendar.go:     Date and half-open DateRange
  - ledger.go:       Payment ledger rules
  - statemachine.go: Legal status transitions
  - postpone.go:     Moving a reservation to new dates
*/
package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount in whole currency units
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value int64) Money {
	return Money{Value: decimal.NewFromInt(value)}
}

func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Value: d}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{Value: decimal.Zero}
	}
	return Money{Value: d}
}

func ZeroMoney() Money { return Money{Value: decimal.Zero} }

func (m Money) Add(b Money) Money             { return Money{Value: m.Value.Add(b.Value)} }
func (m Money) Sub(b Money) Money             { return Money{Value: m.Value.Sub(b.Value)} }
func (m Money) Mul(s decimal.Decimal) Money   { return Money{Value: m.Value.Mul(s)} }
func (m Money) Neg() Money                    { return Money{Value: m.Value.Neg()} }
func (m Money) Round() Money                  { return Money{Value: m.Value.Round(0)} }
func (m Money) IsNegative() bool              { return m.Value.IsNegative() }
func (m Money) IsZero() bool                  { return m.Value.IsZero() }
func (m Money) IsPositive() bool              { return m.Value.IsPositive() }
func (m Money) Equal(b Money) bool            { return m.Value.Equal(b.Value) }
func (m Money) GreaterThan(b Money) bool      { return m.Value.GreaterThan(b.Value) }
func (m Money) LessThan(b Money) bool         { return m.Value.LessThan(b.Value) }
func (m Money) String() string                { return m.Value.String() }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ReservationID string
type UnitID string
type CustomerID string
type PaymentID string

// =============================================================================
// STATUS - Reservation lifecycle state (closed enumeration)
// =============================================================================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// IsTerminal reports whether no further transitions are accepted.
func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// =============================================================================
// PAYMENT STATUS - Derived from paid vs total, never set directly
// =============================================================================

// PaymentStatus classifies the ledger state. It is always recomputed from
// PaidAmount vs TotalPrice, with one exception: PaymentDepositForfeited is
// set by cancellation when money was retained under the zero-refund tier.
type PaymentStatus string

const (
	PaymentUnpaid           PaymentStatus = "unpaid"
	PaymentPartiallyPaid    PaymentStatus = "partially_paid"
	PaymentPaid             PaymentStatus = "paid"
	PaymentDepositForfeited PaymentStatus = "deposit_forfeited"
)

// =============================================================================
// PAYMENT METHOD
// =============================================================================

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// =============================================================================
// UNIT - A rentable bungalow
// =============================================================================

type Unit struct {
	ID        UnitID
	Name      string
	DailyRate Money
	Capacity  int
	CreatedAt time.Time
}

// =============================================================================
// RESERVATION - The mutable aggregate
// =============================================================================

// Reservation is a booking of one unit for a contiguous date range by one
// customer. Occupancy is the half-open interval [CheckIn, CheckOut): a
// checkout on day D does not conflict with a check-in on day D.
//
// Invariants maintained by every operation in this package:
//   1. RemainingAmount == TotalPrice - PaidAmount
//   2. 0 <= PaidAmount <= TotalPrice
//   3. PaymentStatus matches the paid/total relationship (see reclassify)
//   4. Nights == CheckOut - CheckIn in days, and Nights >= 1
//   5. Status only changes along the transition table in statemachine.go
type Reservation struct {
	ID         ReservationID
	Code       string // human-readable, unique, immutable after creation
	UnitID     UnitID
	CustomerID CustomerID

	CheckIn  Date
	CheckOut Date
	Nights   int // derived from dates, never set independently

	GuestCount int

	Status        Status
	PaymentStatus PaymentStatus

	// DailyRateSnapshot is the per-night rate used at computation time.
	// It is frozen per calculation, not live-linked to the unit's rate.
	DailyRateSnapshot Money

	TotalPrice      Money
	PaidAmount      Money
	RemainingAmount Money

	// Audit fields, required whenever the corresponding mutation is manual.
	PriceOverrideReason string
	StatusChangeReason  string
	CancellationReason  string

	// Version supports optimistic concurrency at the store boundary.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy. Operations mutate the copy and return it,
// leaving the caller's entity unchanged on failure.
func (r *Reservation) Clone() *Reservation {
	c := *r
	return &c
}

// IsBlocking reports whether this reservation occupies its date range for
// availability purposes. Cancelled reservations never block.
func (r *Reservation) IsBlocking() bool {
	return r.Status != StatusCancelled
}

// Range returns the occupied interval [CheckIn, CheckOut).
func (r *Reservation) Range() DateRange {
	return DateRange{Start: r.CheckIn, End: r.CheckOut}
}

// syncDates sets the date pair and rederives Nights.
func (r *Reservation) syncDates(checkIn, checkOut Date) {
	r.CheckIn = checkIn
	r.CheckOut = checkOut
	r.Nights = NightsBetween(checkIn, checkOut)
}

// =============================================================================
// PAYMENT - Immutable ledger entry for money received
// =============================================================================

type Payment struct {
	ID            PaymentID
	ReservationID ReservationID
	Amount        Money
	Method        PaymentMethod
	Notes         string
	PaidAt        time.Time
}

// =============================================================================
// STATUS CHANGE - Audit trail entry for lifecycle transitions
// =============================================================================

type StatusChange struct {
	ReservationID ReservationID
	From          Status
	To            Status
	Reason        string
	Actor         string // "system" for automated transitions
	ChangedAt     time.Time
}
