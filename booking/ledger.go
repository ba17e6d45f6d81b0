/*
ledger.go - Payment ledger rules

PURPOSE:
  Enforces the relationship between total price, amount paid, and amount
  remaining, and classifies the payment status. Every successful payment
  also yields an immutable Payment entry for the audit trail; corrections
  are made by recording the money that actually moved, never by editing
  history.

THE TRIPLE:
  RemainingAmount == TotalPrice - PaidAmount   (always)
  0 <= PaidAmount <= TotalPrice                (always)

CLASSIFICATION:
  Paid          iff RemainingAmount == 0
  Unpaid        iff PaidAmount == 0
  PartiallyPaid otherwise
  DepositForfeited is the one forced state: set by cancellation when the
  refund tier retained money the customer had paid.

REFUNDS AND PAID AMOUNT:
  A refund does NOT reduce PaidAmount. The refund is money leaving the
  business, reported to the caller for external settlement; what the
  customer historically paid stays on record for audit purposes.

SEE ALSO:
  - refund.go:  Computes the refundable amount
  - service.go: Orchestrates cancellation settlement
*/
package booking

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// RECORD PAYMENT
// =============================================================================

// RecordPayment applies a payment to the reservation and returns the
// updated copy plus the ledger entry to persist alongside it. The input
// reservation is never mutated; on error both return values are nil.
//
// Preconditions: amount > 0 and amount <= RemainingAmount. Payment never
// changes the lifecycle Status.
func RecordPayment(r *Reservation, amount Money, method PaymentMethod, notes string, now time.Time) (*Reservation, *Payment, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	if amount.GreaterThan(r.RemainingAmount) {
		return nil, nil, &PaymentError{
			ReservationID: r.ID,
			Requested:     amount,
			Remaining:     r.RemainingAmount,
		}
	}

	updated := r.Clone()
	updated.PaidAmount = updated.PaidAmount.Add(amount)
	updated.RemainingAmount = updated.TotalPrice.Sub(updated.PaidAmount)
	updated.PaymentStatus = ClassifyPayment(updated.PaidAmount, updated.TotalPrice)
	updated.UpdatedAt = now

	entry := &Payment{
		ID:            PaymentID(uuid.NewString()),
		ReservationID: r.ID,
		Amount:        amount,
		Method:        method,
		Notes:         notes,
		PaidAt:        now,
	}

	return updated, entry, nil
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// ClassifyPayment derives the payment status from the paid/total pair.
// DepositForfeited is never produced here; only cancellation forces it.
func ClassifyPayment(paid, total Money) PaymentStatus {
	switch {
	case paid.IsZero():
		return PaymentUnpaid
	case paid.Equal(total):
		return PaymentPaid
	default:
		return PaymentPartiallyPaid
	}
}

// =============================================================================
// REPRICING
// =============================================================================

// Reprice sets a new total on the copy and rebalances the triple. Used by
// price changes and postponement commits. The remaining amount may go
// negative when the new total undercuts what was already paid; the caller
// is responsible for flagging that overpayment, the ledger records it
// as-is rather than inventing a refund.
func Reprice(r *Reservation, newTotal Money, now time.Time) *Reservation {
	updated := r.Clone()
	updated.TotalPrice = newTotal
	updated.RemainingAmount = newTotal.Sub(updated.PaidAmount)
	updated.PaymentStatus = ClassifyPayment(updated.PaidAmount, updated.TotalPrice)
	updated.UpdatedAt = now
	return updated
}

// =============================================================================
// CANCELLATION SETTLEMENT
// =============================================================================

// CancellationSettlement is what the cancellation flow reports back for
// external payout. Refund is returned to the customer; Forfeited is the
// share of the paid amount the business retains.
type CancellationSettlement struct {
	ReservationID ReservationID
	Refund        Money
	Forfeited     Money
	Tier          RefundTier
}

// settleCancellation computes the refund for the reservation as of now and
// applies the post-cancellation payment status to the copy: no further
// collection will occur, so the status reflects retained money
// (DepositForfeited) or a clean slate (Unpaid), independent of the
// historical paid amount.
func settleCancellation(r *Reservation, now time.Time) (*Reservation, *CancellationSettlement) {
	refund, tier := ComputeRefund(r.PaidAmount, r.CheckIn, now)

	// The paid/total/remaining triple is left intact for audit; only the
	// classification changes.
	updated := r.Clone()
	if refund.LessThan(r.PaidAmount) && r.PaidAmount.IsPositive() {
		updated.PaymentStatus = PaymentDepositForfeited
	} else {
		updated.PaymentStatus = PaymentUnpaid
	}
	updated.UpdatedAt = now

	return updated, &CancellationSettlement{
		ReservationID: r.ID,
		Refund:        refund,
		Forfeited:     r.PaidAmount.Sub(refund),
		Tier:          tier,
	}
}
