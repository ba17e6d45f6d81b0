/*
refund.go - Cancellation refund tiers

PURPOSE:
  Computes the refundable share of what the customer has paid, based on
  how many hours remain until check-in at cancellation time.

TIERS:
  hoursUntilCheckIn > 24      -> Full:  refund everything paid
  0 < hoursUntilCheckIn <= 24 -> Half:  refund round(paid * 0.5)
  hoursUntilCheckIn <= 0      -> None:  refund nothing

PURITY:
  ComputeRefund is a pure function of (paidAmount, checkInDate, now). It
  reads no clock and mutates no state, so tests inject "now" and pin the
  boundaries exactly (24h belongs to Half, 0h to None).

SEE ALSO:
  - ledger.go:  Applies the settlement to the payment status
  - service.go: Cancellation flow
*/
package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REFUND TIER
// =============================================================================

type RefundTier string

const (
	RefundFull RefundTier = "full"
	RefundHalf RefundTier = "half"
	RefundNone RefundTier = "none"
)

var halfRate = decimal.NewFromFloat(0.5)

// =============================================================================
// REFUND COMPUTATION
// =============================================================================

// ComputeRefund returns the amount to return to the customer and the tier
// that produced it. Check-in is taken at midnight UTC of the check-in date,
// consistent with the day-granularity occupancy model.
func ComputeRefund(paidAmount Money, checkIn Date, now time.Time) (Money, RefundTier) {
	hours := checkIn.Time().Sub(now).Hours()

	switch {
	case hours > 24:
		return paidAmount, RefundFull
	case hours > 0:
		return paidAmount.Mul(halfRate).Round(), RefundHalf
	default:
		return ZeroMoney(), RefundNone
	}
}
