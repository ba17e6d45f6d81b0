/*
pricing.go - Price computation with VAT and manual override

PURPOSE:
  Computes a reservation's total from a daily rate and a night count, and
  validates explicit manual overrides.

FORMULA:
  base  = dailyRate * nights
  total = round(base * (1 + vatRate))

ROUNDING POLICY:
  Round to the nearest whole currency unit; no fractional subunits are
  retained anywhere in the system. The rounding happens exactly once, at
  the end of the computation, so repeated calls with identical inputs are
  idempotent.

EXAMPLE:
  ComputePrice(1000, 3) -> base 3000, vat 540, total 3540

SEE ALSO:
  - postpone.go: Reprices moved reservations through this file
  - refund.go:   Uses the same rounding policy for half refunds
*/
package booking

import "github.com/shopspring/decimal"

// DefaultVATRate is the fixed tax applied multiplicatively to the base
// price.
var DefaultVATRate = decimal.NewFromFloat(0.18)

// =============================================================================
// PRICE COMPUTATION
// =============================================================================

// ComputePrice returns the total price for nights at dailyRate under the
// default VAT rate, rounded to whole currency units.
func ComputePrice(dailyRate Money, nights int) Money {
	return ComputePriceWithVAT(dailyRate, nights, DefaultVATRate)
}

// ComputePriceWithVAT is ComputePrice with an explicit VAT rate.
func ComputePriceWithVAT(dailyRate Money, nights int, vatRate decimal.Decimal) Money {
	base := dailyRate.Mul(decimal.NewFromInt(int64(nights)))
	total := base.Mul(decimal.NewFromInt(1).Add(vatRate))
	return total.Round()
}

// =============================================================================
// MANUAL OVERRIDE
// =============================================================================

// ApplyManualOverride returns overridePrice in place of computedPrice.
// The override is accepted only when a reason is given and the price is
// positive; otherwise the computed price stands and an OverrideError is
// returned.
func ApplyManualOverride(computedPrice, overridePrice Money, reason string) (Money, error) {
	if reason == "" {
		return computedPrice, &OverrideError{Price: overridePrice}
	}
	if !overridePrice.IsPositive() {
		return computedPrice, &OverrideError{Price: overridePrice, Reason: reason}
	}
	return overridePrice, nil
}
