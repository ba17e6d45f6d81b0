package booking_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func pricedReservation(total int64) *booking.Reservation {
	r := &booking.Reservation{
		ID:              "r-1",
		UnitID:          "bng-1",
		Status:          booking.StatusPending,
		PaymentStatus:   booking.PaymentUnpaid,
		TotalPrice:      booking.NewMoney(total),
		PaidAmount:      booking.ZeroMoney(),
		RemainingAmount: booking.NewMoney(total),
	}
	return r
}

var ledgerNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

// assertTriple checks the ledger invariant: remaining == total - paid.
func assertTriple(t *testing.T, r *booking.Reservation) {
	t.Helper()
	assert.True(t, r.RemainingAmount.Equal(r.TotalPrice.Sub(r.PaidAmount)),
		"remaining (%s) must equal total (%s) minus paid (%s)",
		r.RemainingAmount, r.TotalPrice, r.PaidAmount)
	assert.False(t, r.PaidAmount.IsNegative())
}

// =============================================================================
// RECORD PAYMENT
// =============================================================================

func TestRecordPayment_PartialThenFull(t *testing.T) {
	// GIVEN: A reservation totalling 3540, nothing paid
	r := pricedReservation(3540)

	// WHEN: Paying 1000
	updated, entry, err := booking.RecordPayment(r, booking.NewMoney(1000), booking.MethodCard, "deposit", ledgerNow)
	require.NoError(t, err)

	// THEN: The triple rebalances and the ledger entry matches
	assert.Equal(t, "1000", updated.PaidAmount.String())
	assert.Equal(t, "2540", updated.RemainingAmount.String())
	assert.Equal(t, booking.PaymentPartiallyPaid, updated.PaymentStatus)
	assertTriple(t, updated)

	require.NotNil(t, entry)
	assert.Equal(t, r.ID, entry.ReservationID)
	assert.Equal(t, "1000", entry.Amount.String())
	assert.Equal(t, booking.MethodCard, entry.Method)
	assert.NotEmpty(t, entry.ID)

	// WHEN: Paying the rest
	settled, _, err := booking.RecordPayment(updated, booking.NewMoney(2540), booking.MethodTransfer, "", ledgerNow)
	require.NoError(t, err)

	// THEN: Fully paid
	assert.Equal(t, booking.PaymentPaid, settled.PaymentStatus)
	assert.True(t, settled.RemainingAmount.IsZero())
	assertTriple(t, settled)
}

func TestRecordPayment_ExceedsRemaining_Rejected(t *testing.T) {
	// GIVEN: 500 remaining on the balance
	r := pricedReservation(3540)
	r.PaidAmount = booking.NewMoney(3040)
	r.RemainingAmount = booking.NewMoney(500)
	r.PaymentStatus = booking.PaymentPartiallyPaid

	// WHEN: Trying to pay 600
	updated, entry, err := booking.RecordPayment(r, booking.NewMoney(600), booking.MethodCash, "", ledgerNow)

	// THEN: Rejected with context, nothing returned, input untouched
	require.Error(t, err)
	assert.True(t, errors.Is(err, booking.ErrExceedsRemaining))

	var payErr *booking.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, "600", payErr.Requested.String())
	assert.Equal(t, "500", payErr.Remaining.String())

	assert.Nil(t, updated)
	assert.Nil(t, entry)
	assert.Equal(t, "3040", r.PaidAmount.String(), "input reservation unchanged")
}

func TestRecordPayment_NonPositiveAmount_Rejected(t *testing.T) {
	r := pricedReservation(3540)

	_, _, err := booking.RecordPayment(r, booking.ZeroMoney(), booking.MethodCash, "", ledgerNow)
	assert.True(t, errors.Is(err, booking.ErrInvalidAmount))

	_, _, err = booking.RecordPayment(r, booking.NewMoney(-50), booking.MethodCash, "", ledgerNow)
	assert.True(t, errors.Is(err, booking.ErrInvalidAmount))
}

func TestRecordPayment_DoesNotMutateInput(t *testing.T) {
	r := pricedReservation(3540)

	_, _, err := booking.RecordPayment(r, booking.NewMoney(1000), booking.MethodCard, "", ledgerNow)
	require.NoError(t, err)

	assert.True(t, r.PaidAmount.IsZero(), "input reservation unchanged on success too")
	assert.Equal(t, booking.PaymentUnpaid, r.PaymentStatus)
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

func TestClassifyPayment(t *testing.T) {
	assert.Equal(t, booking.PaymentUnpaid,
		booking.ClassifyPayment(booking.ZeroMoney(), booking.NewMoney(3540)))
	assert.Equal(t, booking.PaymentPartiallyPaid,
		booking.ClassifyPayment(booking.NewMoney(1000), booking.NewMoney(3540)))
	assert.Equal(t, booking.PaymentPaid,
		booking.ClassifyPayment(booking.NewMoney(3540), booking.NewMoney(3540)))
}

// =============================================================================
// REPRICING
// =============================================================================

func TestReprice_RebalancesTriple(t *testing.T) {
	// GIVEN: 1000 paid on a 3540 total
	r := pricedReservation(3540)
	r.PaidAmount = booking.NewMoney(1000)
	r.RemainingAmount = booking.NewMoney(2540)
	r.PaymentStatus = booking.PaymentPartiallyPaid

	// WHEN: Repricing to 5900
	updated := booking.Reprice(r, booking.NewMoney(5900), ledgerNow)

	// THEN: Paid is untouched, remaining and status rebalance
	assert.Equal(t, "5900", updated.TotalPrice.String())
	assert.Equal(t, "1000", updated.PaidAmount.String())
	assert.Equal(t, "4900", updated.RemainingAmount.String())
	assert.Equal(t, booking.PaymentPartiallyPaid, updated.PaymentStatus)
	assertTriple(t, updated)
}

func TestReprice_CanGoNegative(t *testing.T) {
	// GIVEN: Fully paid at 3540
	r := pricedReservation(3540)
	r.PaidAmount = booking.NewMoney(3540)
	r.RemainingAmount = booking.ZeroMoney()
	r.PaymentStatus = booking.PaymentPaid

	// WHEN: Repricing down to 2000
	updated := booking.Reprice(r, booking.NewMoney(2000), ledgerNow)

	// THEN: Remaining goes negative; the ledger records the overpayment
	// as-is and leaves resolution to the caller
	assert.Equal(t, "-1540", updated.RemainingAmount.String())
	assertTriple(t, updated)
}
