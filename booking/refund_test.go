package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// REFUND TIERS
// =============================================================================

// checkIn pins the check-in date; tier boundaries are measured against its
// midnight UTC instant.
var refundCheckIn = booking.NewDate(2026, time.March, 10)

func TestComputeRefund_FullTier(t *testing.T) {
	// GIVEN: Cancellation 25 hours before check-in
	now := refundCheckIn.Time().Add(-25 * time.Hour)

	// WHEN: Computing the refund on 1000 paid
	refund, tier := booking.ComputeRefund(booking.NewMoney(1000), refundCheckIn, now)

	// THEN: Everything paid comes back
	assert.Equal(t, booking.RefundFull, tier)
	assert.Equal(t, "1000", refund.String())
}

func TestComputeRefund_HalfTier(t *testing.T) {
	// 12 hours before check-in: half back
	now := refundCheckIn.Time().Add(-12 * time.Hour)

	refund, tier := booking.ComputeRefund(booking.NewMoney(1000), refundCheckIn, now)

	assert.Equal(t, booking.RefundHalf, tier)
	assert.Equal(t, "500", refund.String())
}

func TestComputeRefund_NoneTier(t *testing.T) {
	// One hour after check-in: nothing back
	now := refundCheckIn.Time().Add(1 * time.Hour)

	refund, tier := booking.ComputeRefund(booking.NewMoney(1000), refundCheckIn, now)

	assert.Equal(t, booking.RefundNone, tier)
	assert.True(t, refund.IsZero())
}

func TestComputeRefund_Exactly24Hours_IsHalf(t *testing.T) {
	// The boundary belongs to the lower tier: exactly 24h before check-in
	// is NOT "more than 24 hours", so the half tier applies.
	now := refundCheckIn.Time().Add(-24 * time.Hour)

	refund, tier := booking.ComputeRefund(booking.NewMoney(1000), refundCheckIn, now)

	assert.Equal(t, booking.RefundHalf, tier)
	assert.Equal(t, "500", refund.String())
}

func TestComputeRefund_ExactlyAtCheckIn_IsNone(t *testing.T) {
	// Zero hours remaining is not "more than zero": nothing back.
	refund, tier := booking.ComputeRefund(booking.NewMoney(1000), refundCheckIn, refundCheckIn.Time())

	assert.Equal(t, booking.RefundNone, tier)
	assert.True(t, refund.IsZero())
}

func TestComputeRefund_HalfRoundsToWholeUnits(t *testing.T) {
	// 1001 * 0.5 = 500.5 -> rounds half away from zero -> 501
	now := refundCheckIn.Time().Add(-12 * time.Hour)

	refund, tier := booking.ComputeRefund(booking.NewMoney(1001), refundCheckIn, now)

	assert.Equal(t, booking.RefundHalf, tier)
	assert.Equal(t, "501", refund.String())
}

func TestComputeRefund_NothingPaid(t *testing.T) {
	now := refundCheckIn.Time().Add(-48 * time.Hour)

	refund, tier := booking.ComputeRefund(booking.ZeroMoney(), refundCheckIn, now)

	assert.Equal(t, booking.RefundFull, tier)
	assert.True(t, refund.IsZero())
}
