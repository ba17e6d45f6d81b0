package booking_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// PRICE COMPUTATION
// =============================================================================

func TestComputePrice_BasePlusVAT(t *testing.T) {
	// 1000/night * 3 nights = 3000 base, 540 VAT, 3540 total
	total := booking.ComputePrice(booking.NewMoney(1000), 3)
	assert.Equal(t, "3540", total.String())
}

func TestComputePrice_RoundsToWholeUnits(t *testing.T) {
	// 999 * 3 = 2997 base, * 1.18 = 3536.46 -> 3536
	total := booking.ComputePrice(booking.NewMoney(999), 3)
	assert.Equal(t, "3536", total.String())
}

func TestComputePrice_SingleNight(t *testing.T) {
	total := booking.ComputePrice(booking.NewMoney(1000), 1)
	assert.Equal(t, "1180", total.String())
}

func TestComputePrice_Idempotent(t *testing.T) {
	// Rounding happens exactly once; repeated calls with identical inputs
	// always agree.
	a := booking.ComputePrice(booking.NewMoney(847), 5)
	b := booking.ComputePrice(booking.NewMoney(847), 5)
	assert.True(t, a.Equal(b))
}

func TestComputePriceWithVAT_ExplicitRate(t *testing.T) {
	total := booking.ComputePriceWithVAT(booking.NewMoney(1000), 3, decimal.NewFromFloat(0.10))
	assert.Equal(t, "3300", total.String())

	zeroVAT := booking.ComputePriceWithVAT(booking.NewMoney(1000), 3, decimal.Zero)
	assert.Equal(t, "3000", zeroVAT.String())
}

// =============================================================================
// MANUAL OVERRIDE
// =============================================================================

func TestApplyManualOverride_Accepted(t *testing.T) {
	price, err := booking.ApplyManualOverride(
		booking.NewMoney(3540), booking.NewMoney(3000), "returning customer discount")
	require.NoError(t, err)
	assert.Equal(t, "3000", price.String())
}

func TestApplyManualOverride_RequiresReason(t *testing.T) {
	// GIVEN: An override price with no reason
	// THEN: Rejected; the computed price stands
	price, err := booking.ApplyManualOverride(
		booking.NewMoney(3540), booking.NewMoney(3000), "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, booking.ErrInvalidOverride))
	assert.Equal(t, "3540", price.String(), "computed price stands on rejection")
}

func TestApplyManualOverride_RejectsNonPositive(t *testing.T) {
	_, err := booking.ApplyManualOverride(
		booking.NewMoney(3540), booking.ZeroMoney(), "comp stay")
	assert.True(t, errors.Is(err, booking.ErrInvalidOverride))

	_, err = booking.ApplyManualOverride(
		booking.NewMoney(3540), booking.NewMoney(-100), "comp stay")
	assert.True(t, errors.Is(err, booking.ErrInvalidOverride))

	var overrideErr *booking.OverrideError
	assert.ErrorAs(t, err, &overrideErr)
	assert.Equal(t, "comp stay", overrideErr.Reason)
}
