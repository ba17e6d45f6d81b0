package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/booking-engine/booking"
)

// =============================================================================
// TEST HELPERS (shared across the package tests)
// =============================================================================

func d(year int, month time.Month, day int) booking.Date {
	return booking.NewDate(year, month, day)
}

// =============================================================================
// DATE
// =============================================================================

func TestParseDate_RoundTrip(t *testing.T) {
	parsed, err := booking.ParseDate("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", parsed.String())
	assert.True(t, parsed.Equal(d(2026, time.March, 10)))
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := booking.ParseDate("10/03/2026")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 3, booking.DaysBetween(d(2026, time.March, 10), d(2026, time.March, 13)))
	assert.Equal(t, -3, booking.DaysBetween(d(2026, time.March, 13), d(2026, time.March, 10)))
	assert.Equal(t, 0, booking.DaysBetween(d(2026, time.March, 10), d(2026, time.March, 10)))
}

// =============================================================================
// DATE RANGE - Half-open semantics
// =============================================================================

func TestDateRange_Validity(t *testing.T) {
	// A range must cover at least one night.
	valid := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 11)}
	assert.True(t, valid.IsValid())
	assert.Equal(t, 1, valid.Nights())

	zeroNights := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 10)}
	assert.False(t, zeroNights.IsValid())

	backwards := booking.DateRange{Start: d(2026, time.March, 13), End: d(2026, time.March, 10)}
	assert.False(t, backwards.IsValid())
}

func TestDateRange_Contains_ExcludesCheckoutDay(t *testing.T) {
	// GIVEN: A stay [Mar 10, Mar 13)
	// THEN: Mar 10-12 are occupied nights, Mar 13 (checkout day) is not
	r := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 13)}

	assert.True(t, r.Contains(d(2026, time.March, 10)))
	assert.True(t, r.Contains(d(2026, time.March, 12)))
	assert.False(t, r.Contains(d(2026, time.March, 13)), "checkout day is not occupied")
	assert.False(t, r.Contains(d(2026, time.March, 9)))
}

func TestDateRange_Overlaps_BackToBack(t *testing.T) {
	// GIVEN: A checkout on Mar 13
	// WHEN: Another stay checks in on Mar 13
	// THEN: The ranges do not overlap (half-open intervals)
	first := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 13)}
	second := booking.DateRange{Start: d(2026, time.March, 13), End: d(2026, time.March, 15)}

	assert.False(t, first.Overlaps(second))
	assert.False(t, second.Overlaps(first))
}

func TestDateRange_Overlaps_SharedNight(t *testing.T) {
	// One shared night is enough to conflict.
	first := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 13)}
	second := booking.DateRange{Start: d(2026, time.March, 12), End: d(2026, time.March, 15)}

	assert.True(t, first.Overlaps(second))
	assert.True(t, second.Overlaps(first))
}

func TestDateRange_Days(t *testing.T) {
	r := booking.DateRange{Start: d(2026, time.March, 10), End: d(2026, time.March, 13)}
	days := r.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2026-03-10", days[0].String())
	assert.Equal(t, "2026-03-12", days[2].String())
}

// =============================================================================
// DAY SELECTION
// =============================================================================

func TestNormalizeDays_SortsAndDeduplicates(t *testing.T) {
	// GIVEN: A raw picker selection, out of order, with a duplicate
	raw := []booking.Date{
		d(2026, time.March, 12),
		d(2026, time.March, 10),
		d(2026, time.March, 12),
		d(2026, time.March, 11),
	}

	// WHEN: Normalizing
	normalized := booking.NormalizeDays(raw)

	// THEN: Sorted, unique
	require.Len(t, normalized, 3)
	assert.Equal(t, "2026-03-10", normalized[0].String())
	assert.Equal(t, "2026-03-11", normalized[1].String())
	assert.Equal(t, "2026-03-12", normalized[2].String())
}

func TestNormalizeDays_Empty(t *testing.T) {
	assert.Nil(t, booking.NormalizeDays(nil))
	assert.Nil(t, booking.NormalizeDays([]booking.Date{}))
}

func TestSpanOf_CheckoutIsDayAfterLastSelected(t *testing.T) {
	// GIVEN: Selected nights Mar 10-12
	// THEN: The span is [Mar 10, Mar 13): the last night is occupied,
	//       checkout is the day after
	normalized := booking.NormalizeDays([]booking.Date{
		d(2026, time.March, 10),
		d(2026, time.March, 11),
		d(2026, time.March, 12),
	})

	span := booking.SpanOf(normalized)
	assert.Equal(t, "2026-03-10", span.Start.String())
	assert.Equal(t, "2026-03-13", span.End.String())
	assert.Equal(t, 3, span.Nights())
}

func TestSpanOf_NonContiguousSelectionYieldsContiguousSpan(t *testing.T) {
	// Selecting Mar 10 and Mar 14 spans [Mar 10, Mar 15): the gap days are
	// inside the interval, which is why availability is checked on the span.
	normalized := booking.NormalizeDays([]booking.Date{
		d(2026, time.March, 10),
		d(2026, time.March, 14),
	})

	span := booking.SpanOf(normalized)
	assert.Equal(t, "2026-03-10", span.Start.String())
	assert.Equal(t, "2026-03-15", span.End.String())
	assert.True(t, span.Contains(d(2026, time.March, 12)), "gap day is inside the span")
}
