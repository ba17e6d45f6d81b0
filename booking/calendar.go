package booking

import (
	"sort"
	"time"
)

// =============================================================================
// DATE - Calendar day (the engine's only time granularity for occupancy)
// =============================================================================

// Date is a calendar day, normalized to midnight UTC. Reservations occupy
// whole nights, so day granularity is all the occupancy model ever needs;
// sub-day precision appears only in the refund policy, which takes a raw
// time.Time for "now".
type Date struct {
	t time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the whole days from d to other (negative if other
// is earlier).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// DATE RANGE - Half-open interval [Start, End)
// =============================================================================

// DateRange is the half-open occupancy interval [Start, End). The End day
// is the checkout day and is NOT occupied: a checkout on day D coexists
// with a check-in on day D.
type DateRange struct {
	Start Date
	End   Date
}

// IsValid reports whether the range covers at least one night.
func (r DateRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.End.After(r.Start)
}

// Nights returns the number of occupied nights in the range.
func (r DateRange) Nights() int {
	return DaysBetween(r.Start, r.End)
}

// Contains reports whether day is an occupied night of the range.
func (r DateRange) Contains(day Date) bool {
	return day.AfterOrEqual(r.Start) && day.Before(r.End)
}

// Overlaps reports whether two half-open intervals intersect.
// [a, b) and [c, d) intersect iff a < d && c < b.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Days returns the occupied nights as a slice of Dates (End excluded).
func (r DateRange) Days() []Date {
	var days []Date
	for cur := r.Start; cur.Before(r.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + ")"
}

// NightsBetween returns the night count for a check-in/check-out pair.
func NightsBetween(checkIn, checkOut Date) int {
	return DaysBetween(checkIn, checkOut)
}

// =============================================================================
// DAY SELECTION - Normalizing picker output into a range
// =============================================================================

// NormalizeDays sorts the selection and removes duplicates. Callers that
// offer a day-by-day picker submit the raw selection; the engine always
// works on the normalized form.
func NormalizeDays(days []Date) []Date {
	if len(days) == 0 {
		return nil
	}
	sorted := make([]Date, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := sorted[:1]
	for _, d := range sorted[1:] {
		if !d.Equal(out[len(out)-1]) {
			out = append(out, d)
		}
	}
	return out
}

// SpanOf converts a normalized selection into the occupancy range
// [min, max+1): the last selected day is an occupied night, so checkout is
// the day after. Selecting non-contiguous days still yields one contiguous
// range; availability must therefore be validated against the whole span,
// never day-by-day.
func SpanOf(normalized []Date) DateRange {
	if len(normalized) == 0 {
		return DateRange{}
	}
	return DateRange{
		Start: normalized[0],
		End:   normalized[len(normalized)-1].AddDays(1),
	}
}
