// Package daterange provides calendar-date range arithmetic for bookings.
// Ranges are inclusive on both ends and compared at day granularity, so
// time-of-day artifacts in the inputs never affect overlap decisions.
package daterange

import (
	"time"

	"github.com/hyttelaget/cabin-booking/internal/domain"
)

// Range is an inclusive calendar-date range. Start and End are normalized
// to midnight UTC; Start == End describes a same-day reservation.
type Range struct {
	Start time.Time
	End   time.Time
}

// Day truncates t to its calendar date (midnight UTC).
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// New builds a day-normalized Range. End must not be before Start;
// a same-day range is valid.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if r.End.Before(r.Start) {
		return Range{}, domain.NewValidationError("End date must be after start date")
	}
	return r, nil
}

// Overlaps reports whether two inclusive ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Nights returns the number of nights between check-in and check-out.
// The end date is the checkout day, so Friday to Sunday is 2 nights and
// a same-day range is 0 nights.
func (r Range) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// TouchesYear reports whether any part of the range falls in the given
// calendar year, including ranges that span the whole year.
func (r Range) TouchesYear(year int) bool {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	startIn := !r.Start.Before(yearStart) && !r.Start.After(yearEnd)
	endIn := !r.End.Before(yearStart) && !r.End.After(yearEnd)
	spans := r.Start.Before(yearStart) && r.End.After(yearEnd)

	return startIn || endIn || spans
}
