// Package stats aggregates yearly cabin usage per user.
package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain/booking"
	"github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	"github.com/hyttelaget/cabin-booking/internal/domain/profile"
)

// Row is one aggregated statistics line for a (cabin, user) pair.
type Row struct {
	CabinID      uuid.UUID `json:"cabin_id"`
	CabinName    string    `json:"cabin_name"`
	UserID       uuid.UUID `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	TotalNights  int       `json:"total_nights"`
	BookingCount int       `json:"booking_count"`
}

type groupKey struct {
	cabinID uuid.UUID
	userID  uuid.UUID
}

// Aggregate groups nights stayed and booking counts per (cabin, user) for
// every booking that touches the given year. A booking spanning a year
// boundary counts its full night total in each year it touches; nights are
// not prorated. Bookings referencing an unknown cabin or user are skipped.
// Rows are sorted by cabin name, then user name.
func Aggregate(year int, bookings []*booking.Booking, cabins map[uuid.UUID]*cabin.Cabin, profiles map[uuid.UUID]*profile.Profile) []Row {
	groups := make(map[groupKey]*Row)

	for _, b := range bookings {
		if !b.Dates().TouchesYear(year) {
			continue
		}

		c, ok := cabins[b.CabinID()]
		if !ok {
			continue
		}
		p, ok := profiles[b.UserID()]
		if !ok {
			continue
		}

		key := groupKey{cabinID: b.CabinID(), userID: b.UserID()}
		if row, exists := groups[key]; exists {
			row.TotalNights += b.Dates().Nights()
			row.BookingCount++
			continue
		}
		groups[key] = &Row{
			CabinID:      b.CabinID(),
			CabinName:    c.Name(),
			UserID:       b.UserID(),
			UserName:     p.FullName(),
			UserEmail:    p.Email(),
			TotalNights:  b.Dates().Nights(),
			BookingCount: 1,
		}
	}

	rows := make([]Row, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CabinName != rows[j].CabinName {
			return rows[i].CabinName < rows[j].CabinName
		}
		return rows[i].UserName < rows[j].UserName
	})
	return rows
}

// AvailableYears collects every year touched by any booking's start or end
// date, always including the current calendar year, sorted descending.
func AvailableYears(bookings []*booking.Booking, now time.Time) []int {
	years := map[int]struct{}{
		now.UTC().Year(): {},
	}
	for _, b := range bookings {
		years[b.Dates().Start.Year()] = struct{}{}
		years[b.Dates().End.Year()] = struct{}{}
	}

	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
