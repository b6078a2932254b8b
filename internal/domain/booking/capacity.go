package booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
)

// CheckCapacity decides whether a candidate stay fits the cabin. It sums the
// guest counts of the approved bookings whose date ranges overlap the
// candidate range and rejects when the cabin's capacity would be exceeded.
// A booking missing a guest count occupies one place. A zero-night stay
// still occupies its day.
//
// The caller passes the cabin's currently approved bookings; the booking
// being edited, if any, is excluded by ID so it does not count against
// itself. The function is a pure decision over the provided data; reading
// the approved set and committing the write must happen inside one
// transaction to keep the decision atomic.
func CheckCapacity(capacity int, candidate daterange.Range, numberOfGuests int, existing []*Booking, excludeID uuid.UUID) error {
	if numberOfGuests <= 0 {
		return domain.NewValidationError("number of guests must be positive")
	}

	occupied := 0
	overlapping := false
	for _, other := range existing {
		if other.ID() == excludeID {
			continue
		}
		if other.Status() != StatusApproved {
			continue
		}
		if !other.Dates().Overlaps(candidate) {
			continue
		}
		overlapping = true
		guests := other.NumberOfGuests()
		if guests <= 0 {
			guests = 1
		}
		occupied += guests
	}

	if !overlapping {
		if numberOfGuests > capacity {
			return domain.NewCapacityError(fmt.Sprintf(
				"Number of guests (%d) exceeds cabin capacity (%d)",
				numberOfGuests, capacity))
		}
		return nil
	}

	if occupied+numberOfGuests > capacity {
		return domain.NewCapacityError(fmt.Sprintf(
			"Cabin capacity exceeded. Available space: %d guests, requested: %d guests",
			capacity-occupied, numberOfGuests))
	}
	return nil
}
