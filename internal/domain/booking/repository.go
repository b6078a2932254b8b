package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
)

// Repository defines the persistence contract for booking aggregates.
type Repository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByUserID retrieves all bookings belonging to a user, newest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// FindApprovedByCabin retrieves all approved bookings for a cabin.
	FindApprovedByCabin(ctx context.Context, cabinID uuid.UUID) ([]*Booking, error)

	// FindApprovedOverlapping retrieves the approved bookings for a cabin
	// whose date ranges overlap the given range.
	FindApprovedOverlapping(ctx context.Context, cabinID uuid.UUID, dates daterange.Range) ([]*Booking, error)

	// List retrieves all bookings, newest first (admin and statistics).
	List(ctx context.Context) ([]*Booking, error)

	// ListPage retrieves a page of all bookings with the total count (admin).
	ListPage(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// Delete removes a booking entirely; there is no soft delete.
	Delete(ctx context.Context, id uuid.UUID) error

	// LockCabin serializes capacity checks for one cabin within the current
	// transaction. Must be called before FindApprovedOverlapping when the
	// result guards a write, so concurrent checks for the same cabin run one
	// at a time.
	LockCabin(ctx context.Context, cabinID uuid.UUID) error

	// InTx runs fn against a transactional view of the repository. The
	// capacity check and the write it guards must share one transaction so
	// two concurrent approvals cannot both pass the check.
	InTx(ctx context.Context, fn func(Repository) error) error
}
