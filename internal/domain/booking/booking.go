package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
)

// Booking is the aggregate root for a cabin reservation. It carries both
// the approval status and the payment state; every mutation is all-or-
// nothing, there is no partial-success path.
type Booking struct {
	id             uuid.UUID
	cabinID        uuid.UUID
	userID         uuid.UUID
	dates          daterange.Range
	numberOfGuests int
	status         Status
	paymentStatus  PaymentStatus
	paymentAmount  *float64
	vippsTxnID     string
	paidAt         *time.Time
	notes          string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a booking in pending/unpaid state. The start date must
// not lie in the past relative to now; a same-day range is allowed.
func NewBooking(cabinID, userID uuid.UUID, dates daterange.Range, numberOfGuests int, notes string, now time.Time) (*Booking, error) {
	if cabinID == uuid.Nil {
		return nil, domain.NewValidationError("cabin ID is required")
	}
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if numberOfGuests <= 0 {
		return nil, domain.NewValidationError("number of guests must be positive")
	}
	if dates.Start.Before(daterange.Day(now)) {
		return nil, domain.NewValidationError("Start date cannot be in the past")
	}

	nowUTC := now.UTC()
	return &Booking{
		id:             uuid.New(),
		cabinID:        cabinID,
		userID:         userID,
		dates:          dates,
		numberOfGuests: numberOfGuests,
		status:         StatusPending,
		paymentStatus:  PaymentUnpaid,
		notes:          notes,
		version:        1,
		createdAt:      nowUTC,
		updatedAt:      nowUTC,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, cabinID, userID uuid.UUID,
	dates daterange.Range,
	numberOfGuests int,
	status Status,
	paymentStatus PaymentStatus,
	paymentAmount *float64,
	vippsTxnID string,
	paidAt *time.Time,
	notes string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		cabinID:        cabinID,
		userID:         userID,
		dates:          dates,
		numberOfGuests: numberOfGuests,
		status:         status,
		paymentStatus:  paymentStatus,
		paymentAmount:  paymentAmount,
		vippsTxnID:     vippsTxnID,
		paidAt:         paidAt,
		notes:          notes,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CabinID returns the booked cabin's identifier.
func (b *Booking) CabinID() uuid.UUID { return b.cabinID }

// UserID returns the owning user's identifier. Ownership is immutable.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// Dates returns the inclusive reservation date range.
func (b *Booking) Dates() daterange.Range { return b.dates }

// NumberOfGuests returns the guest count for this stay.
func (b *Booking) NumberOfGuests() int { return b.numberOfGuests }

// Status returns the approval status.
func (b *Booking) Status() Status { return b.status }

// PaymentStatus returns the payment state.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// PaymentAmount returns the amount due, or nil before approval of a
// fee-carrying cabin.
func (b *Booking) PaymentAmount() *float64 { return b.paymentAmount }

// VippsTransactionID returns the recorded payment transaction reference.
func (b *Booking) VippsTransactionID() string { return b.vippsTxnID }

// PaidAt returns the payment timestamp, or nil while unpaid.
func (b *Booking) PaidAt() *time.Time { return b.paidAt }

// Notes returns the free-text notes.
func (b *Booking) Notes() string { return b.notes }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsOwnedBy reports whether the given user created this booking.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool { return b.userID == userID }

// --- Behavior ---

// Reschedule applies an owner edit of cabin, dates or guest count. Any such
// edit voids a prior admin decision: the booking drops back to pending and
// the payment state is cleared.
func (b *Booking) Reschedule(cabinID uuid.UUID, dates daterange.Range, numberOfGuests int) error {
	if cabinID == uuid.Nil {
		return domain.NewValidationError("cabin ID is required")
	}
	if numberOfGuests <= 0 {
		return domain.NewValidationError("number of guests must be positive")
	}

	b.cabinID = cabinID
	b.dates = dates
	b.numberOfGuests = numberOfGuests
	b.status = StatusPending
	b.paymentStatus = PaymentUnpaid
	b.paymentAmount = nil
	b.vippsTxnID = ""
	b.paidAt = nil
	b.updatedAt = time.Now().UTC()
	return nil
}

// UpdateDetails applies an admin edit of cabin, dates or guest count
// without resetting the approval or payment state.
func (b *Booking) UpdateDetails(cabinID uuid.UUID, dates daterange.Range, numberOfGuests int) error {
	if cabinID == uuid.Nil {
		return domain.NewValidationError("cabin ID is required")
	}
	if numberOfGuests <= 0 {
		return domain.NewValidationError("number of guests must be positive")
	}

	b.cabinID = cabinID
	b.dates = dates
	b.numberOfGuests = numberOfGuests
	b.updatedAt = time.Now().UTC()
	return nil
}

// SetNotes replaces the free-text notes.
func (b *Booking) SetNotes(notes string) {
	b.notes = notes
	b.updatedAt = time.Now().UTC()
}

// Approve marks the booking approved and computes the amount due from the
// final dates: nights times the cabin's nightly fee. A free cabin leaves
// the amount unset. A booking that was already paid stays paid.
func (b *Booking) Approve(nightlyFee float64) {
	b.status = StatusApproved
	if nightlyFee > 0 {
		amount := float64(b.dates.Nights()) * nightlyFee
		b.paymentAmount = &amount
		if b.paymentStatus != PaymentPaid {
			b.paymentStatus = PaymentUnpaid
		}
	}
	b.updatedAt = time.Now().UTC()
}

// ResetToPending moves the booking back to pending and clears the payment
// state, as if no decision had been made yet.
func (b *Booking) ResetToPending() {
	b.status = StatusPending
	b.paymentStatus = PaymentUnpaid
	b.paymentAmount = nil
	b.vippsTxnID = ""
	b.paidAt = nil
	b.updatedAt = time.Now().UTC()
}

// Reject marks the booking rejected. Payment state is left untouched.
func (b *Booking) Reject() {
	b.status = StatusRejected
	b.updatedAt = time.Now().UTC()
}

// SetPaymentStatus applies an admin override of the payment state.
func (b *Booking) SetPaymentStatus(ps PaymentStatus) {
	b.paymentStatus = ps
	b.updatedAt = time.Now().UTC()
}

// MarkPaid records a self-reported payment. The booking must be approved.
// When no transaction reference is supplied the booking ID is recorded.
func (b *Booking) MarkPaid(transactionID string, now time.Time) error {
	if b.status != StatusApproved {
		return domain.NewValidationError("Booking must be approved before payment")
	}
	if transactionID == "" {
		transactionID = b.id.String()
	}

	paidAt := now.UTC()
	b.paymentStatus = PaymentPaid
	b.vippsTxnID = transactionID
	b.paidAt = &paidAt
	b.updatedAt = paidAt
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
