package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
	"github.com/hyttelaget/cabin-booking/internal/events"
)

// EventPublisher publishes lifecycle events; failures must not fail the
// originating request.
type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType, key string, data interface{})
}

// CreateBookingCommand holds the data needed to create a new booking.
type CreateBookingCommand struct {
	CabinID        uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	NumberOfGuests int
	Notes          string
}

// UpdateBookingCommand holds a partial booking edit. Nil fields are left
// unchanged. Status and PaymentStatus may only be set by administrators.
type UpdateBookingCommand struct {
	CabinID        *uuid.UUID
	StartDate      *time.Time
	EndDate        *time.Time
	NumberOfGuests *int
	Notes          *string
	Status         *string
	PaymentStatus  *string
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                 uuid.UUID  `json:"id"`
	CabinID            uuid.UUID  `json:"cabin_id"`
	CabinName          string     `json:"cabin_name,omitempty"`
	UserID             uuid.UUID  `json:"user_id"`
	UserName           string     `json:"user_name,omitempty"`
	UserEmail          string     `json:"user_email,omitempty"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	NumberOfGuests     int        `json:"number_of_guests"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	PaymentAmount      *float64   `json:"payment_amount,omitempty"`
	VippsTransactionID string     `json:"vipps_transaction_id,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// BookingService orchestrates booking use cases: creation, owner edits,
// admin decisions, payment marking and deletion.
type BookingService struct {
	bookings  bookingDomain.Repository
	cabins    cabinDomain.Repository
	profiles  profileDomain.Repository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.Repository,
	cabins cabinDomain.Repository,
	profiles profileDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		cabins:    cabins,
		profiles:  profiles,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Create creates a booking for the given user in pending/unpaid state. The
// capacity check and the insert share one transaction.
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, cmd CreateBookingCommand) (*BookingDTO, error) {
	cab, err := s.cabins.FindByID(ctx, cmd.CabinID)
	if err != nil {
		return nil, err
	}

	guests := cmd.NumberOfGuests
	if guests == 0 {
		guests = 1
	}

	dates, err := daterange.New(cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	b, err := bookingDomain.NewBooking(cmd.CabinID, userID, dates, guests, cmd.Notes, s.now())
	if err != nil {
		return nil, err
	}

	err = s.bookings.InTx(ctx, func(tx bookingDomain.Repository) error {
		if err := tx.LockCabin(ctx, cmd.CabinID); err != nil {
			return err
		}
		existing, err := tx.FindApprovedOverlapping(ctx, cmd.CabinID, dates)
		if err != nil {
			return err
		}
		if err := bookingDomain.CheckCapacity(cab.Capacity(), dates, guests, existing, uuid.Nil); err != nil {
			return err
		}
		return tx.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingCreated, b)
	return s.toDTO(ctx, b), nil
}

// Get retrieves a booking visible to the actor: its owner or any admin.
func (s *BookingService) Get(ctx context.Context, actorID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && !isAdmin {
		return nil, domain.NewForbiddenError("you do not have access to this booking")
	}
	return s.toDTO(ctx, b), nil
}

// ListForUser retrieves all bookings belonging to a user, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error) {
	bookings, err := s.bookings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, bookings), nil
}

// ListAll retrieves a page of all bookings (admin).
func (s *BookingService) ListAll(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.ListPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(s.toDTOs(ctx, bookings), total, page, limit)
	return &result, nil
}

// Update applies a partial edit. Owners may change cabin, dates, guest
// count and notes; any change to the first three re-runs the capacity check
// and resets the booking to pending/unpaid. Admins may additionally set
// status and payment status directly, without the pending reset.
func (s *BookingService) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, bookingID uuid.UUID, cmd UpdateBookingCommand) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && !isAdmin {
		return nil, domain.NewForbiddenError("you do not have access to this booking")
	}

	if cmd.Status != nil && !isAdmin {
		return nil, domain.NewForbiddenError("Only admins can change booking status")
	}
	if cmd.CabinID != nil && !isAdmin {
		return nil, domain.NewForbiddenError("Only admins can change booking cabin")
	}
	if cmd.PaymentStatus != nil && !isAdmin {
		return nil, domain.NewForbiddenError("Only admins can change payment status")
	}

	// Resolve the final values the booking will hold after this edit.
	targetCabinID := b.CabinID()
	if cmd.CabinID != nil {
		targetCabinID = *cmd.CabinID
	}
	targetStart := b.Dates().Start
	if cmd.StartDate != nil {
		targetStart = *cmd.StartDate
	}
	targetEnd := b.Dates().End
	if cmd.EndDate != nil {
		targetEnd = *cmd.EndDate
	}
	targetGuests := b.NumberOfGuests()
	if cmd.NumberOfGuests != nil {
		targetGuests = *cmd.NumberOfGuests
	}

	targetDates, err := daterange.New(targetStart, targetEnd)
	if err != nil {
		return nil, err
	}

	detailsChanged := targetCabinID != b.CabinID() ||
		!targetDates.Start.Equal(b.Dates().Start) ||
		!targetDates.End.Equal(b.Dates().End) ||
		targetGuests != b.NumberOfGuests()

	var newStatus bookingDomain.Status
	if cmd.Status != nil {
		newStatus, err = bookingDomain.ParseStatus(*cmd.Status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}
	var newPaymentStatus bookingDomain.PaymentStatus
	if cmd.PaymentStatus != nil {
		newPaymentStatus, err = bookingDomain.ParsePaymentStatus(*cmd.PaymentStatus)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}

	targetCabin, err := s.cabins.FindByID(ctx, targetCabinID)
	if err != nil {
		return nil, err
	}

	approving := cmd.Status != nil && newStatus == bookingDomain.StatusApproved

	err = s.bookings.InTx(ctx, func(tx bookingDomain.Repository) error {
		// Any edit that changes occupancy, and any approval, must re-check
		// capacity against the approved set inside this transaction. The
		// cabin lock keeps a concurrent approval for the same cabin from
		// reading the approved set before this one commits.
		if detailsChanged || approving {
			if err := tx.LockCabin(ctx, targetCabinID); err != nil {
				return err
			}
			existing, err := tx.FindApprovedOverlapping(ctx, targetCabinID, targetDates)
			if err != nil {
				return err
			}
			if err := bookingDomain.CheckCapacity(targetCabin.Capacity(), targetDates, targetGuests, existing, b.ID()); err != nil {
				return err
			}
		}

		if detailsChanged {
			if isAdmin {
				if err := b.UpdateDetails(targetCabinID, targetDates, targetGuests); err != nil {
					return err
				}
			} else {
				if err := b.Reschedule(targetCabinID, targetDates, targetGuests); err != nil {
					return err
				}
			}
		}

		if cmd.Notes != nil {
			b.SetNotes(*cmd.Notes)
		}

		if cmd.Status != nil {
			switch newStatus {
			case bookingDomain.StatusApproved:
				b.Approve(targetCabin.NightlyFee())
			case bookingDomain.StatusRejected:
				b.Reject()
			case bookingDomain.StatusPending:
				b.ResetToPending()
			}
		}

		if cmd.PaymentStatus != nil {
			b.SetPaymentStatus(newPaymentStatus)
		}

		b.IncrementVersion()
		return tx.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	eventType := events.BookingUpdated
	if cmd.Status != nil {
		switch newStatus {
		case bookingDomain.StatusApproved:
			eventType = events.BookingApproved
		case bookingDomain.StatusRejected:
			eventType = events.BookingRejected
		}
	}
	s.publishBookingEvent(ctx, eventType, b)

	return s.toDTO(ctx, b), nil
}

// Approve marks a booking approved (admin). The amount due is computed from
// the booking's final dates and the cabin's nightly fee; the capacity check
// runs once more so the approval itself cannot overshoot the cabin.
func (s *BookingService) Approve(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	cab, err := s.cabins.FindByID(ctx, b.CabinID())
	if err != nil {
		return nil, err
	}

	err = s.bookings.InTx(ctx, func(tx bookingDomain.Repository) error {
		if err := tx.LockCabin(ctx, b.CabinID()); err != nil {
			return err
		}
		existing, err := tx.FindApprovedOverlapping(ctx, b.CabinID(), b.Dates())
		if err != nil {
			return err
		}
		if err := bookingDomain.CheckCapacity(cab.Capacity(), b.Dates(), b.NumberOfGuests(), existing, b.ID()); err != nil {
			return err
		}
		b.Approve(cab.NightlyFee())
		b.IncrementVersion()
		return tx.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingApproved, b)
	return s.toDTO(ctx, b), nil
}

// Reject marks a booking rejected (admin). No payment side effects.
func (s *BookingService) Reject(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.Reject()
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingRejected, b)
	return s.toDTO(ctx, b), nil
}

// MarkPaid records a self-reported payment for an approved booking. Allowed
// for the owner or an admin.
func (s *BookingService) MarkPaid(ctx context.Context, actorID uuid.UUID, isAdmin bool, bookingID uuid.UUID, transactionID string) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(actorID) && !isAdmin {
		return nil, domain.NewForbiddenError("you do not have access to this booking")
	}

	if err := b.MarkPaid(transactionID, s.now()); err != nil {
		return nil, err
	}
	b.IncrementVersion()
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}

	s.publishBookingEvent(ctx, events.BookingPaid, b)
	return s.toDTO(ctx, b), nil
}

// Delete removes a booking entirely, at any status. Allowed for the owner
// or an admin.
func (s *BookingService) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, bookingID uuid.UUID) error {
	b, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if !b.IsOwnedBy(actorID) && !isAdmin {
		return domain.NewForbiddenError("you do not have access to this booking")
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return err
	}

	s.publishBookingEvent(ctx, events.BookingDeleted, b)
	return nil
}

// --- Helpers ---

func (s *BookingService) publishBookingEvent(ctx context.Context, eventType string, b *bookingDomain.Booking) {
	evt := events.BookingEvent{
		BookingID:     b.ID(),
		CabinID:       b.CabinID(),
		UserID:        b.UserID(),
		StartDate:     b.Dates().Start.Format("2006-01-02"),
		EndDate:       b.Dates().End.Format("2006-01-02"),
		Status:        b.Status().String(),
		PaymentStatus: b.PaymentStatus().String(),
		PaymentAmount: b.PaymentAmount(),
		OccurredAt:    s.now().UTC(),
	}
	s.publisher.Publish(ctx, events.TopicBookingEvents, eventType, b.ID().String(), evt)
}

func (s *BookingService) toDTO(ctx context.Context, b *bookingDomain.Booking) *BookingDTO {
	dto := baseDTO(b)

	// Display names are best-effort decoration; their absence never fails
	// the request.
	if cab, err := s.cabins.FindByID(ctx, b.CabinID()); err == nil {
		dto.CabinName = cab.Name()
	}
	if prof, err := s.profiles.FindByID(ctx, b.UserID()); err == nil {
		dto.UserName = prof.FullName()
		dto.UserEmail = prof.Email()
	}
	return &dto
}

func (s *BookingService) toDTOs(ctx context.Context, bookings []*bookingDomain.Booking) []BookingDTO {
	cabinNames := make(map[uuid.UUID]string)
	if cabins, err := s.cabins.List(ctx); err == nil {
		for _, c := range cabins {
			cabinNames[c.ID()] = c.Name()
		}
	} else {
		s.logger.Warn("failed to load cabins for booking list", zap.Error(err))
	}

	type userInfo struct{ name, email string }
	userInfos := make(map[uuid.UUID]userInfo)
	if profiles, err := s.profiles.List(ctx); err == nil {
		for _, p := range profiles {
			userInfos[p.ID()] = userInfo{name: p.FullName(), email: p.Email()}
		}
	} else {
		s.logger.Warn("failed to load profiles for booking list", zap.Error(err))
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dto := baseDTO(b)
		dto.CabinName = cabinNames[b.CabinID()]
		if info, ok := userInfos[b.UserID()]; ok {
			dto.UserName = info.name
			dto.UserEmail = info.email
		}
		dtos[i] = dto
	}
	return dtos
}

func baseDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                 b.ID(),
		CabinID:            b.CabinID(),
		UserID:             b.UserID(),
		StartDate:          b.Dates().Start.Format("2006-01-02"),
		EndDate:            b.Dates().End.Format("2006-01-02"),
		NumberOfGuests:     b.NumberOfGuests(),
		Status:             b.Status().String(),
		PaymentStatus:      b.PaymentStatus().String(),
		PaymentAmount:      b.PaymentAmount(),
		VippsTransactionID: b.VippsTransactionID(),
		PaidAt:             b.PaidAt(),
		Notes:              b.Notes(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
}
