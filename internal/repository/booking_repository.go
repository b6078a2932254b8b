package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CabinID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	UserID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	StartDate          time.Time  `gorm:"type:date;not null"`
	EndDate            time.Time  `gorm:"type:date;not null"`
	NumberOfGuests     int        `gorm:"not null;default:1"`
	Status             string     `gorm:"not null;size:20;index"`
	PaymentStatus      string     `gorm:"not null;size:20;default:'unpaid'"`
	PaymentAmount      *float64   `gorm:"type:numeric(10,2)"`
	VippsTransactionID string     `gorm:"size:100"`
	PaidAt             *time.Time `gorm:""`
	Notes              string     `gorm:"size:1000"`
	Version            int64      `gorm:"not null;default:1"`
	CreatedAt          time.Time  `gorm:"not null"`
	UpdatedAt          time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of the booking
// Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves all bookings belonging to a user, newest first.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find user bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindApprovedByCabin retrieves all approved bookings for a cabin.
func (r *GormBookingRepository) FindApprovedByCabin(ctx context.Context, cabinID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("cabin_id = ? AND status = ?", cabinID, bookingDomain.StatusApproved.String()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find approved bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindApprovedOverlapping retrieves the approved bookings for a cabin whose
// date ranges overlap the given range.
func (r *GormBookingRepository) FindApprovedOverlapping(ctx context.Context, cabinID uuid.UUID, dates daterange.Range) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("cabin_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			cabinID, bookingDomain.StatusApproved.String(), dates.End, dates.Start).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	return toDomainBookings(models)
}

// List retrieves all bookings, newest first.
func (r *GormBookingRepository) List(ctx context.Context) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

// ListPage retrieves a page of all bookings with the total count.
func (r *GormBookingRepository) ListPage(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking:
// the row is only written if nobody bumped the version since it was read.
func (r *GormBookingRepository) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)

	expectedVersion := b.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"cabin_id":             model.CabinID,
			"start_date":           model.StartDate,
			"end_date":             model.EndDate,
			"number_of_guests":     model.NumberOfGuests,
			"status":               model.Status,
			"payment_status":       model.PaymentStatus,
			"payment_amount":       model.PaymentAmount,
			"vipps_transaction_id": model.VippsTransactionID,
			"paid_at":              model.PaidAt,
			"notes":                model.Notes,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another request")
	}
	return nil
}

// Delete removes a booking entirely.
func (r *GormBookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("booking", id.String())
	}
	return nil
}

// LockCabin takes a transaction-scoped advisory lock keyed on the cabin ID.
// Concurrent capacity checks for the same cabin serialize on this lock; it
// is released when the surrounding transaction commits or rolls back.
func (r *GormBookingRepository) LockCabin(ctx context.Context, cabinID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", cabinID.String()).Error; err != nil {
		return fmt.Errorf("failed to lock cabin for capacity check: %w", err)
	}
	return nil
}

// InTx runs fn against a transactional repository so the capacity check and
// the write it guards commit or roll back together.
func (r *GormBookingRepository) InTx(ctx context.Context, fn func(bookingDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormBookingRepository{db: tx})
	})
}

// --- Conversion Helpers ---

func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:                 b.ID(),
		CabinID:            b.CabinID(),
		UserID:             b.UserID(),
		StartDate:          b.Dates().Start,
		EndDate:            b.Dates().End,
		NumberOfGuests:     b.NumberOfGuests(),
		Status:             b.Status().String(),
		PaymentStatus:      b.PaymentStatus().String(),
		PaymentAmount:      b.PaymentAmount(),
		VippsTransactionID: b.VippsTransactionID(),
		PaidAt:             b.PaidAt(),
		Notes:              b.Notes(),
		Version:            b.Version(),
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	dates := daterange.Range{
		Start: daterange.Day(m.StartDate),
		End:   daterange.Day(m.EndDate),
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.CabinID,
		m.UserID,
		dates,
		m.NumberOfGuests,
		status,
		paymentStatus,
		m.PaymentAmount,
		m.VippsTransactionID,
		m.PaidAt,
		m.Notes,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		b, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = b
	}
	return bookings, nil
}
