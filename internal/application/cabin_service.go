package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	"github.com/hyttelaget/cabin-booking/internal/domain/daterange"
)

// CreateCabinCommand holds the data needed to create a cabin.
type CreateCabinCommand struct {
	Name        string
	Description string
	Capacity    int
	NightlyFee  float64
	ImageURL    string
}

// UpdateCabinCommand holds a partial cabin edit. Nil fields are left
// unchanged.
type UpdateCabinCommand struct {
	Name        *string
	Description *string
	Capacity    *int
	NightlyFee  *float64
	ImageURL    *string
}

// CabinDTO is the response representation of a cabin.
type CabinDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	NightlyFee  float64   `json:"nightly_fee"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OccupancyDTO is one approved stay within the requested window, for
// rendering a cabin's availability calendar.
type OccupancyDTO struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	NumberOfGuests int    `json:"number_of_guests"`
}

// CabinService orchestrates cabin management and availability lookups.
type CabinService struct {
	cabins   cabinDomain.Repository
	bookings bookingDomain.Repository
	logger   *zap.Logger
}

// NewCabinService creates a new CabinService.
func NewCabinService(cabins cabinDomain.Repository, bookings bookingDomain.Repository, logger *zap.Logger) *CabinService {
	return &CabinService{cabins: cabins, bookings: bookings, logger: logger}
}

// Create adds a new cabin (admin).
func (s *CabinService) Create(ctx context.Context, cmd CreateCabinCommand) (*CabinDTO, error) {
	c, err := cabinDomain.NewCabin(cmd.Name, cmd.Description, cmd.Capacity, cmd.NightlyFee, cmd.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.cabins.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("cabin created", zap.String("cabin_id", c.ID().String()), zap.String("name", c.Name()))
	return toCabinDTO(c), nil
}

// Get retrieves a cabin by ID.
func (s *CabinService) Get(ctx context.Context, id uuid.UUID) (*CabinDTO, error) {
	c, err := s.cabins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCabinDTO(c), nil
}

// List retrieves all cabins, ordered by name.
func (s *CabinService) List(ctx context.Context) ([]CabinDTO, error) {
	cabins, err := s.cabins.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]CabinDTO, len(cabins))
	for i, c := range cabins {
		dtos[i] = *toCabinDTO(c)
	}
	return dtos, nil
}

// Update applies a partial edit to a cabin (admin).
func (s *CabinService) Update(ctx context.Context, id uuid.UUID, cmd UpdateCabinCommand) (*CabinDTO, error) {
	c, err := s.cabins.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := c.Name()
	if cmd.Name != nil {
		name = *cmd.Name
	}
	description := c.Description()
	if cmd.Description != nil {
		description = *cmd.Description
	}
	capacity := c.Capacity()
	if cmd.Capacity != nil {
		capacity = *cmd.Capacity
	}
	nightlyFee := c.NightlyFee()
	if cmd.NightlyFee != nil {
		nightlyFee = *cmd.NightlyFee
	}
	imageURL := c.ImageURL()
	if cmd.ImageURL != nil {
		imageURL = *cmd.ImageURL
	}

	if err := c.Update(name, description, capacity, nightlyFee, imageURL); err != nil {
		return nil, err
	}
	if err := s.cabins.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCabinDTO(c), nil
}

// Delete removes a cabin (admin). Bookings referencing it are removed by
// the database cascade.
func (s *CabinService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.cabins.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("cabin deleted", zap.String("cabin_id", id.String()))
	return nil
}

// Availability returns the approved stays of a cabin that overlap the
// given window, for calendar rendering. No owner information is exposed.
func (s *CabinService) Availability(ctx context.Context, cabinID uuid.UUID, start, end time.Time) ([]OccupancyDTO, error) {
	if _, err := s.cabins.FindByID(ctx, cabinID); err != nil {
		return nil, err
	}
	window, err := daterange.New(start, end)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindApprovedOverlapping(ctx, cabinID, window)
	if err != nil {
		return nil, err
	}

	slots := make([]OccupancyDTO, len(bookings))
	for i, b := range bookings {
		slots[i] = OccupancyDTO{
			StartDate:      b.Dates().Start.Format("2006-01-02"),
			EndDate:        b.Dates().End.Format("2006-01-02"),
			NumberOfGuests: b.NumberOfGuests(),
		}
	}
	return slots, nil
}

func toCabinDTO(c *cabinDomain.Cabin) *CabinDTO {
	return &CabinDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Capacity:    c.Capacity(),
		NightlyFee:  c.NightlyFee(),
		ImageURL:    c.ImageURL(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
