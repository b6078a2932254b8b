package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
	"github.com/hyttelaget/cabin-booking/internal/domain/stats"
)

// StatisticsDTO is the response for a yearly usage report.
type StatisticsDTO struct {
	Statistics     []stats.Row `json:"statistics"`
	SelectedYear   int         `json:"selected_year"`
	AvailableYears []int       `json:"available_years"`
}

// StatisticsService computes yearly usage reports per cabin and user.
type StatisticsService struct {
	bookings bookingDomain.Repository
	cabins   cabinDomain.Repository
	profiles profileDomain.Repository
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatisticsService creates a new StatisticsService.
func NewStatisticsService(
	bookings bookingDomain.Repository,
	cabins cabinDomain.Repository,
	profiles profileDomain.Repository,
	logger *zap.Logger,
) *StatisticsService {
	return &StatisticsService{
		bookings: bookings,
		cabins:   cabins,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
	}
}

// ForYear aggregates all bookings touching the given year, regardless of
// status. Year 0 selects the current year; anything outside [2000, 2100] is
// rejected.
func (s *StatisticsService) ForYear(ctx context.Context, year int) (*StatisticsDTO, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, domain.NewValidationError("year must be between 2000 and 2100")
	}

	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	cabins, err := s.cabins.List(ctx)
	if err != nil {
		return nil, err
	}
	cabinsByID := make(map[uuid.UUID]*cabinDomain.Cabin, len(cabins))
	for _, c := range cabins {
		cabinsByID[c.ID()] = c
	}

	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	profilesByID := make(map[uuid.UUID]*profileDomain.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.ID()] = p
	}

	rows := stats.Aggregate(year, bookings, cabinsByID, profilesByID)
	years := stats.AvailableYears(bookings, s.now())

	return &StatisticsDTO{
		Statistics:     rows,
		SelectedYear:   year,
		AvailableYears: years,
	}, nil
}
