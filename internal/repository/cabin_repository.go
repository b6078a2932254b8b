package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
)

// CabinModel is the GORM model for the cabins table.
type CabinModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null;size:120"`
	Description string    `gorm:"size:2000"`
	Capacity    int       `gorm:"not null"`
	NightlyFee  float64   `gorm:"type:numeric(10,2);not null;default:0"`
	ImageURL    string    `gorm:"size:500"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (CabinModel) TableName() string {
	return "cabins"
}

// GormCabinRepository is the GORM-based implementation of the cabin
// Repository.
type GormCabinRepository struct {
	db *gorm.DB
}

// NewGormCabinRepository creates a new GormCabinRepository.
func NewGormCabinRepository(db *gorm.DB) *GormCabinRepository {
	return &GormCabinRepository{db: db}
}

// FindByID retrieves a cabin by its unique identifier.
func (r *GormCabinRepository) FindByID(ctx context.Context, id uuid.UUID) (*cabinDomain.Cabin, error) {
	var model CabinModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("cabin", id.String())
		}
		return nil, fmt.Errorf("failed to find cabin by ID: %w", err)
	}
	return toDomainCabin(&model), nil
}

// List retrieves all cabins ordered by name.
func (r *GormCabinRepository) List(ctx context.Context) ([]*cabinDomain.Cabin, error) {
	var models []CabinModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list cabins: %w", err)
	}

	cabins := make([]*cabinDomain.Cabin, len(models))
	for i, m := range models {
		cabins[i] = toDomainCabin(&m)
	}
	return cabins, nil
}

// Save persists a new cabin.
func (r *GormCabinRepository) Save(ctx context.Context, c *cabinDomain.Cabin) error {
	if err := r.db.WithContext(ctx).Create(toCabinModel(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(fmt.Sprintf("a cabin named %q already exists", c.Name()))
		}
		return fmt.Errorf("failed to save cabin: %w", err)
	}
	return nil
}

// Update persists changes to an existing cabin.
func (r *GormCabinRepository) Update(ctx context.Context, c *cabinDomain.Cabin) error {
	model := toCabinModel(c)
	result := r.db.WithContext(ctx).
		Model(&CabinModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"capacity":    model.Capacity,
			"nightly_fee": model.NightlyFee,
			"image_url":   model.ImageURL,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update cabin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("cabin", c.ID().String())
	}
	return nil
}

// Delete removes a cabin.
func (r *GormCabinRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CabinModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cabin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("cabin", id.String())
	}
	return nil
}

func toCabinModel(c *cabinDomain.Cabin) *CabinModel {
	return &CabinModel{
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

func toDomainCabin(m *CabinModel) *cabinDomain.Cabin {
	return cabinDomain.Reconstruct(
		m.ID,
		m.Name,
		m.Description,
		m.Capacity,
		m.NightlyFee,
		m.ImageURL,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
