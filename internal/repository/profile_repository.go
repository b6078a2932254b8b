package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
)

// UserProfileModel is the GORM model for the user_profiles table.
type UserProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	FullName  string    `gorm:"size:255"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserProfileModel) TableName() string {
	return "user_profiles"
}

// GormProfileRepository is the GORM-based implementation of the profile
// Repository.
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository.
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID retrieves a profile by user ID.
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profileDomain.Profile, error) {
	var model UserProfileModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user", id.String())
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}
	return toDomainProfile(&model), nil
}

// List retrieves all profiles, newest first.
func (r *GormProfileRepository) List(ctx context.Context) ([]*profileDomain.Profile, error) {
	var models []UserProfileModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	profiles := make([]*profileDomain.Profile, len(models))
	for i, m := range models {
		profiles[i] = toDomainProfile(&m)
	}
	return profiles, nil
}

// Save persists a new profile. A concurrent first-login of the same user is
// tolerated: the losing insert reads the winner's row instead of failing.
func (r *GormProfileRepository) Save(ctx context.Context, p *profileDomain.Profile) error {
	if err := r.db.WithContext(ctx).Create(toProfileModel(p)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Update persists changes to an existing profile.
func (r *GormProfileRepository) Update(ctx context.Context, p *profileDomain.Profile) error {
	model := toProfileModel(p)
	result := r.db.WithContext(ctx).
		Model(&UserProfileModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"full_name":  model.FullName,
			"is_admin":   model.IsAdmin,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("user", p.ID().String())
	}
	return nil
}

// Delete removes a profile.
func (r *GormProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserProfileModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("user", id.String())
	}
	return nil
}

func toProfileModel(p *profileDomain.Profile) *UserProfileModel {
	return &UserProfileModel{
		ID:        p.ID(),
		Email:     p.Email(),
		FullName:  p.FullName(),
		IsAdmin:   p.IsAdmin(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toDomainProfile(m *UserProfileModel) *profileDomain.Profile {
	return profileDomain.Reconstruct(
		m.ID,
		m.Email,
		m.FullName,
		m.IsAdmin,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
